// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

// Package transit is a client for the transit middleware, the service that
// aggregates GTFS static and realtime feeds for every Malaysian service area.
package transit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/livetransit/matransit/utils/httputils"
)

// DefaultBaseURL is used when neither a flag nor MIDDLEWARE_URL is set.
const DefaultBaseURL = "http://localhost:3000"

// DefaultTimeout bounds a middleware request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody bounds how much of a failed response is kept for reporting.
const maxErrorBody = 4 << 10

// ClientOptions configuration for Client.
type ClientOptions struct {
	// BaseURL is the middleware root, e.g. http://localhost:3000
	BaseURL string

	// UserAgent is the User-Agent header to use in HTTP requests
	UserAgent string

	// Enables light tracing of HTTP requests and responses
	EnableHTTPTrace bool

	// Enables full HTTP body tracing
	EnableHTTPBodyTrace bool

	// Timeout bounds each middleware request, zero means DefaultTimeout
	Timeout time.Duration
}

// HTTPError is returned for non-2xx middleware responses.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	msg := "request failed with status code " + fmt.Sprint(e.StatusCode)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}

	return msg
}

// Client talks to the transit middleware.
type Client struct {
	baseURL *url.URL
	client  *http.Client
}

// NewClient creates a new client with the provided options.
func NewClient(options *ClientOptions) (*Client, error) {
	if options == nil {
		options = &ClientOptions{}
	}

	raw := options.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}

	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing middleware url %q: %w", raw, err)
	}

	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("middleware url %q: unsupported scheme %q", raw, base.Scheme)
	}

	var httpLogWriter io.Writer
	if options.EnableHTTPTrace {
		httpLogWriter = os.Stderr
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	userAgent := "matransit/unknown"
	if options.UserAgent != "" {
		userAgent = options.UserAgent
	}

	return &Client{
		baseURL: base,
		client: httputils.NewClient(httputils.Options{
			UserAgent: userAgent,
			Timeout:   timeout,
			Trace:     httpLogWriter,
			TraceBody: options.EnableHTTPBodyTrace,
		}),
	}, nil
}

// BaseURL returns the middleware root the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.client.Timeout
}

// Get issues a GET for path, an escaped path joined to the base URL as is,
// and returns the JSON body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	// path carries already escaped segments, parsing keeps them intact
	u, err := url.Parse(c.baseURL.String() + path)
	if err != nil {
		return nil, fmt.Errorf("building url for %s: %w", path, err)
	}

	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response of %s: %w", path, err)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("GET %s: response is not valid JSON", path)
	}

	return json.RawMessage(body), nil
}

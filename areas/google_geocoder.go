// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package areas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/livetransit/matransit/spatial"
)

// DefaultGoogleMapsURL is the Google Maps Geocoding API endpoint.
const DefaultGoogleMapsURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleMapsGeocoder uses Google Maps Geocoding API.
type GoogleMapsGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// GoogleMapsOption customizes a GoogleMapsGeocoder.
type GoogleMapsOption func(*GoogleMapsGeocoder)

// WithBaseURL points the geocoder at a different endpoint.
func WithBaseURL(u string) GoogleMapsOption {
	return func(g *GoogleMapsGeocoder) {
		g.baseURL = u
	}
}

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(c *http.Client) GoogleMapsOption {
	return func(g *GoogleMapsGeocoder) {
		g.httpClient = c
	}
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder.
func NewGoogleMapsGeocoder(apiKey string, opts ...GoogleMapsOption) *GoogleMapsGeocoder {
	g := &GoogleMapsGeocoder{
		apiKey:  apiKey,
		baseURL: DefaultGoogleMapsURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

type addressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type googleMapsResponse struct {
	Results []struct {
		AddressComponents []addressComponent `json:"address_components"`
		Geometry          struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"` // ROOFTOP, RANGE_INTERPOLATED, GEOMETRIC_CENTER, APPROXIMATE
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status       string `json:"status"` // OK, ZERO_RESULTS, etc.
	ErrorMessage string `json:"error_message"`
}

func searchQuery(location string) string {
	location = strings.TrimSpace(location)
	if strings.Contains(strings.ToLower(location), "malaysia") {
		return location
	}

	return location + ", Malaysia"
}

func findComponent(components []addressComponent, kind string) (addressComponent, bool) {
	for _, c := range components {
		if slices.Contains(c.Types, kind) {
			return c, true
		}
	}

	return addressComponent{}, false
}

// Geocode looks up location and returns the first candidate.
func (g *GoogleMapsGeocoder) Geocode(ctx context.Context, location string) (*GeocodingResult, error) {
	params := url.Values{}
	params.Set("address", searchQuery(location))
	params.Set("key", g.apiKey)
	params.Set("region", "my") // Bias to Malaysia
	params.Set("components", "country:MY")
	params.Set("language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building geocoding request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &GeocodingError{Type: ErrorTypeTimeout, Message: "geocoding request timed out", Err: err}
		}

		return nil, &GeocodingError{Type: ErrorTypeNetworkError, Message: "geocoding request failed", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return nil, ClassifyHTTPError(resp.StatusCode, string(body))
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if gmResp.Status == "ZERO_RESULTS" || (gmResp.Status == "OK" && len(gmResp.Results) == 0) {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("no results found for location: %s", location),
			Err:     ErrNoCandidate,
		}
	}

	if geoErr := classifyStatus(gmResp.Status, gmResp.ErrorMessage); geoErr != nil {
		return nil, geoErr
	}

	result := gmResp.Results[0]

	ret := &GeocodingResult{
		Point: spatial.Point{
			Lat: result.Geometry.Location.Lat,
			Lng: result.Geometry.Location.Lng,
		},
		Precision:   result.Geometry.LocationType,
		Provider:    "google_maps",
		DisplayName: result.FormattedAddress,
	}

	if c, ok := findComponent(result.AddressComponents, "administrative_area_level_1"); ok {
		ret.State = c.LongName
		ret.StateShort = c.ShortName
	}

	if c, ok := findComponent(result.AddressComponents, "country"); ok {
		ret.Country = c.ShortName
	}

	return ret, nil
}

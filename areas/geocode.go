// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package areas

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/livetransit/matransit/utils/textutils"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Defaults for GeocodeOptions.
const (
	DefaultGeocodeTimeout = 5 * time.Second
	DefaultGeocodeRPS     = 10
	DefaultGeocodeBurst   = 5
)

// GeocodeOptions tunes the geocode resolver.
type GeocodeOptions struct {
	// Timeout bounds each lookup, including the wait for the rate limiter.
	Timeout time.Duration

	// RequestsPerSecond caps provider calls. Negative disables the limit.
	RequestsPerSecond float64

	// Burst is the limiter bucket size.
	Burst int
}

// GeocodeResolver infers the service area of a location from the state the
// geocoding provider places it in.
type GeocodeResolver struct {
	table    *Table
	geocoder Geocoder
	timeout  time.Duration
	limiter  *rate.Limiter

	// concurrent lookups of the same query share one provider call
	calls singleflight.Group
}

// NewGeocodeResolver returns a resolver backed by g. A nil g disables the
// resolver: every lookup reports ErrProviderUnavailable.
func NewGeocodeResolver(t *Table, g Geocoder, opts GeocodeOptions) *GeocodeResolver {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultGeocodeTimeout
	}

	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = DefaultGeocodeRPS
	}

	if opts.Burst <= 0 {
		opts.Burst = DefaultGeocodeBurst
	}

	limit := rate.Limit(opts.RequestsPerSecond)
	if opts.RequestsPerSecond < 0 {
		limit = rate.Inf
	}

	return &GeocodeResolver{
		table:    t,
		geocoder: g,
		timeout:  opts.Timeout,
		limiter:  rate.NewLimiter(limit, opts.Burst),
	}
}

// Enabled reports whether a provider is configured.
func (r *GeocodeResolver) Enabled() bool {
	return r != nil && r.geocoder != nil
}

func (r *GeocodeResolver) geocode(ctx context.Context, query string) (*GeocodingResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &GeocodingError{Type: ErrorTypeTimeout, Message: "waiting for geocoding quota", Err: err}
	}

	return r.geocoder.Geocode(ctx, query)
}

// Lookup geocodes location and maps the resulting state to a service area.
func (r *GeocodeResolver) Lookup(ctx context.Context, location string) (Result, error) {
	if !r.Enabled() {
		return Result{}, ErrProviderUnavailable
	}

	query := strings.TrimSpace(location)
	key := textutils.Normalize(query)

	if key == "" {
		return Result{}, ErrNoCandidate
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ch := r.calls.DoChan(key, func() (any, error) {
		// The shared call outlives any single waiter, bounded by its own timeout.
		callCtx, callCancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer callCancel()

		return r.geocode(callCtx, query)
	})

	var gr *GeocodingResult

	select {
	case <-ctx.Done():
		return Result{}, &GeocodingError{Type: ErrorTypeTimeout, Message: "geocoding timed out", Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return Result{}, res.Err
		}

		gr, _ = res.Val.(*GeocodingResult)
	}

	if gr == nil {
		return Result{}, ErrNoCandidate
	}

	if gr.State == "" && gr.StateShort == "" {
		return Result{}, fmt.Errorf("%w: candidate %q has no state", ErrUnmappedState, gr.DisplayName)
	}

	area, ok := r.table.AreaForState(gr.State)
	if !ok && gr.StateShort != "" {
		area, ok = r.table.AreaForState(gr.StateShort)
	}

	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnmappedState, gr.State)
	}

	normalized := gr.DisplayName
	if normalized == "" {
		normalized = query
	}

	return Result{
		Area:       area.ID,
		Confidence: ConfidenceMedium,
		Location:   normalized,
		Source:     SourceGeocode,
	}, nil
}

// Resolve is Lookup with every failure reported as false.
func (r *GeocodeResolver) Resolve(ctx context.Context, location string) (Result, bool) {
	res, err := r.Lookup(ctx, location)

	return res, err == nil
}

// Step adapts the resolver to a resolution step.
func (r *GeocodeResolver) Step() Step {
	return r.Lookup
}

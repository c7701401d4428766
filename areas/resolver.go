// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package areas

import (
	"context"
	"errors"
	"log"
	"strings"
)

// Step is one resolution attempt. It returns an error to pass the location
// on to the next step.
type Step func(ctx context.Context, location string) (Result, error)

// Resolver runs its steps in order and returns the first result.
type Resolver struct {
	table *Table
	steps []Step
}

// Options configures New.
type Options struct {
	Match   MatchMode
	Geocode GeocodeOptions
}

// New builds the standard chain: gazetteer, then geocoding through g. A nil
// g leaves only the gazetteer.
func New(t *Table, g Geocoder, opts Options) *Resolver {
	return NewResolver(t,
		NewGazetteer(t, opts.Match).Step(),
		NewGeocodeResolver(t, g, opts.Geocode).Step(),
	)
}

// NewResolver builds a resolver over arbitrary steps.
func NewResolver(t *Table, steps ...Step) *Resolver {
	return &Resolver{
		table: t,
		steps: steps,
	}
}

// Detect resolves location to a service area. It never fails: any problem
// along the way is logged and reported as false.
func (r *Resolver) Detect(ctx context.Context, location string) (Result, bool) {
	if strings.TrimSpace(location) == "" {
		return Result{}, false
	}

	for _, step := range r.steps {
		res, err := step(ctx, location)
		if err == nil {
			return res, true
		}

		if !isExpectedMiss(err) {
			log.Printf("area detection for %q (%s): %v", location, failureKind(err), err)
		}
	}

	return Result{}, false
}

// Mapping returns the full area → states mapping.
func (r *Resolver) Mapping() Mapping {
	return r.table.Mapping()
}

func isExpectedMiss(err error) bool {
	return errors.Is(err, ErrNoMatch) || errors.Is(err, ErrProviderUnavailable)
}

// failureKind tags a step failure for the logs, so quota exhaustion and
// provider throttling stand out from plain misses.
func failureKind(err error) string {
	switch {
	case IsQuotaExceededError(err):
		return "quota exceeded"
	case IsRateLimitError(err):
		return "rate limited"
	case IsTimeoutError(err):
		return "timeout"
	case errors.Is(err, ErrNoCandidate), errors.Is(err, ErrUnmappedState):
		return "no result"
	default:
		return "provider error"
	}
}

// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package areas

import (
	"context"
	"sync/atomic"
)

// fakeGeocoder returns a canned answer and counts calls.
type fakeGeocoder struct {
	result *GeocodingResult
	err    error

	// when set, Geocode waits for it to be closed (or for ctx to end)
	block chan struct{}

	calls atomic.Int32
}

func (f *fakeGeocoder) Geocode(ctx context.Context, _ string) (*GeocodingResult, error) {
	f.calls.Add(1)

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return f.result, f.err
}

func kedahCandidate() *GeocodingResult {
	return &GeocodingResult{
		State:       "Kedah",
		StateShort:  "Kedah",
		Country:     "MY",
		Precision:   "APPROXIMATE",
		Provider:    "fake",
		DisplayName: "Alor Setar, Kedah, Malaysia",
	}
}

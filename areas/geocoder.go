// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package areas

import (
	"context"

	"github.com/livetransit/matransit/spatial"
)

// GeocodingResult is the best candidate returned by a geocoding provider.
type GeocodingResult struct {
	Point       spatial.Point
	State       string // administrative area level 1, long form
	StateShort  string // administrative area level 1, short form
	Country     string // ISO 3166-1 alpha-2
	Precision   string // provider specific, e.g. ROOFTOP or APPROXIMATE
	Provider    string
	DisplayName string
}

// Geocoder interface for different geocoding providers.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*GeocodingResult, error)
}

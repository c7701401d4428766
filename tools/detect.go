// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"fmt"

	"github.com/livetransit/matransit/areas"
)

// Detector resolves free-form locations to service areas.
type Detector interface {
	Detect(ctx context.Context, location string) (areas.Result, bool)
	Mapping() areas.Mapping
}

// Detection is the answer to a location lookup. Exactly one of the two
// shapes is populated depending on Success.
type Detection struct {
	Success    bool             `json:"success"`
	Area       string           `json:"area,omitempty"`
	Confidence areas.Confidence `json:"confidence,omitempty"`
	Location   string           `json:"location,omitempty"`
	Source     areas.Source     `json:"source,omitempty"`
	Message    string           `json:"message"`

	AvailableAreas *areas.Mapping `json:"availableAreas,omitempty"`
}

// Detect looks location up with d. A miss carries the full area mapping so
// the caller can pick an area itself.
func Detect(ctx context.Context, d Detector, location string) Detection {
	res, ok := d.Detect(ctx, location)
	if !ok {
		mapping := d.Mapping()

		return Detection{
			Success:        false,
			Message:        fmt.Sprintf("Could not automatically detect service area for %q. Please specify the area manually.", location),
			AvailableAreas: &mapping,
		}
	}

	return Detection{
		Success:    true,
		Area:       res.Area,
		Confidence: res.Confidence,
		Location:   res.Location,
		Source:     res.Source,
		Message:    fmt.Sprintf("Location %q detected in service area: %s", location, res.Area),
	}
}

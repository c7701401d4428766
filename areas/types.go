// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

// Package areas resolves free-text Malaysian place names to the transit
// service area that covers them.
//
// Resolution is a short chain: a static gazetteer of landmark keywords is
// consulted first, and only when it misses is an external geocoder asked for
// the state the place lies in. Every failure collapses into "not resolved";
// callers then present Mapping so the user can pick an area by hand.
package areas

import (
	"encoding/json"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Confidence grades how reliable a resolution is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Source names the method that produced a Result.
type Source string

const (
	SourceGazetteer Source = "gazetteer"
	SourceGeocode   Source = "geocode"
)

// ServiceArea is a region the middleware serves independently.
type ServiceArea struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	States []string `json:"states"`
}

// Entry maps a keyword to the service area it identifies.
type Entry struct {
	Pattern string `json:"pattern"`
	AreaID  string `json:"area"`
}

// Result is a successful resolution.
type Result struct {
	Area       string     `json:"area"`
	Confidence Confidence `json:"confidence"`
	Location   string     `json:"location"`
	Source     Source     `json:"source"`
}

// Mapping is the ordered list of service areas and the states they cover.
// The order is the priority used whenever more than one area could claim a
// state. A Mapping is never modified after it is built.
type Mapping struct {
	areas []ServiceArea
}

// Areas returns a copy of the service areas in priority order.
func (m Mapping) Areas() []ServiceArea {
	ret := make([]ServiceArea, len(m.areas))
	for i, a := range m.areas {
		a.States = slices.Clone(a.States)
		ret[i] = a
	}

	return ret
}

// Len returns the number of service areas.
func (m Mapping) Len() int {
	return len(m.areas)
}

// Area finds a service area by identifier.
func (m Mapping) Area(id string) (ServiceArea, bool) {
	for _, a := range m.areas {
		if a.ID == id {
			a.States = slices.Clone(a.States)

			return a, true
		}
	}

	return ServiceArea{}, false
}

// States returns the area identifier → states table, preserving priority
// order when serialized.
func (m Mapping) States() *orderedmap.OrderedMap[string, []string] {
	om := orderedmap.New[string, []string](len(m.areas))
	for _, a := range m.areas {
		om.Set(a.ID, slices.Clone(a.States))
	}

	return om
}

// MarshalJSON renders the mapping as {"<area id>": ["<state>", ...], ...}.
func (m Mapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.States())
}

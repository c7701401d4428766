// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package areas

import (
	_ "embed" // default tables
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/livetransit/matransit/utils/textutils"
)

var (
	errEmptyTable     = errors.New("table has no service areas")
	errInvalidArea    = errors.New("invalid service area")
	errDuplicateArea  = errors.New("duplicate service area")
	errInvalidEntry   = errors.New("invalid gazetteer entry")
	errUnknownAreaRef = errors.New("gazetteer entry references unknown area")
)

//go:embed data/areas.json
var defaultData []byte

// Table holds the service area mapping and the gazetteer that points into it.
// Both are fixed once the table is built and are safe for concurrent use.
type Table struct {
	mapping   Mapping
	gazetteer []Entry

	// folded state name → index in mapping.areas, first area wins
	stateIndex map[string]int
}

type tableFile struct {
	Areas     []ServiceArea `json:"areas"`
	Gazetteer []Entry       `json:"gazetteer"`
}

// NewTable validates areas and entries and builds a Table. Slice order is
// significant: areas are listed in priority order and entries from most to
// least specific.
func NewTable(areas []ServiceArea, entries []Entry) (*Table, error) {
	if len(areas) == 0 {
		return nil, errEmptyTable
	}

	t := &Table{
		mapping:    Mapping{areas: make([]ServiceArea, 0, len(areas))},
		gazetteer:  make([]Entry, 0, len(entries)),
		stateIndex: make(map[string]int),
	}

	ids := make(map[string]bool, len(areas))

	for i, a := range areas {
		if a.ID == "" {
			return nil, fmt.Errorf("%w: area #%d has no id", errInvalidArea, i)
		}

		if ids[a.ID] {
			return nil, fmt.Errorf("%w: %q", errDuplicateArea, a.ID)
		}

		if len(a.States) == 0 {
			return nil, fmt.Errorf("%w: %q covers no states", errInvalidArea, a.ID)
		}

		ids[a.ID] = true

		if a.Name == "" {
			a.Name = a.ID
		}

		states := make([]string, 0, len(a.States))

		for _, s := range a.States {
			key := textutils.Normalize(s)
			if key == "" {
				return nil, fmt.Errorf("%w: %q has an empty state name", errInvalidArea, a.ID)
			}

			if _, ok := t.stateIndex[key]; !ok {
				t.stateIndex[key] = len(t.mapping.areas)
			}

			states = append(states, s)
		}

		a.States = states
		t.mapping.areas = append(t.mapping.areas, a)
	}

	for i, e := range entries {
		pattern := textutils.Normalize(e.Pattern)
		if pattern == "" {
			return nil, fmt.Errorf("%w: entry #%d has an empty pattern", errInvalidEntry, i)
		}

		if !ids[e.AreaID] {
			return nil, fmt.Errorf("%w: %q → %q", errUnknownAreaRef, e.Pattern, e.AreaID)
		}

		t.gazetteer = append(t.gazetteer, Entry{Pattern: pattern, AreaID: e.AreaID})
	}

	return t, nil
}

func parseTable(data []byte) (*Table, error) {
	var f tableFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing areas JSON: %w", err)
	}

	return NewTable(f.Areas, f.Gazetteer)
}

// LoadTable loads a service area table from a JSON file with the same layout
// as the embedded default.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("reading areas file: %w", err)
	}

	return parseTable(data)
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return parseTable(defaultData)
})

// Default returns the built-in table. It is parsed on first use and shared.
func Default() (*Table, error) {
	return defaultTable()
}

// Mapping returns the area → states mapping.
func (t *Table) Mapping() Mapping {
	return t.mapping
}

// Entries returns a copy of the normalized gazetteer entries in match order.
func (t *Table) Entries() []Entry {
	ret := make([]Entry, len(t.gazetteer))
	copy(ret, t.gazetteer)

	return ret
}

// AreaForState returns the highest priority area covering state.
func (t *Table) AreaForState(state string) (ServiceArea, bool) {
	i, ok := t.stateIndex[textutils.Normalize(state)]
	if !ok {
		return ServiceArea{}, false
	}

	return t.mapping.Area(t.mapping.areas[i].ID)
}

// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package areas

import (
	"context"
	"fmt"
	"strings"

	"github.com/livetransit/matransit/utils/textutils"
)

// MatchMode selects how gazetteer patterns are compared with the input.
type MatchMode int

const (
	// MatchWords requires the pattern to appear as whole words, so "kl"
	// matches "Pavilion KL" but not "Kluang".
	MatchWords MatchMode = iota
	// MatchSubstring accepts the pattern anywhere in the normalized input.
	MatchSubstring
)

// ParseMatchMode parses "words" or "substring".
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "words", "word":
		return MatchWords, nil
	case "substring", "raw":
		return MatchSubstring, nil
	default:
		return MatchWords, fmt.Errorf("unknown match mode %q (want words or substring)", s)
	}
}

func (m MatchMode) String() string {
	if m == MatchSubstring {
		return "substring"
	}

	return "words"
}

// Gazetteer matches locations against the table's keyword list.
type Gazetteer struct {
	entries []Entry
	mode    MatchMode
}

// NewGazetteer returns a matcher over the entries of t.
func NewGazetteer(t *Table, mode MatchMode) *Gazetteer {
	return &Gazetteer{
		entries: t.gazetteer,
		mode:    mode,
	}
}

func (g *Gazetteer) contains(text, pattern string) bool {
	if g.mode == MatchSubstring {
		return strings.Contains(text, pattern)
	}

	return textutils.ContainsWords(text, pattern)
}

// Lookup returns the area of the first entry contained in location, or
// ErrNoMatch.
func (g *Gazetteer) Lookup(location string) (Result, error) {
	text := textutils.Normalize(location)
	if text == "" {
		return Result{}, ErrNoMatch
	}

	for _, e := range g.entries {
		if g.contains(text, e.Pattern) {
			return Result{
				Area:       e.AreaID,
				Confidence: ConfidenceHigh,
				Location:   strings.TrimSpace(location),
				Source:     SourceGazetteer,
			}, nil
		}
	}

	return Result{}, ErrNoMatch
}

// Match is Lookup with the miss reported as false.
func (g *Gazetteer) Match(location string) (Result, bool) {
	r, err := g.Lookup(location)

	return r, err == nil
}

// Step adapts the gazetteer to a resolution step.
func (g *Gazetteer) Step() Step {
	return func(_ context.Context, location string) (Result, error) {
		return g.Lookup(location)
	}
}

// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

// Package textutils normalizes free-text place names for comparison.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LowerASCIIFolding normalizes a string by removing accents, lowercasing, and trimming spaces.
func LowerASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

// Normalize folds s and collapses every run of characters that are neither
// letters nor digits into a single space. "Stesen  KTM-Alor Setar!" becomes
// "stesen ktm alor setar".
func Normalize(s string) string {
	s = LowerASCIIFolding(s)

	var b strings.Builder

	b.Grow(len(s))

	pendingSpace := false

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingSpace = b.Len() > 0

			continue
		}

		if pendingSpace {
			b.WriteByte(' ')

			pendingSpace = false
		}

		b.WriteRune(r)
	}

	return b.String()
}

// ContainsWords reports whether the normalized phrase appears in the
// normalized text as a sequence of whole words. Both arguments must already
// be in the form returned by Normalize.
func ContainsWords(text, phrase string) bool {
	if phrase == "" {
		return false
	}

	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

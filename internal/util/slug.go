// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation with Unicode normalization support.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// slugInvalidChars matches anything that is not a-z, 0-9, whitespace or a hyphen.
	// Whitespace includes \v, Unicode separators (NBSP and friends) and U+FEFF.
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s\v\p{Z}\x{FEFF}-]`)
	// whitespaceRuns matches runs of whitespace
	whitespaceRuns = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a display name to a URL-friendly slug.
// It lowercases, strips diacritics, drops every character outside
// [a-z0-9], whitespace and hyphens, then collapses whitespace and hyphen runs.
// Applying Slugify to its own output returns the same string.
func Slugify(s string) string {
	result := strings.ToLower(s)

	// Decompose accents and drop the combining marks
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ = transform.String(t, result)

	result = slugInvalidChars.ReplaceAllString(result, "")
	result = strings.TrimFunc(result, isSlugSpace)
	result = whitespaceRuns.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")

	return result
}

func isSlugSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r) || r == '\uFEFF'
}

// IsValidSlug checks if a string only uses the slug alphabet.
// Leading or trailing hyphens are accepted because Slugify keeps them.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	return !strings.Contains(s, "--")
}

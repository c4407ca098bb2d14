// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// ASCII transliterates s to plain ASCII ("Peten" for "Petén", "Nino" for "Niño").
// Used for PDF core fonts and download filenames, which cannot carry UTF-8.
func ASCII(s string) string {
	return unidecode.Unidecode(s)
}

// DownloadFilename builds a safe attachment filename from a display name.
// The result is a slug of the transliterated name, or fallback when empty.
func DownloadFilename(name, ext, fallback string) string {
	base := Slugify(ASCII(name))
	base = strings.Trim(base, "-")
	if base == "" {
		base = fallback
	}
	return base + ext
}

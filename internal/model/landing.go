// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// LandingVariant selects which marketing home page is shown.
type LandingVariant string

// Landing variants.
const (
	LandingDefault LandingVariant = "default"
	LandingCooitza LandingVariant = "cooitza"
)

// LandingVariantKey is the app_settings key holding the active variant.
const LandingVariantKey = "landingVariant"

// ParseLandingVariant maps a stored value to a variant; anything unknown is default.
func ParseLandingVariant(value string) LandingVariant {
	if value == string(LandingCooitza) {
		return LandingCooitza
	}
	return LandingDefault
}

// Valid reports whether v is a known variant.
func (v LandingVariant) Valid() bool {
	return v == LandingDefault || v == LandingCooitza
}

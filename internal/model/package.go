// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viajexmundo/agencia/internal/util"
)

// PackageStatus is the publication status of a travel package.
type PackageStatus string

// Package statuses.
const (
	StatusDraft     PackageStatus = "DRAFT"
	StatusPublished PackageStatus = "PUBLISHED"
	StatusArchived  PackageStatus = "ARCHIVED"
)

// ValidStatuses contains all package statuses.
var ValidStatuses = []PackageStatus{StatusDraft, StatusPublished, StatusArchived}

// Valid reports whether s is one of the known statuses.
func (s PackageStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

const (
	// CurrencyGTQ is the only currency packages are priced in.
	CurrencyGTQ = "GTQ"
	// DefaultCoverImage is used when a package has no cover image.
	DefaultCoverImage = "/logo-agencia.png"
	// DefaultStepTitleFormat names an itinerary step without a title.
	DefaultStepTitleFormat = "Dia %d"
	// DefaultStepDescription describes an itinerary step without a description.
	DefaultStepDescription = "Actividad por definir"
)

// StringList is an ordered list of strings stored as a JSON array.
type StringList []string

// Value implements driver.Valuer. A nil list is stored as "[]".
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	data, err := jsonColumnBytes(src)
	if err != nil {
		return fmt.Errorf("scanning string list: %w", err)
	}
	var out []string
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return fmt.Errorf("scanning string list: %w", err)
		}
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// ItineraryStep is one day of a package itinerary.
type ItineraryStep struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Itinerary is the ordered day-by-day plan of a package, stored as JSON.
type Itinerary []ItineraryStep

// Renumbered returns a copy with day numbers set to 1..N by position.
func (it Itinerary) Renumbered() Itinerary {
	out := make(Itinerary, len(it))
	for i, step := range it {
		step.Day = i + 1
		out[i] = step
	}
	return out
}

// Value implements driver.Valuer.
func (it Itinerary) Value() (driver.Value, error) {
	if it == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]ItineraryStep(it))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (it *Itinerary) Scan(src any) error {
	data, err := jsonColumnBytes(src)
	if err != nil {
		return fmt.Errorf("scanning itinerary: %w", err)
	}
	var out []ItineraryStep
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return fmt.Errorf("scanning itinerary: %w", err)
		}
	}
	if out == nil {
		out = []ItineraryStep{}
	}
	*it = out
	return nil
}

func jsonColumnBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", src)
	}
}

// NewItineraryStep builds a step, applying the title and description
// fallbacks for the given 1-based position.
func NewItineraryStep(position int, title, description string) ItineraryStep {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		title = fmt.Sprintf(DefaultStepTitleFormat, position)
	}
	if description == "" {
		description = DefaultStepDescription
	}
	return ItineraryStep{Day: position, Title: title, Description: description}
}

// PackageInput is the write model shared by the manual form, CSV import and
// JSON import paths.
type PackageInput struct {
	PackageCode   string
	Name          string
	Destination   string
	DurationDays  int64
	BasePrice     int64
	OfferPrice    *int64
	IsOffer       bool
	OfferLabel    *string
	Summary       string
	Description   string
	CoverImageURL string
	Gallery       StringList
	Includes      StringList
	Excludes      StringList
	Itinerary     Itinerary
	Status        PackageStatus
}

// Normalize applies the invariants every write path must honor: offer
// fields are cleared unless IsOffer, the cover falls back to the placeholder,
// itinerary days are positional and unknown statuses become DRAFT.
func (in *PackageInput) Normalize() {
	if !in.IsOffer {
		in.OfferPrice = nil
		in.OfferLabel = nil
	}
	if strings.TrimSpace(in.CoverImageURL) == "" {
		in.CoverImageURL = DefaultCoverImage
	}
	if in.Gallery == nil {
		in.Gallery = StringList{}
	}
	if in.Includes == nil {
		in.Includes = StringList{}
	}
	if in.Excludes == nil {
		in.Excludes = StringList{}
	}
	in.Itinerary = in.Itinerary.Renumbered()
	if !in.Status.Valid() {
		in.Status = StatusDraft
	}
}

// Slug returns the slug derived from the package name.
func (in PackageInput) Slug() string {
	return util.Slugify(in.Name)
}

// EffectivePrice is the price a customer pays: the offer price when the
// package is on offer and has one, otherwise the base price.
func EffectivePrice(basePrice int64, isOffer bool, offerPrice *int64) int64 {
	if isOffer && offerPrice != nil && *offerPrice > 0 {
		return *offerPrice
	}
	return basePrice
}

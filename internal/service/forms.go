// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/validation"
)

// PackageForm is the manual create/edit form as submitted. Lists are one
// item per line; itinerary lines are "title|description".
type PackageForm struct {
	PackageCode   string `form:"packageCode" validate:"min=3"`
	Name          string `form:"name" validate:"min=3"`
	Destination   string `form:"destination" validate:"min=2"`
	DurationDays  string `form:"durationDays" validate:"required,number"`
	BasePrice     string `form:"basePrice" validate:"required,number"`
	OfferPrice    string `form:"offerPrice"`
	IsOffer       string `form:"isOffer" validate:"oneof=true false"`
	OfferLabel    string `form:"offerLabel"`
	Summary       string `form:"summary" validate:"min=10"`
	Description   string `form:"description" validate:"min=10"`
	CoverImageURL string `form:"coverImageUrl"`
	Gallery       string `form:"gallery"`
	Includes      string `form:"includes" validate:"min=2"`
	Excludes      string `form:"excludes" validate:"min=2"`
	Itinerary     string `form:"itinerary" validate:"min=2"`
	Status        string `form:"status" validate:"oneof=DRAFT PUBLISHED ARCHIVED"`
}

// PackageFormFromValues reads a PackageForm from posted form values.
func PackageFormFromValues(v url.Values) PackageForm {
	return PackageForm{
		PackageCode:   v.Get("packageCode"),
		Name:          v.Get("name"),
		Destination:   v.Get("destination"),
		DurationDays:  strings.TrimSpace(v.Get("durationDays")),
		BasePrice:     strings.TrimSpace(v.Get("basePrice")),
		OfferPrice:    v.Get("offerPrice"),
		IsOffer:       v.Get("isOffer"),
		OfferLabel:    v.Get("offerLabel"),
		Summary:       v.Get("summary"),
		Description:   v.Get("description"),
		CoverImageURL: v.Get("coverImageUrl"),
		Gallery:       v.Get("gallery"),
		Includes:      v.Get("includes"),
		Excludes:      v.Get("excludes"),
		Itinerary:     v.Get("itinerary"),
		Status:        v.Get("status"),
	}
}

// Input validates the form and converts it to a normalized PackageInput.
func (f PackageForm) Input() (model.PackageInput, []validation.Issue) {
	issues := validation.Struct(f, "")

	duration, issue := parseWhole("durationDays", f.DurationDays)
	if issue != nil {
		issues = append(issues, *issue)
	}
	basePrice, issue := parseWhole("basePrice", f.BasePrice)
	if issue != nil {
		issues = append(issues, *issue)
	}
	if len(issues) > 0 {
		return model.PackageInput{}, issues
	}

	in := model.PackageInput{
		PackageCode:   f.PackageCode,
		Name:          f.Name,
		Destination:   f.Destination,
		DurationDays:  duration,
		BasePrice:     basePrice,
		OfferPrice:    parseOfferPrice(f.OfferPrice),
		IsOffer:       f.IsOffer == "true",
		OfferLabel:    optionalText(f.OfferLabel),
		Summary:       f.Summary,
		Description:   f.Description,
		CoverImageURL: f.CoverImageURL,
		Gallery:       lines(f.Gallery),
		Includes:      lines(f.Includes),
		Excludes:      lines(f.Excludes),
		Itinerary:     itineraryLines(f.Itinerary),
		Status:        model.PackageStatus(f.Status),
	}
	in.Normalize()
	return in, nil
}

// parseWhole parses a positive integer field. Non-numeric input is already
// reported by the "number" rule; out of range and values below 1 get an issue.
func parseWhole(path, raw string) (int64, *validation.Issue) {
	n, err := strconv.ParseInt(raw, 10, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return 0, &validation.Issue{Path: path, Message: "Numero demasiado grande"}
	case err != nil:
		return 0, nil
	case n < 1:
		return 0, &validation.Issue{Path: path, Message: "Debe ser mayor o igual a 1"}
	}
	return n, nil
}

// parseOfferPrice floors a numeric offer price. Blank, unparsable and
// non-positive values mean no offer price.
func parseOfferPrice(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = math.Floor(f)
	if f < 1 || f >= math.MaxInt64 {
		return nil
	}
	n := int64(f)
	return &n
}

func optionalText(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}

// lines splits text on newlines, trimming and dropping blank lines.
func lines(raw string) model.StringList {
	out := model.StringList{}
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// itineraryLines parses "title|description" lines. Only the first "|"
// separates; later ones belong to the description.
func itineraryLines(raw string) model.Itinerary {
	items := lines(raw)
	it := make(model.Itinerary, len(items))
	for i, line := range items {
		title, description, _ := strings.Cut(line, "|")
		it[i] = model.NewItineraryStep(i+1, title, description)
	}
	return it
}

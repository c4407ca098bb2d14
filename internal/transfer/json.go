// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/validation"
)

// MaxReportedIssues caps how many issues a ValidationError lists.
const MaxReportedIssues = 5

// ValidationError reports why a JSON import was rejected.
type ValidationError struct {
	Issues []validation.Issue
}

func (e *ValidationError) Error() string {
	return "JSON invalido: " + validation.Join(e.Issues, MaxReportedIssues)
}

// JSONStep is one itinerary entry of a JSON import. Day is accepted but
// ignored; days are assigned by position.
type JSONStep struct {
	Day         *int64 `json:"day"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// JSONPackage is one package of a JSON import.
type JSONPackage struct {
	PackageCode   string     `json:"packageCode" validate:"min=3"`
	Name          string     `json:"name" validate:"min=3"`
	Destination   string     `json:"destination" validate:"min=2"`
	DurationDays  int64      `json:"durationDays" validate:"min=1"`
	BasePrice     int64      `json:"basePrice" validate:"min=1"`
	OfferPrice    *int64     `json:"offerPrice" validate:"omitnil,min=1"`
	IsOffer       *bool      `json:"isOffer"`
	OfferLabel    *string    `json:"offerLabel"`
	Summary       string     `json:"summary" validate:"min=10"`
	Description   string     `json:"description" validate:"min=10"`
	CoverImageURL *string    `json:"coverImageUrl"`
	Gallery       []string   `json:"gallery"`
	Includes      []string   `json:"includes"`
	Excludes      []string   `json:"excludes"`
	Itinerary     []JSONStep `json:"itinerary" validate:"min=1,dive"`
}

// Input converts the record into a DRAFT package input.
func (p JSONPackage) Input() model.PackageInput {
	in := model.PackageInput{
		PackageCode:  p.PackageCode,
		Name:         p.Name,
		Destination:  p.Destination,
		DurationDays: p.DurationDays,
		BasePrice:    p.BasePrice,
		OfferPrice:   p.OfferPrice,
		IsOffer:      p.IsOffer != nil && *p.IsOffer,
		OfferLabel:   p.OfferLabel,
		Summary:      p.Summary,
		Description:  p.Description,
		Gallery:      model.StringList(p.Gallery),
		Includes:     model.StringList(p.Includes),
		Excludes:     model.StringList(p.Excludes),
		Status:       model.StatusDraft,
	}
	if p.CoverImageURL != nil {
		in.CoverImageURL = *p.CoverImageURL
	}
	in.Itinerary = make(model.Itinerary, len(p.Itinerary))
	for i, step := range p.Itinerary {
		in.Itinerary[i] = model.ItineraryStep{Day: i + 1, Title: step.Title, Description: step.Description}
	}
	return in
}

// NormalizeJSONImportInput turns a parsed JSON value into the list of
// candidate packages: arrays are used as-is, an object with a "packages"
// array yields that array, and any other value becomes a one-element list.
func NormalizeJSONImportInput(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case map[string]any:
		if list, ok := v["packages"].([]any); ok {
			return list
		}
	}
	return []any{value}
}

// DecodeJSONImport parses and validates a pasted JSON import. Any invalid
// element rejects the whole payload with a *ValidationError.
func DecodeJSONImport(data []byte) ([]JSONPackage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &ValidationError{Issues: []validation.Issue{{Message: "No se pudo leer el JSON: " + err.Error()}}}
	}

	candidates := NormalizeJSONImportInput(raw)
	packages := make([]JSONPackage, 0, len(candidates))
	var issues []validation.Issue

	for i, candidate := range candidates {
		prefix := fmt.Sprintf("packages[%d]", i)

		if _, ok := candidate.(map[string]any); !ok {
			issues = append(issues, validation.Issue{Path: prefix, Message: "Se esperaba un objeto"})
			continue
		}

		encoded, err := json.Marshal(candidate)
		if err != nil {
			issues = append(issues, validation.Issue{Path: prefix, Message: err.Error()})
			continue
		}

		var pkg JSONPackage
		if err := json.Unmarshal(encoded, &pkg); err != nil {
			issues = append(issues, decodeIssue(prefix, err))
			continue
		}

		if found := validation.Struct(pkg, prefix); len(found) > 0 {
			issues = append(issues, found...)
			continue
		}
		packages = append(packages, pkg)
	}

	if len(issues) > 0 {
		if len(issues) > MaxReportedIssues {
			issues = issues[:MaxReportedIssues]
		}
		return nil, &ValidationError{Issues: issues}
	}
	return packages, nil
}

// decodeIssue describes a type mismatch found while decoding one element.
func decodeIssue(prefix string, err error) validation.Issue {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := validation.JoinPath(prefix, typeErr.Field)
		want := typeErr.Type.Kind().String()
		switch want {
		case "int64", "int":
			want = "entero"
		case "string":
			want = "texto"
		case "bool":
			want = "booleano"
		case "slice":
			want = "arreglo"
		case "struct":
			want = "objeto"
		}
		return validation.Issue{Path: path, Message: "Se esperaba " + want + ", se recibio " + strings.TrimSpace(typeErr.Value)}
	}
	return validation.Issue{Path: prefix, Message: err.Error()}
}

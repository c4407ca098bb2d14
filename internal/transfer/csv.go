// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer converts travel packages to and from the spreadsheet CSV
// format and validates pasted JSON imports.
package transfer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/store"
)

// Separators used inside a single CSV cell.
const (
	ListSeparator = "||"
	StepSeparator = "::"
)

// Decode fallbacks.
const (
	DefaultSummary     = "Sin resumen"
	DefaultDescription = "Sin descripcion"
)

// CSVColumns is the fixed column order of the package CSV.
var CSVColumns = []string{
	"packageCode",
	"name",
	"destination",
	"durationDays",
	"basePrice",
	"offerPrice",
	"isOffer",
	"offerLabel",
	"status",
	"summary",
	"description",
	"coverImageUrl",
	"gallery",
	"includes",
	"excludes",
	"itinerary",
}

// MissingColumnError is returned when the CSV header lacks a required column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return "Falta columna requerida: " + e.Column
}

// BuildPackagesCSV renders packages as CSV. Every value is quoted and line
// breaks inside a value become spaces, since ParsePackagesCSV reads one
// package per line.
func BuildPackagesCSV(packages []store.Package) string {
	lines := make([]string, 0, len(packages)+1)
	lines = append(lines, strings.Join(CSVColumns, ","))

	for _, p := range packages {
		offerPrice := ""
		if p.OfferPrice.Valid {
			offerPrice = strconv.FormatInt(p.OfferPrice.Int64, 10)
		}
		values := []string{
			p.PackageCode,
			p.Name,
			p.Destination,
			strconv.FormatInt(p.DurationDays, 10),
			strconv.FormatInt(p.BasePrice, 10),
			offerPrice,
			strconv.FormatBool(p.IsOffer),
			p.OfferLabel.String,
			string(p.Status),
			p.Summary,
			p.Description,
			p.CoverImageURL,
			strings.Join(p.Gallery, ListSeparator),
			strings.Join(p.Includes, ListSeparator),
			strings.Join(p.Excludes, ListSeparator),
			joinItinerary(p.Itinerary),
		}
		for i, v := range values {
			values[i] = quoteCSV(v)
		}
		lines = append(lines, strings.Join(values, ","))
	}

	return strings.Join(lines, "\n")
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func quoteCSV(v string) string {
	return `"` + strings.ReplaceAll(lineBreaks.Replace(v), `"`, `""`) + `"`
}

func joinItinerary(it model.Itinerary) string {
	parts := make([]string, len(it))
	for i, step := range it {
		parts[i] = step.Title + StepSeparator + step.Description
	}
	return strings.Join(parts, ListSeparator)
}

// ParsePackagesCSV parses CSV text into package inputs. Fewer than two
// non-blank lines yields no rows. A header missing any of CSVColumns fails
// with *MissingColumnError before any row is read. Rows without packageCode,
// name or destination are skipped. A leading UTF-8 byte order mark is ignored.
func ParsePackagesCSV(text string) ([]model.PackageInput, error) {
	text = strings.TrimPrefix(text, "\uFEFF")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return []model.PackageInput{}, nil
	}

	headers := splitCSVLine(lines[0])
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	for _, col := range CSVColumns {
		if !present[col] {
			return nil, &MissingColumnError{Column: col}
		}
	}

	rows := make([]model.PackageInput, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitCSVLine(line)
		record := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(values) {
				record[h] = values[i]
			} else {
				record[h] = ""
			}
		}

		if record["packageCode"] == "" || record["name"] == "" || record["destination"] == "" {
			continue
		}

		var offerLabel *string
		if label := record["offerLabel"]; label != "" {
			offerLabel = &label
		}

		rows = append(rows, model.PackageInput{
			PackageCode:   record["packageCode"],
			Name:          record["name"],
			Destination:   record["destination"],
			DurationDays:  positiveOr(record["durationDays"], 1),
			BasePrice:     positiveOr(record["basePrice"], 1),
			OfferPrice:    positivePtr(record["offerPrice"]),
			IsOffer:       record["isOffer"] == "true",
			OfferLabel:    offerLabel,
			Status:        parseStatus(record["status"]),
			Summary:       valueOr(record["summary"], DefaultSummary),
			Description:   valueOr(record["description"], DefaultDescription),
			CoverImageURL: record["coverImageUrl"],
			Gallery:       splitList(record["gallery"]),
			Includes:      splitList(record["includes"]),
			Excludes:      splitList(record["excludes"]),
			Itinerary:     parseItinerary(record["itinerary"]),
		})
	}

	return rows, nil
}

// splitCSVLine splits one CSV line on commas outside quotes. A doubled quote
// inside quotes is a literal quote; any other quote toggles quoting.
func splitCSVLine(line string) []string {
	var values []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			values = append(values, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	return append(values, current.String())
}

// parseNumber parses a permissive number, returning false for empty,
// malformed or non-finite input.
func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// int64 cannot hold values at or above 2^63.
const maxFloorable = float64(math.MaxInt64)

func positiveOr(raw string, fallback int64) int64 {
	f, ok := parseNumber(raw)
	if !ok || f <= 0 || f >= maxFloorable {
		return fallback
	}
	// Fractions below one floor to zero, which is not a usable value.
	if n := int64(math.Floor(f)); n > 0 {
		return n
	}
	return fallback
}

func positivePtr(raw string) *int64 {
	f, ok := parseNumber(raw)
	if !ok || f <= 0 || f >= maxFloorable {
		return nil
	}
	n := int64(math.Floor(f))
	if n <= 0 {
		return nil
	}
	return &n
}

func parseStatus(raw string) model.PackageStatus {
	switch model.PackageStatus(raw) {
	case model.StatusPublished:
		return model.StatusPublished
	case model.StatusArchived:
		return model.StatusArchived
	default:
		return model.StatusDraft
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func splitList(raw string) model.StringList {
	out := model.StringList{}
	for _, item := range strings.Split(raw, ListSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseItinerary(raw string) model.Itinerary {
	items := splitList(raw)
	out := make(model.Itinerary, len(items))
	for i, item := range items {
		title, description, _ := strings.Cut(item, StepSeparator)
		out[i] = model.NewItineraryStep(i+1, title, description)
	}
	return out
}

// ExportFilename returns the download name for a CSV export made on date
// (formatted YYYY-MM-DD).
func ExportFilename(date string) string {
	return fmt.Sprintf("paquetes-disponibles-%s.csv", date)
}

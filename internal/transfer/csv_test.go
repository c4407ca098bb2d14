// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/store"
)

func samplePackage() store.Package {
	return store.Package{
		PackageCode:   "PKG-001",
		Name:          `Roatan "Escape", 5D4N`,
		Destination:   "Roatan",
		DurationDays:  5,
		BasePrice:     6990,
		OfferPrice:    sql.NullInt64{Int64: 5990, Valid: true},
		IsOffer:       true,
		OfferLabel:    sql.NullString{String: "Oferta de temporada", Valid: true},
		Currency:      model.CurrencyGTQ,
		Summary:       "Playa, sol y arena",
		Description:   "Todo incluido, con tours",
		CoverImageURL: "https://example.com/cover.jpg",
		Gallery:       model.StringList{"https://example.com/1.jpg", "https://example.com/2.jpg"},
		Includes:      model.StringList{"Vuelo", "Hotel"},
		Excludes:      model.StringList{"Propinas"},
		Itinerary: model.Itinerary{
			{Day: 1, Title: "Llegada", Description: "Check-in"},
			{Day: 2, Title: "Tour", Description: "Snorkel :: opcional"},
		},
		Status: model.StatusPublished,
	}
}

const fullHeader = "packageCode,name,destination,durationDays,basePrice,offerPrice,isOffer,offerLabel,status,summary,description,coverImageUrl,gallery,includes,excludes,itinerary"

func TestBuildPackagesCSV_Format(t *testing.T) {
	out := BuildPackagesCSV([]store.Package{samplePackage()})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, fullHeader, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"PKG-001","Roatan ""Escape"", 5D4N","Roatan","5","6990","5990","true","Oferta de temporada","PUBLISHED",`))
	assert.Contains(t, lines[1], `"Vuelo||Hotel"`)
	assert.Contains(t, lines[1], `"Llegada::Check-in||Tour::Snorkel :: opcional"`)
}

func TestBuildPackagesCSV_EmptyOffer(t *testing.T) {
	p := samplePackage()
	p.IsOffer = false
	p.OfferPrice = sql.NullInt64{}
	p.OfferLabel = sql.NullString{}

	line := strings.Split(BuildPackagesCSV([]store.Package{p}), "\n")[1]
	assert.Contains(t, line, `"6990","","false","","PUBLISHED"`)
}

func TestBuildPackagesCSV_NoPackages(t *testing.T) {
	assert.Equal(t, fullHeader, BuildPackagesCSV(nil))
}

func TestCSVRoundTrip(t *testing.T) {
	original := samplePackage()
	rows, err := ParsePackagesCSV(BuildPackagesCSV([]store.Package{original}))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.Equal(t, original.PackageCode, got.PackageCode)
	assert.Equal(t, original.Name, got.Name)
	assert.Equal(t, original.Destination, got.Destination)
	assert.Equal(t, original.DurationDays, got.DurationDays)
	assert.Equal(t, original.BasePrice, got.BasePrice)
	require.NotNil(t, got.OfferPrice)
	assert.Equal(t, int64(5990), *got.OfferPrice)
	assert.True(t, got.IsOffer)
	require.NotNil(t, got.OfferLabel)
	assert.Equal(t, "Oferta de temporada", *got.OfferLabel)
	assert.Equal(t, model.StatusPublished, got.Status)
	assert.Equal(t, original.Summary, got.Summary)
	assert.Equal(t, original.Description, got.Description)
	assert.Equal(t, original.CoverImageURL, got.CoverImageURL)
	assert.Equal(t, original.Gallery, got.Gallery)
	assert.Equal(t, original.Includes, got.Includes)
	assert.Equal(t, original.Excludes, got.Excludes)
	assert.Equal(t, original.Itinerary, got.Itinerary)
}

func TestParsePackagesCSV_BOM(t *testing.T) {
	rows, err := ParsePackagesCSV("\uFEFF" + BuildPackagesCSV([]store.Package{samplePackage()}))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PKG-001", rows[0].PackageCode)
}

func TestCSVRoundTrip_MultilineDescription(t *testing.T) {
	p := samplePackage()
	p.Description = "Linea uno\nLinea dos\r\nLinea tres"

	out := BuildPackagesCSV([]store.Package{p})
	assert.Len(t, strings.Split(out, "\n"), 2)

	rows, err := ParsePackagesCSV(out)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Linea uno Linea dos Linea tres", rows[0].Description)
	assert.Equal(t, p.Itinerary, rows[0].Itinerary)
}

func TestParsePackagesCSV_MissingColumn(t *testing.T) {
	for _, col := range CSVColumns {
		t.Run(col, func(t *testing.T) {
			var kept []string
			for _, c := range CSVColumns {
				if c != col {
					kept = append(kept, c)
				}
			}
			text := strings.Join(kept, ",") + "\n" + `"PKG-1","Name","Dest"`

			rows, err := ParsePackagesCSV(text)
			assert.Nil(t, rows)
			var mce *MissingColumnError
			require.True(t, errors.As(err, &mce))
			assert.Equal(t, col, mce.Column)
			assert.Equal(t, "Falta columna requerida: "+col, err.Error())
		})
	}
}

func TestParsePackagesCSV_HeaderOrderIndependent(t *testing.T) {
	reversed := make([]string, len(CSVColumns))
	for i, c := range CSVColumns {
		reversed[len(CSVColumns)-1-i] = c
	}
	// itinerary first, packageCode last
	row := `"A::B","","","","","","","PUBLISHED","","","","","","Destino","Nombre","PKG-9"`
	rows, err := ParsePackagesCSV(strings.Join(reversed, ",") + "\n" + row)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PKG-9", rows[0].PackageCode)
	assert.Equal(t, "Nombre", rows[0].Name)
	assert.Equal(t, model.StatusPublished, rows[0].Status)
	assert.Equal(t, model.Itinerary{{Day: 1, Title: "A", Description: "B"}}, rows[0].Itinerary)
}

func TestParsePackagesCSV_SkipsIncompleteRows(t *testing.T) {
	text := fullHeader + "\r\n" +
		`"","Sin codigo","Destino","3","100","","false","","DRAFT","","","","","","",""` + "\r\n" +
		`"PKG-2","","Destino","3","100","","false","","DRAFT","","","","","","",""` + "\r\n" +
		`"PKG-3","Sin destino","","3","100","","false","","DRAFT","","","","","","",""` + "\r\n" +
		"\r\n" +
		`"PKG-4","Valido","Destino","3","100","","false","","DRAFT","","","","","","",""` + "\r\n"

	rows, err := ParsePackagesCSV(text)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PKG-4", rows[0].PackageCode)
}

func TestParsePackagesCSV_TooShort(t *testing.T) {
	for _, text := range []string{"", "\n\n", fullHeader, "anything"} {
		rows, err := ParsePackagesCSV(text)
		require.NoError(t, err)
		assert.Empty(t, rows)
	}
}

func TestParsePackagesCSV_Defaults(t *testing.T) {
	text := fullHeader + "\n" + `"PKG-5","Nombre","Destino","abc","-3","0","TRUE","Promo","published","","","","a|| ||b","","","::Solo descripcion||Titulo||"`

	rows, err := ParsePackagesCSV(text)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	r := rows[0]

	assert.Equal(t, int64(1), r.DurationDays)
	assert.Equal(t, int64(1), r.BasePrice)
	assert.Nil(t, r.OfferPrice)
	assert.False(t, r.IsOffer)
	assert.Equal(t, model.StatusDraft, r.Status)
	assert.Equal(t, DefaultSummary, r.Summary)
	assert.Equal(t, DefaultDescription, r.Description)
	assert.Equal(t, "", r.CoverImageURL)
	assert.Equal(t, model.StringList{"a", "b"}, r.Gallery)
	assert.Equal(t, model.StringList{}, r.Includes)
	assert.Equal(t, model.Itinerary{
		{Day: 1, Title: "Dia 1", Description: "Solo descripcion"},
		{Day: 2, Title: "Titulo", Description: "Actividad por definir"},
	}, r.Itinerary)
}

func TestParsePackagesCSV_Numbers(t *testing.T) {
	tests := []struct {
		raw      string
		wantDays int64
		wantOff  *int64
	}{
		{"4", 4, ptr(4)},
		{"4.9", 4, ptr(4)},
		{" 7 ", 7, ptr(7)},
		{"1e2", 100, ptr(100)},
		{"0.5", 1, nil},
		{"NaN", 1, nil},
		{"Inf", 1, nil},
		{"", 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.wantDays, positiveOr(tt.raw, 1))
			assert.Equal(t, tt.wantOff, positivePtr(tt.raw))
		})
	}
}

func ptr(v int64) *int64 { return &v }

func TestSplitCSVLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{`a,b,c`, []string{"a", "b", "c"}},
		{`"a,b",c`, []string{"a,b", "c"}},
		{`"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{`"",""`, []string{"", ""}},
		{`a,`, []string{"a", ""}},
		{`ab"c,d"e`, []string{"abc,de"}},
		{`"Guatemála",ñ`, []string{"Guatemála", "ñ"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitCSVLine(tt.line), tt.line)
	}
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "paquetes-disponibles-2026-03-01.csv", ExportFilename("2026-03-01"))
}

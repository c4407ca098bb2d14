// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildWhatsAppURL(t *testing.T) {
	got := BuildWhatsAppURL("+502 3014-9000", "PKG-001", "Roatan & Utila")
	assert.Equal(t,
		"https://wa.me/50230149000?text=Hola%2C%20quiero%20informacion%20del%20paquete%20PKG-001%20-%20Roatan%20%26%20Utila.",
		got)
}

func TestLeadMessage(t *testing.T) {
	lead := Lead{FullName: "  Ana Lopez ", TravelDate: "2026-12-20", People: 3}
	msg := lead.Message("PKG-001", "Roatan", testAgency().PackageURL("roatan"))
	assert.Equal(t, "Hola, quiero informacion del paquete PKG-001 - Roatan.\n"+
		"Nombre: Ana Lopez\n"+
		"Fecha tentativa: 2026-12-20\n"+
		"Personas: 3\n"+
		"Lo vi aqui: https://tu-dominio.com/paquetes/roatan", msg)
}

func TestLeadValid(t *testing.T) {
	tests := []struct {
		name string
		lead Lead
		want bool
	}{
		{"complete", Lead{FullName: "Ana", TravelDate: "2026-12-20", People: 1}, true},
		{"short name", Lead{FullName: " Al ", TravelDate: "2026-12-20", People: 1}, false},
		{"accented name", Lead{FullName: "Íñi", TravelDate: "2026-12-20", People: 1}, true},
		{"no date", Lead{FullName: "Ana", People: 2}, false},
		{"no people", Lead{FullName: "Ana", TravelDate: "2026-12-20"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lead.Valid())
		})
	}
}

func TestLeadFromValues(t *testing.T) {
	lead := LeadFromValues(url.Values{"fullName": {" Ana "}, "travelDate": {"2026-12-20"}})
	assert.Equal(t, "Ana", lead.FullName)
	assert.Equal(t, DefaultLeadPeople, lead.People)

	lead = LeadFromValues(url.Values{"people": {"5"}})
	assert.Equal(t, 5, lead.People)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "Q5,990", FormatPrice(5990, "GTQ"))
	assert.Equal(t, "Q1,250,000", FormatPrice(1250000, ""))
	assert.Equal(t, "Q990", FormatPrice(990, "GTQ"))
	assert.Equal(t, "USD 1,200", FormatPrice(1200, "USD"))
}

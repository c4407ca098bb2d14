// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/viajexmundo/agencia/internal/validation"
)

const whatsAppBaseURL = "https://wa.me/"

// Agency holds the public contact details of the agency.
type Agency struct {
	Name           string
	LogoURL        string
	WhatsAppNumber string
	SiteURL        string
}

// PackageURL returns the absolute public URL of a package.
func (a Agency) PackageURL(slug string) string {
	return strings.TrimRight(a.SiteURL, "/") + "/paquetes/" + slug
}

// DigitsOnly strips everything but ASCII digits from a phone number.
func DigitsOnly(phone string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

// PackageInquiry is the opening line of every WhatsApp message about a package.
func PackageInquiry(code, name string) string {
	return fmt.Sprintf("Hola, quiero informacion del paquete %s - %s.", code, name)
}

// WhatsAppURL builds a wa.me link to phone with a prefilled message.
func WhatsAppURL(phone, text string) string {
	return whatsAppBaseURL + DigitsOnly(phone) + "?text=" + encodeURIComponent(text)
}

// BuildWhatsAppURL links to phone with the standard inquiry about a package.
func BuildWhatsAppURL(phone, code, name string) string {
	return WhatsAppURL(phone, PackageInquiry(code, name))
}

// encodeURIComponent escapes spaces as %20 rather than "+".
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Lead is a visitor's request to be contacted about a package.
type Lead struct {
	FullName   string `form:"fullName" validate:"min=3"`
	TravelDate string `form:"travelDate" validate:"required"`
	People     int    `form:"people" validate:"min=1"`
}

// DefaultLeadPeople is used when the people count is missing.
const DefaultLeadPeople = 2

// LeadFromValues reads a Lead from posted form values.
func LeadFromValues(v url.Values) Lead {
	people, err := strconv.Atoi(strings.TrimSpace(v.Get("people")))
	if err != nil {
		people = DefaultLeadPeople
	}
	return Lead{
		FullName:   strings.TrimSpace(v.Get("fullName")),
		TravelDate: strings.TrimSpace(v.Get("travelDate")),
		People:     people,
	}
}

// Issues validates the lead: a name of at least three characters, a
// tentative date and at least one person.
func (l Lead) Issues() []validation.Issue {
	l.FullName = strings.TrimSpace(l.FullName)
	l.TravelDate = strings.TrimSpace(l.TravelDate)
	return validation.Struct(l, "")
}

// Valid reports whether the lead has no issues.
func (l Lead) Valid() bool {
	return len(l.Issues()) == 0
}

// Message renders the WhatsApp message for a lead about a package.
func (l Lead) Message(code, name, packageURL string) string {
	return strings.Join([]string{
		PackageInquiry(code, name),
		"Nombre: " + strings.TrimSpace(l.FullName),
		"Fecha tentativa: " + l.TravelDate,
		"Personas: " + strconv.Itoa(l.People),
		"Lo vi aqui: " + packageURL,
	}, "\n")
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/store"
	"github.com/viajexmundo/agencia/internal/validation"
)

// Quote defaults.
const (
	DefaultQuoteTravelers  = 2
	DefaultQuoteValidDays  = 6
	DefaultQuoteNote       = "Tarifa sujeta a cambios y disponibilidad al momento de confirmar reserva."
	defaultQuoteClient     = "Consumidor final"
	defaultQuoteAdvisor    = "Equipo comercial"
	defaultQuotePhone      = "Telefono por confirmar"
	defaultQuoteFlightPath = "Por definir"
	undefinedDate          = "No definida"
)

// QuoteForm is the quote builder input. Empty includes and excludes fall
// back to the package lists; an empty package price falls back to the
// package's effective price.
type QuoteForm struct {
	PackageID       string `form:"packageId" validate:"required"`
	ClientName      string `form:"clientName"`
	AdvisorName     string `form:"advisorName"`
	AdvisorPhone    string `form:"advisorPhone"`
	Travelers       int64  `form:"travelers" validate:"min=1"`
	ValidUntil      string `form:"validUntil" validate:"omitempty,datetime=2006-01-02"`
	TravelDateStart string `form:"travelDateStart" validate:"omitempty,datetime=2006-01-02"`
	TravelDateEnd   string `form:"travelDateEnd" validate:"omitempty,datetime=2006-01-02"`
	Includes        string `form:"includes"`
	Excludes        string `form:"excludes"`
	Notes           string `form:"notes"`
	PackagePrice    string `form:"packagePrice" validate:"omitempty,number"`
	FlightIncluded  bool   `form:"flightIncluded"`
	FlightRoute     string `form:"flightRoute"`
	FlightItinerary string `form:"flightItinerary"`
	FlightPrice     string `form:"flightPrice"`
}

// QuoteFormFromValues reads a QuoteForm from posted form values.
func QuoteFormFromValues(v url.Values) QuoteForm {
	travelers, err := strconv.ParseInt(strings.TrimSpace(v.Get("travelers")), 10, 64)
	if err != nil {
		travelers = DefaultQuoteTravelers
	}
	notes := v.Get("notes")
	if _, ok := v["notes"]; !ok {
		notes = DefaultQuoteNote
	}
	return QuoteForm{
		PackageID:       strings.TrimSpace(v.Get("packageId")),
		ClientName:      strings.TrimSpace(v.Get("clientName")),
		AdvisorName:     strings.TrimSpace(v.Get("advisorName")),
		AdvisorPhone:    strings.TrimSpace(v.Get("advisorPhone")),
		Travelers:       travelers,
		ValidUntil:      strings.TrimSpace(v.Get("validUntil")),
		TravelDateStart: strings.TrimSpace(v.Get("travelDateStart")),
		TravelDateEnd:   strings.TrimSpace(v.Get("travelDateEnd")),
		Includes:        v.Get("includes"),
		Excludes:        v.Get("excludes"),
		Notes:           notes,
		PackagePrice:    strings.TrimSpace(v.Get("packagePrice")),
		FlightIncluded:  v.Get("flightIncluded") == "on" || v.Get("flightIncluded") == "true",
		FlightRoute:     strings.TrimSpace(v.Get("flightRoute")),
		FlightItinerary: v.Get("flightItinerary"),
		FlightPrice:     v.Get("flightPrice"),
	}
}

// QuoteFlight is the optional flight section of a quote.
type QuoteFlight struct {
	Route    string   `json:"route"`
	Segments []string `json:"segments"`
	Price    int64    `json:"price"`
}

// Quote is a computed price quote for one published package.
type Quote struct {
	Package         store.Package `json:"package"`
	ClientName      string        `json:"clientName"`
	AdvisorName     string        `json:"advisorName"`
	AdvisorPhone    string        `json:"advisorPhone"`
	Travelers       int64         `json:"travelers"`
	IssuedAt        time.Time     `json:"issuedAt"`
	IssueDate       string        `json:"issueDate"`
	ValidUntil      string        `json:"validUntil"`
	TravelDateStart string        `json:"travelDateStart"`
	TravelDateEnd   string        `json:"travelDateEnd"`
	Includes        []string      `json:"includes"`
	Excludes        []string      `json:"excludes"`
	Notes           []string      `json:"notes"`
	Flight          *QuoteFlight  `json:"flight,omitempty"`
	PackagePrice    int64         `json:"packagePrice"`
	FlightPrice     int64         `json:"flightPrice"`
	Total           int64         `json:"total"`
	Currency        string        `json:"currency"`
	FormattedTotal  string        `json:"formattedTotal"`
	advisorDigits   string
}

// QuoteService builds price quotes for published packages.
type QuoteService struct {
	queries *store.Queries
	access  *auth.Resolver
	agency  Agency
	now     func() time.Time
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(db *sql.DB, access *auth.Resolver, agency Agency) *QuoteService {
	return &QuoteService{
		queries: store.New(db),
		access:  access,
		agency:  agency,
		now:     time.Now,
	}
}

// Packages returns the published packages a quote can be built for.
func (s *QuoteService) Packages(ctx context.Context, id auth.Identity) ([]store.Package, error) {
	if _, err := s.requireQuoter(ctx, id); err != nil {
		return nil, err
	}
	packages, err := s.queries.ListPackagesByStatus(ctx, model.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("listing published packages: %w", err)
	}
	return packages, nil
}

// Build computes a quote. Only ADMIN and COTIZADOR users may build quotes.
func (s *QuoteService) Build(ctx context.Context, id auth.Identity, form QuoteForm) (Quote, error) {
	if _, err := s.requireQuoter(ctx, id); err != nil {
		return Quote{}, err
	}
	if issues := validation.Struct(form, ""); len(issues) > 0 {
		return Quote{}, invalid(msgInvalidQuote, issues)
	}

	pkg, err := s.queries.GetPackageByID(ctx, form.PackageID)
	if err != nil {
		return Quote{}, notFound(err, "loading package")
	}
	if pkg.Status != model.StatusPublished {
		return Quote{}, ErrNotFound
	}

	return BuildQuote(pkg, form, s.now()), nil
}

func (s *QuoteService) requireQuoter(ctx context.Context, id auth.Identity) (store.User, error) {
	user, err := s.access.ResolveCurrentUser(ctx, id)
	if err != nil {
		return store.User{}, err
	}
	if !auth.CanUseQuotes(user) {
		return store.User{}, &auth.ForbiddenError{UserID: user.ID}
	}
	return user, nil
}

// BuildQuote computes a quote for pkg at now. The total is the package
// price plus the flight price when a flight is included.
func BuildQuote(pkg store.Package, form QuoteForm, now time.Time) Quote {
	packagePrice := pkg.EffectivePrice()
	if n, err := strconv.ParseInt(form.PackagePrice, 10, 64); err == nil && n >= 0 {
		packagePrice = n
	}

	includes := []string(lines(form.Includes))
	if strings.TrimSpace(form.Includes) == "" {
		includes = pkg.Includes
	}
	excludes := []string(lines(form.Excludes))
	if strings.TrimSpace(form.Excludes) == "" {
		excludes = pkg.Excludes
	}

	validUntil := form.ValidUntil
	if validUntil == "" {
		validUntil = now.AddDate(0, 0, DefaultQuoteValidDays).Format(time.DateOnly)
	}

	q := Quote{
		Package:         pkg,
		ClientName:      valueOr(form.ClientName, defaultQuoteClient),
		AdvisorName:     valueOr(form.AdvisorName, defaultQuoteAdvisor),
		AdvisorPhone:    valueOr(form.AdvisorPhone, defaultQuotePhone),
		Travelers:       form.Travelers,
		IssuedAt:        now,
		IssueDate:       FormatDate(now),
		ValidUntil:      FormatDateInput(validUntil),
		TravelDateStart: FormatDateInput(form.TravelDateStart),
		TravelDateEnd:   FormatDateInput(form.TravelDateEnd),
		Includes:        includes,
		Excludes:        excludes,
		Notes:           lines(form.Notes),
		PackagePrice:    packagePrice,
		Currency:        model.CurrencyGTQ,
		advisorDigits:   DigitsOnly(form.AdvisorPhone),
	}

	if form.FlightIncluded {
		flightPrice, _ := strconv.ParseInt(DigitsOnly(form.FlightPrice), 10, 64)
		q.Flight = &QuoteFlight{
			Route:    valueOr(form.FlightRoute, defaultQuoteFlightPath),
			Segments: lines(form.FlightItinerary),
			Price:    flightPrice,
		}
		q.FlightPrice = flightPrice
	}

	q.Total = q.PackagePrice + q.FlightPrice
	q.FormattedTotal = FormatPrice(q.Total, q.Currency)
	return q
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDate renders t as a long Spanish date, e.g. "18 de octubre de 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// FormatDateInput renders a YYYY-MM-DD value as a long Spanish date, or
// "No definida" when empty or malformed.
func FormatDateInput(value string) string {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return undefinedDate
	}
	return FormatDate(t)
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

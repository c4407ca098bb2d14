// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"

	"github.com/mileusna/useragent"

	"github.com/viajexmundo/agencia/internal/model"
)

// CountryLocator resolves a client IP to an ISO country code.
type CountryLocator interface {
	Country(ip string) string
}

// LeadRequest is a WhatsApp lead as submitted from a package page.
type LeadRequest struct {
	Slug      string
	Lead      Lead
	IPAddress string
	UserAgent string
}

// LeadService turns package page leads into prefilled WhatsApp chats with
// the agency.
type LeadService struct {
	packages *PackageService
	events   *EventService
	geo      CountryLocator
	agency   Agency
	logger   *slog.Logger
}

// NewLeadService creates a LeadService. geo and events may be nil.
func NewLeadService(packages *PackageService, events *EventService, geo CountryLocator, agency Agency, logger *slog.Logger) *LeadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadService{
		packages: packages,
		events:   events,
		geo:      geo,
		agency:   agency,
		logger:   logger,
	}
}

// Contact validates the lead for the published package at req.Slug and
// returns the wa.me URL carrying the lead message. Each lead is recorded
// as an audit event with the visitor's device class and country.
func (s *LeadService) Contact(ctx context.Context, req LeadRequest) (string, error) {
	pkg, err := s.packages.GetPublishedBySlug(ctx, req.Slug)
	if err != nil {
		return "", err
	}
	if issues := req.Lead.Issues(); len(issues) > 0 {
		return "", invalid(msgInvalidLead, issues)
	}

	message := req.Lead.Message(pkg.PackageCode, pkg.Name, s.agency.PackageURL(pkg.Slug))
	target := WhatsAppURL(s.agency.WhatsAppNumber, message)

	country := ""
	if s.geo != nil {
		country = s.geo.Country(req.IPAddress)
	}
	metadata := map[string]any{
		"package_code": pkg.PackageCode,
		"people":       req.Lead.People,
		"travel_date":  req.Lead.TravelDate,
		"device":       DeviceClass(req.UserAgent),
		"country":      country,
	}
	s.logger.Info("whatsapp lead", "package_code", pkg.PackageCode, "device", metadata["device"], "country", country)
	if s.events != nil {
		_ = s.events.Log(ctx, Event{
			Level:     model.EventLevelInfo,
			Category:  model.EventCategoryPackage,
			Message:   "WhatsApp lead",
			IPAddress: req.IPAddress,
			Metadata:  metadata,
		})
	}
	return target, nil
}

// DeviceClass classifies a User-Agent as mobile, tablet, bot or desktop.
func DeviceClass(userAgent string) string {
	ua := useragent.Parse(userAgent)
	switch {
	case ua.Mobile:
		return "mobile"
	case ua.Tablet:
		return "tablet"
	case ua.Bot:
		return "bot"
	default:
		return "desktop"
	}
}

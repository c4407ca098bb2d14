// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"time"

	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/service"
	"github.com/viajexmundo/agencia/internal/store"
)

// PackageView is the JSON shape of a package, with its offer fields, the
// display price and the WhatsApp inquiry link.
type PackageView struct {
	ID              string              `json:"id"`
	PackageCode     string              `json:"packageCode"`
	Slug            string              `json:"slug"`
	Name            string              `json:"name"`
	Destination     string              `json:"destination"`
	DurationDays    int64               `json:"durationDays"`
	BasePrice       int64               `json:"basePrice"`
	OfferPrice      *int64              `json:"offerPrice"`
	IsOffer         bool                `json:"isOffer"`
	OfferLabel      *string             `json:"offerLabel"`
	Currency        string              `json:"currency"`
	Price           string              `json:"price"`
	Summary         string              `json:"summary"`
	Description     string              `json:"description"`
	DescriptionHTML string              `json:"descriptionHtml,omitempty"`
	CoverImageURL   string              `json:"coverImageUrl"`
	Gallery         model.StringList    `json:"gallery"`
	Includes        model.StringList    `json:"includes"`
	Excludes        model.StringList    `json:"excludes"`
	Itinerary       model.Itinerary     `json:"itinerary"`
	Status          model.PackageStatus `json:"status"`
	WhatsAppURL     string              `json:"whatsappUrl"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func packageView(p store.Package, agency service.Agency) PackageView {
	v := PackageView{
		ID:            p.ID,
		PackageCode:   p.PackageCode,
		Slug:          p.Slug,
		Name:          p.Name,
		Destination:   p.Destination,
		DurationDays:  p.DurationDays,
		BasePrice:     p.BasePrice,
		IsOffer:       p.IsOffer,
		Currency:      p.Currency,
		Price:         service.FormatPrice(p.EffectivePrice(), p.Currency),
		Summary:       p.Summary,
		Description:   p.Description,
		CoverImageURL: p.CoverImageURL,
		Gallery:       p.Gallery,
		Includes:      p.Includes,
		Excludes:      p.Excludes,
		Itinerary:     p.Itinerary,
		Status:        p.Status,
		WhatsAppURL:   service.BuildWhatsAppURL(agency.WhatsAppNumber, p.PackageCode, p.Name),
		UpdatedAt:     p.UpdatedAt,
	}
	if p.OfferPrice.Valid {
		price := p.OfferPrice.Int64
		v.OfferPrice = &price
	}
	if p.OfferLabel.Valid {
		label := p.OfferLabel.String
		v.OfferLabel = &label
	}
	return v
}

func packageViews(packages []store.Package, agency service.Agency) []PackageView {
	views := make([]PackageView, len(packages))
	for i, p := range packages {
		views[i] = packageView(p, agency)
	}
	return views
}

// AgencyView is the public contact block of the agency.
type AgencyView struct {
	Name        string `json:"name"`
	LogoURL     string `json:"logoUrl"`
	WhatsAppURL string `json:"whatsappUrl"`
}

func agencyView(a service.Agency) AgencyView {
	return AgencyView{
		Name:        a.Name,
		LogoURL:     a.LogoURL,
		WhatsAppURL: service.WhatsAppURL(a.WhatsAppNumber, "Hola, quiero informacion de sus paquetes."),
	}
}

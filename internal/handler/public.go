// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/viajexmundo/agencia/internal/middleware"
	"github.com/viajexmundo/agencia/internal/service"
)

// PublicHandler serves the public catalog. Its GET routes are wrapped by
// the page cache.
type PublicHandler struct {
	packages *service.PackageService
	landing  *service.LandingService
	leads    *service.LeadService
	agency   service.Agency
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(packages *service.PackageService, landing *service.LandingService, leads *service.LeadService, agency service.Agency) *PublicHandler {
	return &PublicHandler{
		packages: packages,
		landing:  landing,
		leads:    leads,
		agency:   agency,
	}
}

// Home handles GET / with the active landing variant and the catalog.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	packages, err := h.packages.ListPublished(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"landingVariant": h.landing.Active(r.Context()),
		"agency":         agencyView(h.agency),
		"packages":       packageViews(packages, h.agency),
	})
}

// Catalog handles GET /paquetes.
func (h *PublicHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	packages, err := h.packages.ListPublished(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"packages": packageViews(packages, h.agency),
	})
}

// Detail handles GET /paquetes/{slug}. Only published packages are found.
func (h *PublicHandler) Detail(w http.ResponseWriter, r *http.Request) {
	pkg, err := h.packages.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	view := packageView(pkg, h.agency)
	view.DescriptionHTML = service.RenderDescription(pkg.Description)
	writeJSON(w, http.StatusOK, view)
}

// Lead handles POST /paquetes/{slug}/whatsapp and redirects the visitor
// to a WhatsApp chat prefilled with the lead.
func (h *PublicHandler) Lead(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	target, err := h.leads.Contact(r.Context(), service.LeadRequest{
		Slug:      chi.URLParam(r, "slug"),
		Lead:      service.LeadFromValues(r.PostForm),
		IPAddress: middleware.GetClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	redirect(w, r, target)
}

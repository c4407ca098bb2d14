// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/viajexmundo/agencia/internal/middleware"
	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/service"
)

// LandingHandler selects the marketing home page variant.
type LandingHandler struct {
	landing *service.LandingService
}

// NewLandingHandler creates a new LandingHandler.
func NewLandingHandler(landing *service.LandingService) *LandingHandler {
	return &LandingHandler{landing: landing}
}

// Show handles GET /admin/landing.
func (h *LandingHandler) Show(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"variant":  h.landing.Active(r.Context()),
		"variants": []model.LandingVariant{model.LandingDefault, model.LandingCooitza},
	})
}

// Update handles POST /admin/landing.
func (h *LandingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	if _, err := h.landing.SetVariant(r.Context(), middleware.GetIdentity(r), r.PostFormValue("variant")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	redirect(w, r, RouteLanding)
}

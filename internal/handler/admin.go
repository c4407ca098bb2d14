// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/cache"
	"github.com/viajexmundo/agencia/internal/middleware"
	"github.com/viajexmundo/agencia/internal/service"
)

// AdminHandler handles the package back-office.
type AdminHandler struct {
	packages *service.PackageService
	access   *auth.Resolver
	pages    *cache.PageCache
	agency   service.Agency
}

// NewAdminHandler creates a new AdminHandler. pages may be nil.
func NewAdminHandler(packages *service.PackageService, access *auth.Resolver, pages *cache.PageCache, agency service.Agency) *AdminHandler {
	return &AdminHandler{
		packages: packages,
		access:   access,
		pages:    pages,
		agency:   agency,
	}
}

// Dashboard handles GET /admin: every package, offers first, with counts
// per status.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.packages.Dashboard(r.Context(), middleware.GetIdentity(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"packages": packageViews(dash.Packages, h.agency),
		"counts":   dash.Counts,
	})
}

// Package handles GET /admin/paquetes/{id}.
func (h *AdminHandler) Package(w http.ResponseWriter, r *http.Request) {
	pkg, err := h.packages.Get(r.Context(), middleware.GetIdentity(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, packageView(pkg, h.agency))
}

// Create handles POST /admin/paquetes.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	form := service.PackageFormFromValues(r.PostForm)
	if _, err := h.packages.Create(r.Context(), middleware.GetIdentity(r), form); err != nil {
		writeServiceError(w, r, err)
		return
	}
	redirect(w, r, RouteAdmin)
}

// Update handles POST /admin/paquetes/{id}.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	form := service.PackageFormFromValues(r.PostForm)
	if _, err := h.packages.Update(r.Context(), middleware.GetIdentity(r), chi.URLParam(r, "id"), form); err != nil {
		writeServiceError(w, r, err)
		return
	}
	redirect(w, r, RouteAdmin)
}

// ToggleStatus handles POST /admin/paquetes/{id}/status.
func (h *AdminHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	if _, err := h.packages.ToggleStatus(r.Context(), middleware.GetIdentity(r), chi.URLParam(r, "id"), r.PostFormValue("status")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	redirect(w, r, RouteAdmin)
}

// Delete handles POST /admin/paquetes/{id}/delete.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.packages.Delete(r.Context(), middleware.GetIdentity(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	redirect(w, r, RouteAdmin)
}

// ClearCache handles POST /admin/cache/clear. Only user managers may purge
// every cached public page; the response carries the counters from before
// the purge.
func (h *AdminHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	user, err := h.access.Require(r.Context(), middleware.GetIdentity(r), auth.CapManageUsers)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	data := map[string]any{"clearedBy": user.Email}
	if h.pages != nil {
		data["stats"] = h.pages.Stats(r.Context())
		h.pages.InvalidateAll(r.Context())
	}
	writeJSONSuccess(w, data)
}

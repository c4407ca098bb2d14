// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/viajexmundo/agencia/internal/middleware"
	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/service"
)

// UsersHandler handles staff account management.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /admin/usuarios.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), middleware.GetIdentity(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"roles": model.ValidRoles,
	})
}

// Create handles POST /admin/usuarios. An existing email is updated in place.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	if _, err := h.users.Create(r.Context(), middleware.GetIdentity(r), service.UserFormFromValues(r.PostForm)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	redirect(w, r, RouteUsers)
}

// UpdateAccess handles POST /admin/usuarios/access.
func (h *UsersHandler) UpdateAccess(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	if _, err := h.users.UpdateAccess(r.Context(), middleware.GetIdentity(r), service.AccessFormFromValues(r.PostForm)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	redirect(w, r, RouteUsers)
}

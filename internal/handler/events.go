// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/middleware"
	"github.com/viajexmundo/agencia/internal/service"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 500
)

// EventsHandler shows the audit log.
type EventsHandler struct {
	events *service.EventService
	access *auth.Resolver
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(events *service.EventService, access *auth.Resolver) *EventsHandler {
	return &EventsHandler{events: events, access: access}
}

// List handles GET /admin/eventos?limit=N. Only user managers may read it.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, err := h.access.Require(r.Context(), middleware.GetIdentity(r), auth.CapManageUsers); err != nil {
		writeServiceError(w, r, err)
		return
	}

	limit := int64(defaultEventLimit)
	if n, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && n > 0 {
		limit = min(n, maxEventLimit)
	}

	events, err := h.events.Recent(r.Context(), limit)
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

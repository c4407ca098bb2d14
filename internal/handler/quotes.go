// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/viajexmundo/agencia/internal/middleware"
	"github.com/viajexmundo/agencia/internal/service"
)

// QuotesHandler serves the quote builder.
type QuotesHandler struct {
	quotes *service.QuoteService
	agency service.Agency
}

// NewQuotesHandler creates a new QuotesHandler.
func NewQuotesHandler(quotes *service.QuoteService, agency service.Agency) *QuotesHandler {
	return &QuotesHandler{quotes: quotes, agency: agency}
}

// Packages handles GET /admin/cotizador with the quotable packages.
func (h *QuotesHandler) Packages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.quotes.Packages(r.Context(), middleware.GetIdentity(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"packages": packageViews(packages, h.agency),
		"defaults": map[string]any{
			"travelers": service.DefaultQuoteTravelers,
			"notes":     service.DefaultQuoteNote,
		},
	})
}

// Build handles POST /admin/cotizador. With format=pdf the quote is
// downloaded as a PDF, otherwise its totals are returned as JSON.
func (h *QuotesHandler) Build(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	quote, err := h.quotes.Build(r.Context(), middleware.GetIdentity(r), service.QuoteFormFromValues(r.PostForm))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if r.PostFormValue("format") != "pdf" {
		writeJSON(w, http.StatusOK, quote)
		return
	}

	pdf, err := service.RenderQuotePDF(quote, h.agency)
	if err != nil {
		logAndInternalError(w, "failed to render quote PDF", "package_code", quote.Package.PackageCode, "error", err)
		return
	}
	attachment(w, "application/pdf", service.QuoteFilename(quote))
	_, _ = w.Write(pdf)
}

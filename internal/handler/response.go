// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/middleware"
	"github.com/viajexmundo/agencia/internal/service"
	"github.com/viajexmundo/agencia/internal/transfer"
)

// Messages shown for errors that carry no text of their own.
const (
	msgNotFound     = "No encontrado"
	msgInvalidForm  = "Formulario invalido"
	msgInternal     = "Error interno del servidor"
	msgInvalidLogin = "Credenciales invalidas"
)

// writeServiceError maps an error returned by a service to a response:
// unauthenticated callers are sent to the login page, missing capabilities
// get 403, validation failures 400 and missing records 404. Anything else
// is logged and reported as 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalid    *service.ValidationError
		badJSON    *transfer.ValidationError
		missingCol *transfer.MissingColumnError
	)

	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
	case errors.Is(err, auth.ErrForbidden):
		writeJSONError(w, http.StatusForbidden, auth.ForbiddenMessage)
	case errors.As(err, &invalid):
		writeJSONIssues(w, invalid.Message, invalid.Issues)
	case errors.As(err, &badJSON):
		writeJSONIssues(w, badJSON.Error(), badJSON.Issues)
	case errors.As(err, &missingCol):
		writeJSONError(w, http.StatusBadRequest, missingCol.Error())
	case errors.Is(err, service.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, service.ErrSettingsUnavailable):
		slog.Error("settings table missing", "url", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	default:
		logAndInternalError(w, "request failed", "method", r.Method, "url", r.URL.Path, "error", err)
	}
}

// logAndInternalError logs an error and writes a 500 JSON response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	writeJSONError(w, http.StatusInternalServerError, msgInternal)
}

// parseForm parses the request form and writes a 400 response on failure.
// Returns true if parsing succeeded.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, msgInvalidForm)
		return false
	}
	return true
}

// redirect answers a successful form post.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// attachment sets the headers of a file download.
func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

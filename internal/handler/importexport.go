// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/viajexmundo/agencia/internal/middleware"
	"github.com/viajexmundo/agencia/internal/service"
	"github.com/viajexmundo/agencia/internal/transfer"
)

// MaxImportSize limits uploaded CSV files and pasted JSON payloads.
const MaxImportSize = 10 << 20

// ImportExportHandler handles the CSV export and the CSV and JSON imports.
type ImportExportHandler struct {
	packages *service.PackageService
}

// NewImportExportHandler creates a new ImportExportHandler.
func NewImportExportHandler(packages *service.PackageService) *ImportExportHandler {
	return &ImportExportHandler{packages: packages}
}

// Overview handles GET /admin/csv: the CSV columns and the result of the
// last import, passed back in the query string.
func (h *ImportExportHandler) Overview(w http.ResponseWriter, r *http.Request) {
	if middleware.GetIdentity(r).IsZero() {
		redirect(w, r, RouteLogin)
		return
	}
	data := map[string]any{"columns": transfer.CSVColumns}
	q := r.URL.Query()
	for _, key := range []string{"imported", "jsonImported"} {
		if n, err := strconv.Atoi(q.Get(key)); err == nil {
			data[key] = n
		}
	}
	writeJSONSuccess(w, data)
}

// Export handles GET /admin/csv/export with the published catalog.
func (h *ImportExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename, body, err := h.packages.ExportCSV(r.Context(), middleware.GetIdentity(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	attachment(w, "text/csv; charset=utf-8", filename)
	_, _ = io.WriteString(w, body)
}

// ImportCSV handles POST /admin/csv with a multipart csvFile upload.
func (h *ImportExportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImportSize)
	if err := r.ParseMultipartForm(MaxImportSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeJSONError(w, http.StatusBadRequest, msgInvalidForm)
		return
	}

	var upload io.Reader
	if file, _, err := r.FormFile("csvFile"); err == nil {
		defer func() { _ = file.Close() }()
		upload = file
	}

	result, err := h.packages.ImportCSV(r.Context(), middleware.GetIdentity(r), upload)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	redirect(w, r, RouteCSV+"?"+url.Values{"imported": {strconv.Itoa(result.Imported)}}.Encode())
}

// ImportJSON handles POST /admin/json with a pasted jsonPayload field.
func (h *ImportExportHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImportSize)
	if !parseForm(w, r) {
		return
	}

	result, err := h.packages.ImportJSON(r.Context(), middleware.GetIdentity(r), []byte(r.PostFormValue("jsonPayload")))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	redirect(w, r, RouteCSV+"?"+url.Values{"jsonImported": {strconv.Itoa(result.Imported)}}.Encode())
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/viajexmundo/agencia/internal/seo"
	"github.com/viajexmundo/agencia/internal/service"
)

// SEOHandler serves sitemap.xml and robots.txt for the public catalog.
type SEOHandler struct {
	packages    *service.PackageService
	siteURL     string
	disallowAll bool
}

// NewSEOHandler creates a new SEOHandler. Outside production crawlers are
// turned away entirely.
func NewSEOHandler(packages *service.PackageService, siteURL string, isProduction bool) *SEOHandler {
	return &SEOHandler{
		packages:    packages,
		siteURL:     siteURL,
		disallowAll: !isProduction,
	}
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	packages, err := h.packages.ListPublished(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	entries := make([]seo.SitemapPackage, len(packages))
	for i, p := range packages {
		entries[i] = seo.SitemapPackage{Slug: p.Slug, UpdatedAt: p.UpdatedAt}
	}

	data, err := seo.GenerateSitemap(h.siteURL, entries)
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		slog.Debug("failed to write sitemap", "error", err)
	}
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.BuildRobots(seo.RobotsConfig{
		SiteURL:       h.siteURL,
		DisallowAll:   h.disallowAll,
		DisallowPaths: []string{RouteHealth},
	})))
}

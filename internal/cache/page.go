// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

const pageKeyPrefix = "page:"

// Public paths whose content depends on the package catalog.
const (
	HomePath    = "/"
	CatalogPath = "/paquetes"
	SitemapPath = "/sitemap.xml"
)

// Page is a cached public response.
type Page struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// PageCache caches rendered public pages by request path. Failures of the
// underlying cache are logged and treated as misses.
type PageCache struct {
	cache  Cacher
	ttl    time.Duration
	logger *slog.Logger
}

// NewPageCache creates a page cache over c with the given entry TTL.
func NewPageCache(c Cacher, ttl time.Duration, logger *slog.Logger) *PageCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageCache{
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached page for path.
func (p *PageCache) Get(ctx context.Context, path string) (*Page, bool) {
	data, err := p.cache.Get(ctx, pageKeyPrefix+path)
	if err != nil {
		return nil, false
	}
	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		p.logger.Warn("dropping undecodable cached page", "path", path, "error", err)
		return nil, false
	}
	return &page, true
}

// Put stores page under path.
func (p *PageCache) Put(ctx context.Context, path string, page *Page) {
	data, err := json.Marshal(page)
	if err == nil {
		err = p.cache.Set(ctx, pageKeyPrefix+path, data, p.ttl)
	}
	if err != nil {
		p.logger.Warn("page cache write failed", "path", path, "error", err)
	}
}

// Invalidate drops the cached pages at paths.
func (p *PageCache) Invalidate(ctx context.Context, paths ...string) {
	for _, path := range paths {
		if err := p.cache.Delete(ctx, pageKeyPrefix+path); err != nil {
			p.logger.Warn("page cache invalidation failed", "path", path, "error", err)
		}
	}
}

// InvalidateCatalog drops the home page, the catalog listing, the sitemap
// and the detail pages of the given slugs.
func (p *PageCache) InvalidateCatalog(ctx context.Context, slugs ...string) {
	paths := []string{HomePath, CatalogPath, SitemapPath}
	for _, slug := range slugs {
		if slug != "" {
			paths = append(paths, PackagePath(slug))
		}
	}
	p.Invalidate(ctx, paths...)
}

// InvalidateAll drops every cached page.
func (p *PageCache) InvalidateAll(ctx context.Context) {
	if err := p.cache.DeleteByPrefix(ctx, pageKeyPrefix); err != nil {
		p.logger.Warn("page cache purge failed", "error", err)
	}
}

// Stats reports the backend counters.
func (p *PageCache) Stats(ctx context.Context) Stats {
	return p.cache.Stats(ctx)
}

// PackagePath returns the public detail path of a package slug.
func PackagePath(slug string) string {
	return CatalogPath + "/" + slug
}

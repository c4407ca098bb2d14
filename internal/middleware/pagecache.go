// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"bytes"
	"net/http"

	"github.com/viajexmundo/agencia/internal/cache"
)

// PageCacheHeader reports whether a public page was served from the cache.
const PageCacheHeader = "X-Page-Cache"

// PageCache serves public GET requests from pages, keyed by URL path, and
// stores successful responses for later requests. Requests with a query
// string bypass the cache. A nil pages disables caching.
func PageCache(pages *cache.PageCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if pages == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.RawQuery != "" {
				next.ServeHTTP(w, r)
				return
			}

			path := r.URL.Path
			if page, ok := pages.Get(r.Context(), path); ok {
				w.Header().Set("Content-Type", page.ContentType)
				w.Header().Set(PageCacheHeader, "HIT")
				w.WriteHeader(page.Status)
				_, _ = w.Write(page.Body)
				return
			}

			rec := &pageRecorder{ResponseWriter: w, status: http.StatusOK}
			w.Header().Set(PageCacheHeader, "MISS")
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				pages.Put(r.Context(), path, &cache.Page{
					Status:      rec.status,
					ContentType: w.Header().Get("Content-Type"),
					Body:        rec.body.Bytes(),
				})
			}
		})
	}
}

// pageRecorder copies the response body while writing it through.
type pageRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *pageRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *pageRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

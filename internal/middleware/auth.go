// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for identity, login
// protection, CSRF, security headers and the public page cache.
package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyIdentity holds the caller's auth.Identity.
const ContextKeyIdentity ContextKey = "identity"

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin/login"

// LoadIdentity creates middleware that copies the session identity into the
// request context. Anonymous requests get the zero Identity.
func LoadIdentity(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := session.Identity(r.Context(), sm)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireSession redirects requests without a signed-in identity to the
// login page. It must run after LoadIdentity. Whether the user still exists
// and is active is checked by the services on every call.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r).IsZero() {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, id)
}

// GetIdentity retrieves the caller's identity from the request context.
func GetIdentity(r *http.Request) auth.Identity {
	id, _ := r.Context().Value(ContextKeyIdentity).(auth.Identity)
	return id
}

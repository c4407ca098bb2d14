// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the scs session manager and maps the signed-in
// staff member to and from session data.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/store"
)

// Session keys.
const (
	KeyUserID     = "user_id"
	KeyUserEmail  = "user_email"
	KeyUserActive = "user_active"
)

// CookieName is the session cookie name.
const CookieName = "agencia_session"

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.IdleTimeout = 8 * time.Hour
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}

// Identity reads the caller's identity from the session. The result is the
// zero Identity when nobody is signed in.
func Identity(ctx context.Context, sm *scs.SessionManager) auth.Identity {
	return auth.Identity{
		UserID:   sm.GetString(ctx, KeyUserID),
		Email:    sm.GetString(ctx, KeyUserEmail),
		IsActive: sm.GetBool(ctx, KeyUserActive),
	}
}

// SignIn renews the session token and stores user in it.
func SignIn(ctx context.Context, sm *scs.SessionManager, user store.User) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, KeyUserID, user.ID)
	sm.Put(ctx, KeyUserEmail, user.Email)
	sm.Put(ctx, KeyUserActive, user.IsActive)
	return nil
}

// SignOut destroys the session.
func SignOut(ctx context.Context, sm *scs.SessionManager) error {
	return sm.Destroy(ctx)
}

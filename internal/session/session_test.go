// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/store"
	"github.com/viajexmundo/agencia/internal/testutil"
)

func TestNew(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	dev := New(db, true)
	assert.False(t, dev.Cookie.Secure, "dev cookies are not secure")
	assert.True(t, dev.Cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, dev.Cookie.SameSite)
	assert.Equal(t, CookieName, dev.Cookie.Name)

	prod := New(db, false)
	assert.True(t, prod.Cookie.Secure)
}

func TestSignInIdentitySignOut(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	sm := New(db, true)

	user := store.User{ID: "user-1", Email: "ana@agencia.com", Role: model.RoleEditor, IsActive: true}
	var seen []auth.Identity

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		switch r.URL.Path {
		case "/in":
			require.NoError(t, SignIn(ctx, sm, user))
		case "/out":
			require.NoError(t, SignOut(ctx, sm))
		}
		seen = append(seen, Identity(ctx, sm))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/in", nil))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/out", nil)
	req.AddCookie(cookies[0])
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, seen, 3)
	assert.Equal(t, auth.Identity{UserID: "user-1", Email: "ana@agencia.com", IsActive: true}, seen[1])
	assert.True(t, seen[2].IsZero(), "identity is cleared after sign out")
}

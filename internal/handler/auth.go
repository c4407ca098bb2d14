// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/middleware"
	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/service"
	"github.com/viajexmundo/agencia/internal/session"
	"github.com/viajexmundo/agencia/internal/store"
)

// AuthHandler handles staff sign-in and sign-out.
type AuthHandler struct {
	queries         *store.Queries
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	eventService    *service.EventService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, sm *scs.SessionManager, lp *middleware.LoginProtection, events *service.EventService) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		sessionManager:  sm,
		loginProtection: lp,
		eventService:    events,
	}
}

// LoginForm handles GET /admin/login. Signed-in users go to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if !middleware.GetIdentity(r).IsZero() {
		redirect(w, r, RouteAdmin)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": false,
		"fields":        []string{"email", "password"},
	})
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	ctx := r.Context()
	email := model.NormalizeEmail(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	ip := middleware.GetClientIP(r)

	user, err := h.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logAndInternalError(w, "failed to load user for login", "error", err)
			return
		}
		slog.Warn("failed login attempt", "category", model.EventCategoryAuth, "reason", "unknown email", "email", email, "ip", ip)
		writeJSONError(w, http.StatusUnauthorized, msgInvalidLogin)
		return
	}

	if locked, remaining := h.loginProtection.IsLocked(user); locked {
		slog.Warn("login attempt on locked account", "category", model.EventCategoryAuth, "user_id", user.ID, "ip", ip)
		writeJSONError(w, http.StatusTooManyRequests, lockedMessage(remaining))
		return
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		if err := h.queries.RecordFailedLogin(ctx, user.ID, h.loginProtection.NextLock(user)); err != nil {
			slog.Error("failed to record failed login", "user_id", user.ID, "error", err)
		}
		slog.Warn("failed login attempt", "category", model.EventCategoryAuth, "reason", "wrong password",
			"user_id", user.ID, "ip", ip, "remaining_attempts", h.loginProtection.RemainingAttempts(user)-1)
		writeJSONError(w, http.StatusUnauthorized, msgInvalidLogin)
		return
	}

	if !user.IsActive {
		slog.Warn("login attempt on inactive account", "category", model.EventCategoryAuth, "user_id", user.ID, "ip", ip)
		writeJSONError(w, http.StatusUnauthorized, msgInvalidLogin)
		return
	}

	now := time.Now()
	if err := h.queries.RecordSuccessfulLogin(ctx, user.ID, now); err != nil {
		slog.Error("failed to record login", "user_id", user.ID, "error", err)
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashPassword(password); err != nil {
			slog.Error("failed to rehash password", "user_id", user.ID, "error", err)
		} else if err := h.queries.UpdateUserPasswordHash(ctx, user.ID, hash, now); err != nil {
			slog.Error("failed to store rehashed password", "user_id", user.ID, "error", err)
		}
	}

	if err := session.SignIn(ctx, h.sessionManager, user); err != nil {
		logAndInternalError(w, "failed to start session", "user_id", user.ID, "error", err)
		return
	}

	if h.eventService != nil {
		_ = h.eventService.Log(ctx, service.Event{
			Category:   model.EventCategoryAuth,
			Message:    "User logged in",
			UserID:     user.ID,
			IPAddress:  ip,
			RequestURL: r.URL.Path,
		})
	}
	redirect(w, r, RouteAdmin)
}

// Logout handles POST /admin/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r)
	if err := session.SignOut(r.Context(), h.sessionManager); err != nil {
		logAndInternalError(w, "failed to end session", "error", err)
		return
	}
	if h.eventService != nil && id.UserID != "" {
		_ = h.eventService.LogInfo(r.Context(), model.EventCategoryAuth, "User logged out", id.UserID, nil)
	}
	redirect(w, r, RouteLogin)
}

func lockedMessage(remaining time.Duration) string {
	minutes := int(math.Ceil(remaining.Minutes()))
	return fmt.Sprintf("Cuenta bloqueada temporalmente, intenta de nuevo en %d minutos", minutes)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/store"
)

// Capability is a staff permission checked before a mutation.
type Capability string

// Capabilities.
const (
	CapManagePackages Capability = "canManagePackages"
	CapManageCSV      Capability = "canManageCsv"
	CapManageUsers    Capability = "canManageUsers"
)

// ForbiddenMessage is shown when a signed-in user lacks a capability.
const ForbiddenMessage = "No tienes permisos para realizar esta accion"

var (
	// ErrUnauthenticated means there is no usable signed-in user.
	// Callers redirect to the login page.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means the user is signed in but lacks the capability.
	ErrForbidden = errors.New("forbidden")
)

// ForbiddenError is returned by Require when authorization fails.
type ForbiddenError struct {
	UserID     string
	Capability Capability
}

func (e *ForbiddenError) Error() string { return ForbiddenMessage }

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// Identity is what the session knows about the caller. It is passed
// explicitly into every protected operation.
type Identity struct {
	UserID   string
	Email    string
	IsActive bool
}

// IsZero reports whether the identity carries neither an id nor an email.
func (i Identity) IsZero() bool {
	return i.UserID == "" && i.Email == ""
}

// UserFinder looks up users by id or by lower-cased email.
type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (store.User, error)
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
}

// Resolver resolves session identities against the user store.
type Resolver struct {
	users UserFinder
}

// NewResolver creates a Resolver backed by users.
func NewResolver(users UserFinder) *Resolver {
	return &Resolver{users: users}
}

// ResolveCurrentUser returns the stored user behind id. The id takes
// precedence; the email is only consulted when no user has that id.
func (r *Resolver) ResolveCurrentUser(ctx context.Context, id Identity) (store.User, error) {
	if id.IsZero() || !id.IsActive {
		return store.User{}, ErrUnauthenticated
	}

	if id.UserID != "" {
		user, err := r.users.GetUserByID(ctx, id.UserID)
		if err == nil {
			return checkActive(user)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return store.User{}, fmt.Errorf("looking up user by id: %w", err)
		}
	}

	if email := model.NormalizeEmail(id.Email); email != "" {
		user, err := r.users.GetUserByEmail(ctx, email)
		if err == nil {
			return checkActive(user)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return store.User{}, fmt.Errorf("looking up user by email: %w", err)
		}
	}

	return store.User{}, ErrUnauthenticated
}

func checkActive(user store.User) (store.User, error) {
	if !user.IsActive {
		return store.User{}, ErrUnauthenticated
	}
	return user, nil
}

// Authorize reports whether user holds capability. ADMIN holds every
// capability regardless of stored flags. Only the manage-packages flag is
// honored for other roles, and COTIZADOR never holds any capability.
func Authorize(user store.User, capability Capability) bool {
	switch user.Role {
	case model.RoleAdmin:
		return true
	case model.RoleCotizador:
		return false
	}
	if capability == CapManagePackages {
		return user.CanManagePackages
	}
	return false
}

// Require resolves id and checks capability. It returns ErrUnauthenticated
// when there is no usable user and a *ForbiddenError when the capability is
// missing.
func (r *Resolver) Require(ctx context.Context, id Identity, capability Capability) (store.User, error) {
	user, err := r.ResolveCurrentUser(ctx, id)
	if err != nil {
		return store.User{}, err
	}
	if !Authorize(user, capability) {
		slog.Warn("access denied",
			"user_id", user.ID,
			"role", user.Role,
			"capability", capability,
		)
		return store.User{}, &ForbiddenError{UserID: user.ID, Capability: capability}
	}
	return user, nil
}

// CanUseQuotes reports whether user may open the quote builder.
func CanUseQuotes(user store.User) bool {
	return user.Role == model.RoleAdmin || user.Role == model.RoleCotizador
}

// CanViewDashboard reports whether user may see the package dashboard.
func CanViewDashboard(user store.User) bool {
	return Authorize(user, CapManagePackages)
}

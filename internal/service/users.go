// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/store"
	"github.com/viajexmundo/agencia/internal/validation"
)

// UserForm is the create-user form.
type UserForm struct {
	Email             string `form:"email" validate:"required,email"`
	Password          string `form:"password" validate:"min=8"`
	FullName          string `form:"fullName"`
	Role              string `form:"role" validate:"oneof=ADMIN EDITOR COTIZADOR"`
	CanManagePackages bool   `form:"canManagePackages"`
}

// AccessForm is the permission update form.
type AccessForm struct {
	UserID            string `form:"userId" validate:"min=8"`
	Role              string `form:"role" validate:"oneof=ADMIN EDITOR COTIZADOR"`
	CanManagePackages bool   `form:"canManagePackages"`
}

// UserFormFromValues reads a UserForm from posted form values. Checkboxes
// are on when posted as "on".
func UserFormFromValues(v url.Values) UserForm {
	return UserForm{
		Email:             strings.TrimSpace(v.Get("email")),
		Password:          v.Get("password"),
		FullName:          strings.TrimSpace(v.Get("fullName")),
		Role:              v.Get("role"),
		CanManagePackages: v.Get("canManagePackages") == "on",
	}
}

// AccessFormFromValues reads an AccessForm from posted form values.
func AccessFormFromValues(v url.Values) AccessForm {
	return AccessForm{
		UserID:            strings.TrimSpace(v.Get("userId")),
		Role:              v.Get("role"),
		CanManagePackages: v.Get("canManagePackages") == "on",
	}
}

// UserService manages staff accounts.
type UserService struct {
	queries *store.Queries
	access  *auth.Resolver
	events  *EventService
	logger  *slog.Logger
	now     func() time.Time
}

// NewUserService creates a new UserService. events may be nil.
func NewUserService(db *sql.DB, access *auth.Resolver, events *EventService, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		queries: store.New(db),
		access:  access,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// List returns every user ordered by role then email.
func (s *UserService) List(ctx context.Context, id auth.Identity) ([]store.User, error) {
	if _, err := s.access.Require(ctx, id, auth.CapManageUsers); err != nil {
		return nil, err
	}
	users, err := s.queries.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Create creates a user or, when the email is taken, resets that user's
// password, role and manage-packages flag. ADMIN always gets the flag.
func (s *UserService) Create(ctx context.Context, id auth.Identity, form UserForm) (store.User, error) {
	actor, err := s.access.Require(ctx, id, auth.CapManageUsers)
	if err != nil {
		return store.User{}, err
	}
	if issues := validation.Struct(form, ""); len(issues) > 0 {
		return store.User{}, invalid(msgInvalidCreateUser, issues)
	}

	role, _ := model.ParseRole(form.Role)
	canManage := role == model.RoleAdmin || form.CanManagePackages
	email := model.NormalizeEmail(form.Email)

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now()
	existing, err := s.queries.GetUserByEmail(ctx, email)
	var user store.User
	switch {
	case err == nil:
		fullName := form.FullName
		if fullName == "" {
			fullName = existing.FullName
		}
		user, err = s.queries.UpdateUserCredentials(ctx, store.UpdateUserCredentialsParams{
			PasswordHash:      hash,
			FullName:          fullName,
			Role:              role,
			CanManagePackages: canManage,
			UpdatedAt:         now,
			ID:                existing.ID,
		})
	case errors.Is(err, sql.ErrNoRows):
		user, err = s.queries.CreateUser(ctx, store.CreateUserParams{
			ID:                uuid.NewString(),
			Email:             email,
			PasswordHash:      hash,
			FullName:          form.FullName,
			Role:              role,
			IsActive:          true,
			CanManagePackages: canManage,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	if err != nil {
		return store.User{}, fmt.Errorf("saving user %s: %w", email, err)
	}

	if s.events != nil {
		_ = s.events.LogInfo(ctx, model.EventCategoryUser, "user saved", actor.ID, map[string]any{
			"email": user.Email,
			"role":  user.Role,
		})
	}
	return user, nil
}

// UpdateAccess changes a user's role and manage-packages flag.
func (s *UserService) UpdateAccess(ctx context.Context, id auth.Identity, form AccessForm) (store.User, error) {
	actor, err := s.access.Require(ctx, id, auth.CapManageUsers)
	if err != nil {
		return store.User{}, err
	}
	if issues := validation.Struct(form, ""); len(issues) > 0 {
		return store.User{}, invalid(msgInvalidUpdateAccess, issues)
	}

	role, _ := model.ParseRole(form.Role)
	user, err := s.queries.UpdateUserAccess(ctx, store.UpdateUserAccessParams{
		Role:              role,
		CanManagePackages: role == model.RoleAdmin || form.CanManagePackages,
		UpdatedAt:         s.now(),
		ID:                form.UserID,
	})
	if err != nil {
		return store.User{}, notFound(err, "updating user access")
	}

	if s.events != nil {
		_ = s.events.LogInfo(ctx, model.EventCategoryUser, "user access updated", actor.ID, map[string]any{
			"user_id":             user.ID,
			"role":                user.Role,
			"can_manage_packages": user.CanManagePackages,
		})
	}
	return user, nil
}

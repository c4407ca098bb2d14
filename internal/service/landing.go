// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/cache"
	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/store"
)

// LandingService selects the marketing variant shown on the home page.
type LandingService struct {
	queries *store.Queries
	access  *auth.Resolver
	pages   *cache.PageCache
	events  *EventService
	logger  *slog.Logger
}

// NewLandingService creates a new LandingService. pages and events may be nil.
func NewLandingService(db *sql.DB, access *auth.Resolver, pages *cache.PageCache, events *EventService, logger *slog.Logger) *LandingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LandingService{
		queries: store.New(db),
		access:  access,
		pages:   pages,
		events:  events,
		logger:  logger,
	}
}

// Active returns the configured variant. It never fails: a missing setting,
// an unknown value or a read error all yield the default variant.
func (s *LandingService) Active(ctx context.Context) model.LandingVariant {
	setting, err := s.queries.GetSetting(ctx, model.LandingVariantKey)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("landing variant unavailable", "error", err)
		}
		return model.LandingDefault
	}
	return model.ParseLandingVariant(setting.Value)
}

// SetVariant stores the active variant. ADMIN and staff who can manage
// packages may change it.
func (s *LandingService) SetVariant(ctx context.Context, id auth.Identity, value string) (model.LandingVariant, error) {
	user, err := s.access.Require(ctx, id, auth.CapManagePackages)
	if err != nil {
		return "", err
	}
	variant := model.LandingVariant(strings.TrimSpace(value))
	if !variant.Valid() {
		return "", invalid(msgInvalidLanding, nil)
	}

	if err := s.queries.UpsertSetting(ctx, model.LandingVariantKey, string(variant), time.Now()); err != nil {
		if store.IsMissingTable(err) {
			return "", ErrSettingsUnavailable
		}
		return "", fmt.Errorf("saving landing variant: %w", err)
	}

	if s.pages != nil {
		s.pages.Invalidate(ctx, cache.HomePath)
	}
	if s.events != nil {
		_ = s.events.LogInfo(ctx, model.EventCategoryConfig, "landing variant changed", user.ID, map[string]any{
			"variant": variant,
		})
	}
	return variant, nil
}

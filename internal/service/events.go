// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the back-office operations: package mutations,
// bulk import and export, user administration, landing selection and quotes.
// Every protected operation takes the caller's auth.Identity explicitly.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/store"
)

// EventService records audit events.
type EventService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{
		queries: store.New(db),
		logger:  logger,
	}
}

// Event describes one audit entry.
type Event struct {
	Level      string
	Category   string
	Message    string
	UserID     string
	IPAddress  string
	RequestURL string
	Metadata   map[string]any
}

// Log writes an event. Failures are logged, never returned to the caller's
// request path.
func (s *EventService) Log(ctx context.Context, e Event) error {
	metadataJSON := "{}"
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			metadataJSON = string(b)
		}
	}
	if e.Level == "" {
		e.Level = model.EventLevelInfo
	}

	err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:      e.Level,
		Category:   e.Category,
		Message:    e.Message,
		UserID:     sql.NullString{String: e.UserID, Valid: e.UserID != ""},
		Metadata:   metadataJSON,
		IPAddress:  e.IPAddress,
		RequestURL: e.RequestURL,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		s.logger.Error("failed to log event", "category", e.Category, "error", err)
		return err
	}
	return nil
}

// LogInfo logs an info-level event for userID.
func (s *EventService) LogInfo(ctx context.Context, category, message, userID string, metadata map[string]any) error {
	return s.Log(ctx, Event{Level: model.EventLevelInfo, Category: category, Message: message, UserID: userID, Metadata: metadata})
}

// LogWarning logs a warning-level event for userID.
func (s *EventService) LogWarning(ctx context.Context, category, message, userID string, metadata map[string]any) error {
	return s.Log(ctx, Event{Level: model.EventLevelWarning, Category: category, Message: message, UserID: userID, Metadata: metadata})
}

// Recent returns the newest events.
func (s *EventService) Recent(ctx context.Context, limit int64) ([]store.Event, error) {
	return s.queries.ListRecentEvents(ctx, limit)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, time.Now().Add(-olderThan))
}

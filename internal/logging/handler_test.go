// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/store"
	"github.com/viajexmundo/agencia/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func newTestLogger(t *testing.T) (*slog.Logger, *sql.DB) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return slog.New(NewEventLogHandler(discardHandler{}, db)), db
}

func events(t *testing.T, db *sql.DB) []store.Event {
	t.Helper()
	list, err := store.New(db).ListRecentEvents(context.Background(), 100)
	require.NoError(t, err)
	return list
}

func TestEventLogHandler_Levels(t *testing.T) {
	logger, db := newTestLogger(t)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	got := events(t, db)
	require.Len(t, got, 2)
	levels := []string{got[0].Level, got[1].Level}
	assert.ElementsMatch(t, []string{model.EventLevelWarning, model.EventLevelError}, levels)
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))

	logger.Warn("ignored warning")
	logger.Error("stored error")

	got := events(t, db)
	require.Len(t, got, 1)
	assert.Equal(t, "stored error", got[0].Message)
}

func TestEventLogHandler_DedicatedColumns(t *testing.T) {
	logger, db := newTestLogger(t)

	logger.Warn("access denied",
		AttrUserID, "user-7",
		AttrIP, "192.0.2.10",
		AttrRequestURL, "/admin/usuarios",
		"capability", "canManageUsers",
	)

	got := events(t, db)
	require.Len(t, got, 1)
	e := got[0]
	assert.Equal(t, model.EventCategoryAuth, e.Category)
	assert.Equal(t, "user-7", e.UserID.String)
	assert.Equal(t, "192.0.2.10", e.IPAddress)
	assert.Equal(t, "/admin/usuarios", e.RequestURL)
	assert.JSONEq(t, `{"capability":"canManageUsers"}`, e.Metadata)
}

func TestEventLogHandler_Categories(t *testing.T) {
	tests := []struct {
		message string
		attrs   []any
		want    string
	}{
		{"login failed", nil, model.EventCategoryAuth},
		{"import stopped", nil, model.EventCategoryImport},
		{"package write failed", nil, model.EventCategoryPackage},
		{"user lookup failed", nil, model.EventCategoryUser},
		{"landing setting missing", nil, model.EventCategoryConfig},
		{"disk almost full", nil, model.EventCategorySystem},
		{"login failed", []any{AttrCategory, model.EventCategoryImport}, model.EventCategoryImport},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			logger, db := newTestLogger(t)
			logger.Warn(tt.message, tt.attrs...)

			got := events(t, db)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Category)
		})
	}
}

func TestEventLogHandler_WithAttrsAndGroup(t *testing.T) {
	logger, db := newTestLogger(t)

	logger.With("source", "csv").WithGroup("row").Warn("import stopped", "code", "PKG-001", "note", "quote \"x\"\n")

	got := events(t, db)
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"source":"csv","row.code":"PKG-001","row.note":"quote \"x\"\n"}`, got[0].Metadata)
}

func TestEventLogHandler_EmptyMetadata(t *testing.T) {
	logger, db := newTestLogger(t)
	logger.Error("boom")

	got := events(t, db)
	require.Len(t, got, 1)
	assert.Equal(t, "{}", got[0].Metadata)
	assert.False(t, got[0].UserID.Valid)
}

func TestEventLevel(t *testing.T) {
	assert.Equal(t, model.EventLevelError, eventLevel(slog.LevelError+4))
	assert.Equal(t, model.EventLevelWarning, eventLevel(slog.LevelWarn))
	assert.Equal(t, model.EventLevelInfo, eventLevel(slog.LevelInfo))
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs: CSV snapshots of the
// published catalog, audit event retention and GeoIP database reloads.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/store"
	"github.com/viajexmundo/agencia/internal/transfer"
)

// Daily maintenance schedule.
const maintenanceSchedule = "15 3 * * *"

// Reloader reloads an external data file, such as the GeoIP database.
type Reloader interface {
	Reload() error
}

// Options configures the scheduler jobs. Zero values disable a job.
type Options struct {
	SnapshotSchedule string
	SnapshotDir      string
	EventRetention   time.Duration
	GeoIP            Reloader
}

// Scheduler runs background jobs on cron schedules.
type Scheduler struct {
	queries *store.Queries
	cron    *cron.Cron
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a new scheduler instance.
func New(db *sql.DB, opts Options, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		queries: store.New(db),
		cron:    cron.New(),
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// Start registers the configured jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if s.opts.SnapshotSchedule != "" {
		if _, err := s.cron.AddFunc(s.opts.SnapshotSchedule, func() {
			if _, err := s.Snapshot(context.Background()); err != nil {
				s.logger.Error("catalog snapshot failed", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("scheduling catalog snapshot: %w", err)
		}
	}

	if s.opts.EventRetention > 0 || s.opts.GeoIP != nil {
		if _, err := s.cron.AddFunc(maintenanceSchedule, s.maintain); err != nil {
			return fmt.Errorf("scheduling maintenance: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Snapshot writes the published catalog as CSV into the snapshot directory
// and returns the file path. The file is named like a manual export, so a
// second snapshot on the same day replaces the first.
func (s *Scheduler) Snapshot(ctx context.Context) (string, error) {
	packages, err := s.queries.ListPackagesByStatus(ctx, model.StatusPublished)
	if err != nil {
		return "", fmt.Errorf("listing published packages: %w", err)
	}

	if err := os.MkdirAll(s.opts.SnapshotDir, 0o750); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	path := filepath.Join(s.opts.SnapshotDir, transfer.ExportFilename(s.now().Format(time.DateOnly)))
	tmp, err := os.CreateTemp(s.opts.SnapshotDir, ".snapshot-*.csv")
	if err != nil {
		return "", fmt.Errorf("creating snapshot file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(transfer.BuildPackagesCSV(packages)); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("moving snapshot into place: %w", err)
	}

	s.logger.Info("catalog snapshot written", "path", path, "packages", len(packages))
	return path, nil
}

// maintain prunes old audit events and reloads the GeoIP database.
func (s *Scheduler) maintain() {
	ctx := context.Background()

	if s.opts.EventRetention > 0 {
		n, err := s.queries.DeleteEventsBefore(ctx, s.now().Add(-s.opts.EventRetention))
		if err != nil {
			s.logger.Error("failed to prune events", "error", err)
		} else if n > 0 {
			s.logger.Info("pruned old events", "deleted", n)
		}
	}

	if s.opts.GeoIP != nil {
		if err := s.opts.GeoIP.Reload(); err != nil {
			s.logger.Warn("GeoIP reload failed", "category", model.EventCategorySystem, "error", err)
		}
	}
}

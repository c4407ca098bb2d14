// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/cache"
	"github.com/viajexmundo/agencia/internal/config"
	"github.com/viajexmundo/agencia/internal/geoip"
	"github.com/viajexmundo/agencia/internal/handler"
	"github.com/viajexmundo/agencia/internal/logging"
	"github.com/viajexmundo/agencia/internal/middleware"
	"github.com/viajexmundo/agencia/internal/scheduler"
	"github.com/viajexmundo/agencia/internal/service"
	"github.com/viajexmundo/agencia/internal/session"
	"github.com/viajexmundo/agencia/internal/store"
	"github.com/viajexmundo/agencia/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "agencia - catalogo de paquetes y back-office\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCIA_SESSION_SECRET     Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCIA_DB_PATH            SQLite database path (default: ./data/agencia.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCIA_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCIA_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCIA_WHATSAPP_NUMBER    Agency WhatsApp number (default: 50230149000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCIA_REDIS_URL          Redis URL for a shared page cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCIA_SNAPSHOT_SCHEDULE  Cron schedule for CSV snapshots (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENCIA_DO_SEED            Seed the admin user and sample packages\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("agencia %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logLevel := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// WARN and ERROR records also land in the event log table.
	logger = slog.New(logging.NewEventLogHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}), db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if cfg.DoSeed {
		hash, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("hashing admin password: %w", err)
		}
		if err := store.Seed(ctx, db, store.SeedAdmin{
			Email:        cfg.AdminEmail,
			PasswordHash: hash,
			FullName:     store.DefaultAdminName,
		}); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	cacher := cache.NewCache(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheDuration(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	defer func() { _ = cacher.Close() }()
	pages := cache.NewPageCache(cacher, cfg.CacheDuration(), logger)

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip database unavailable, lead countries disabled", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer func() { _ = geo.Close() }()

	agency := service.Agency{
		Name:           cfg.AgencyName,
		LogoURL:        cfg.AgencyLogoURL,
		WhatsAppNumber: cfg.WhatsAppNumber,
		SiteURL:        cfg.SiteURL,
	}

	resolver := auth.NewResolver(store.New(db))
	eventService := service.NewEventService(db, logger)
	packageService := service.NewPackageService(db, resolver, pages, eventService, logger)
	landingService := service.NewLandingService(db, resolver, pages, eventService, logger)
	leadService := service.NewLeadService(packageService, eventService, geo, agency, logger)
	userService := service.NewUserService(db, resolver, eventService, logger)
	quoteService := service.NewQuoteService(db, resolver, agency)

	sessionManager := session.New(db, cfg.IsDevelopment())
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	sched := scheduler.New(db, scheduler.Options{
		SnapshotSchedule: cfg.SnapshotSchedule,
		SnapshotDir:      cfg.SnapshotDir,
		EventRetention:   time.Duration(cfg.EventRetentionDays) * 24 * time.Hour,
		GeoIP:            geo,
	}, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	router := handler.NewRouter(handler.RouterConfig{
		Sessions:        sessionManager,
		LoginProtection: loginProtection,
		Pages:           pages,
		CSRF:            middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()),
		Security:        middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		RequestTimeout:  30 * time.Second,
		RequestLogging:  cfg.IsDevelopment(),

		Public:       handler.NewPublicHandler(packageService, landingService, leadService, agency),
		Auth:         handler.NewAuthHandler(db, sessionManager, loginProtection, eventService),
		Admin:        handler.NewAdminHandler(packageService, resolver, pages, agency),
		ImportExport: handler.NewImportExportHandler(packageService),
		Users:        handler.NewUsersHandler(userService),
		Landing:      handler.NewLandingHandler(landingService),
		Quotes:       handler.NewQuotesHandler(quoteService, agency),
		Events:       handler.NewEventsHandler(eventService, resolver),
		Health:       handler.NewHealthHandler(db, versionInfo),
		SEO:          handler.NewSEOHandler(packageService, cfg.SiteURL, !cfg.IsDevelopment()),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // CSV uploads and PDF downloads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

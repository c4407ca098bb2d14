// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from AGENCIA_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"AGENCIA_DB_PATH" envDefault:"./data/agencia.db"`
	SessionSecret string `env:"AGENCIA_SESSION_SECRET,required"`
	ServerHost    string `env:"AGENCIA_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"AGENCIA_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"AGENCIA_ENV" envDefault:"development"`
	LogLevel      string `env:"AGENCIA_LOG_LEVEL" envDefault:"info"`

	// Page cache
	RedisURL     string `env:"AGENCIA_REDIS_URL"`                           // Optional Redis URL for a shared page cache
	CachePrefix  string `env:"AGENCIA_CACHE_PREFIX" envDefault:"agencia:"` // Redis key prefix
	CacheTTL     int    `env:"AGENCIA_CACHE_TTL" envDefault:"300"`          // Page TTL in seconds
	CacheMaxSize int    `env:"AGENCIA_CACHE_MAX_SIZE" envDefault:"1000"`    // Max memory cache entries

	// Agency contact details
	WhatsAppNumber string `env:"AGENCIA_WHATSAPP_NUMBER" envDefault:"50230149000"`
	SiteURL        string `env:"AGENCIA_SITE_URL" envDefault:"https://tu-dominio.com"`
	AgencyName     string `env:"AGENCIA_NAME" envDefault:"Agencia de Viajes"`
	AgencyLogoURL  string `env:"AGENCIA_LOGO_URL" envDefault:"/logo-agencia.png"`

	// GeoIP configuration
	GeoIPDBPath string `env:"AGENCIA_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Seeding configuration
	DoSeed        bool   `env:"AGENCIA_DO_SEED" envDefault:"false"`
	AdminEmail    string `env:"AGENCIA_ADMIN_EMAIL" envDefault:"admin@agencia.com"`
	AdminPassword string `env:"AGENCIA_ADMIN_PASSWORD" envDefault:"Admin12345"`

	// Scheduled CSV snapshot of the published catalog; empty schedule disables it.
	SnapshotSchedule string `env:"AGENCIA_SNAPSHOT_SCHEDULE"`
	SnapshotDir      string `env:"AGENCIA_SNAPSHOT_DIR" envDefault:"./data/snapshots"`

	// Days of audit events to keep.
	EventRetentionDays int `env:"AGENCIA_EVENT_RETENTION_DAYS" envDefault:"90"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// SnapshotEnabled returns true if scheduled CSV snapshots are configured.
func (c Config) SnapshotEnabled() bool {
	return c.SnapshotSchedule != ""
}

// CacheDuration returns the page cache TTL.
func (c Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("AGENCIA_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("AGENCIA_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("AGENCIA_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if c.SnapshotEnabled() {
		if _, err := cron.ParseStandard(c.SnapshotSchedule); err != nil {
			return fmt.Errorf("AGENCIA_SNAPSHOT_SCHEDULE is not a valid cron expression: %w", err)
		}
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("AGENCIA_CACHE_TTL must be positive, got %d", c.CacheTTL)
	}

	if c.DoSeed && !c.IsDevelopment() && c.AdminPassword == "Admin12345" {
		slog.Warn("seeding the default admin password outside development; set AGENCIA_ADMIN_PASSWORD")
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}

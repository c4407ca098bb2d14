// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/viajexmundo/agencia/internal/store"
)

// RateLimitMessage is returned to clients that post the login form too often.
const RateLimitMessage = "Demasiados intentos de inicio de sesion, espera un momento"

// maxLockout caps the exponential lockout backoff.
const maxLockout = 24 * time.Hour

// LoginProtection combines a per-IP rate limit on the login form with an
// account lockout policy. Lockout state lives on the user row
// (failed_login_attempts, locked_until) so it survives restarts.
type LoginProtection struct {
	ipLimiters *ipLimiters

	maxFailedAttempts int           // Lock account after this many failures
	lockoutDuration   time.Duration // Base lockout duration (doubles with each lockout)
	now               func() time.Time
}

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	// IPRateLimit is requests per second per IP (default: 0.5 = 1 request per 2 seconds)
	IPRateLimit float64
	// IPBurst is the maximum burst size for IP rate limiting (default: 5)
	IPBurst int
	// MaxFailedAttempts before account lockout (default: 5)
	MaxFailedAttempts int
	// LockoutDuration is base lockout time, doubles with each lockout (default: 15 minutes)
	LockoutDuration time.Duration
}

// DefaultLoginProtectionConfig returns sensible defaults.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
	}
}

// NewLoginProtection creates a new login protection instance and starts a
// goroutine that prunes idle IP limiters.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	lp := newLoginProtection(cfg)
	go lp.cleanup()
	return lp
}

func newLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	defaults := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = defaults.IPRateLimit
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = defaults.IPBurst
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = defaults.MaxFailedAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = defaults.LockoutDuration
	}

	return &LoginProtection{
		ipLimiters:        newIPLimiters(cfg.IPRateLimit, cfg.IPBurst),
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		now:               time.Now,
	}
}

// CheckIPRateLimit reports whether a login attempt from ip is allowed.
func (lp *LoginProtection) CheckIPRateLimit(ip string) bool {
	return lp.ipLimiters.allow(ip)
}

// IsLocked reports whether user is locked out and for how much longer.
func (lp *LoginProtection) IsLocked(user store.User) (bool, time.Duration) {
	if !user.LockedUntil.Valid {
		return false, 0
	}
	remaining := user.LockedUntil.Time.Sub(lp.now())
	if remaining <= 0 {
		return false, 0
	}
	return true, remaining
}

// NextLock returns the locked_until value to store after one more failed
// attempt by user. Every MaxFailedAttempts-th consecutive failure locks the
// account, each lockout twice as long as the previous one. Other failures
// keep the current deadline.
func (lp *LoginProtection) NextLock(user store.User) sql.NullTime {
	attempts := int(user.FailedLoginAttempts) + 1
	if attempts%lp.maxFailedAttempts != 0 {
		return user.LockedUntil
	}

	d := lp.LockDuration(attempts / lp.maxFailedAttempts)
	slog.Warn("account locked due to failed attempts",
		"category", "auth",
		"user_id", user.ID,
		"attempts", attempts,
		"duration", d,
	)
	return sql.NullTime{Time: lp.now().Add(d), Valid: true}
}

// LockDuration returns the length of the nth lockout (1-based).
func (lp *LoginProtection) LockDuration(n int) time.Duration {
	d := lp.lockoutDuration
	for i := 1; i < n; i++ {
		d *= 2
		if d > maxLockout {
			return maxLockout
		}
	}
	return d
}

// RemainingAttempts returns how many failures user may still make before
// the next lockout.
func (lp *LoginProtection) RemainingAttempts(user store.User) int {
	return lp.maxFailedAttempts - int(user.FailedLoginAttempts)%lp.maxFailedAttempts
}

func (lp *LoginProtection) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if n := lp.ipLimiters.prune(time.Hour); n > 0 {
			slog.Debug("pruned idle login rate limiters", "count", n)
		}
	}
}

// Middleware returns HTTP middleware for IP rate limiting on login.
// Only POST requests are limited.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := GetClientIP(r)
			if !lp.CheckIPRateLimit(ip) {
				slog.Warn("login rate limit exceeded", "category", "auth", "ip", ip, "url", r.URL.Path)
				http.Error(w, RateLimitMessage, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

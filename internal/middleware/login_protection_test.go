// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/viajexmundo/agencia/internal/store"
)

var fixedNow = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

func testLoginProtection(maxAttempts int, lockout time.Duration) *LoginProtection {
	lp := newLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
	})
	lp.now = func() time.Time { return fixedNow }
	return lp
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := newLoginProtection(LoginProtectionConfig{})

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5 (default)", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m (default)", lp.lockoutDuration)
	}
}

func TestLoginProtectionIsLocked(t *testing.T) {
	lp := testLoginProtection(3, time.Minute)

	tests := []struct {
		name        string
		lockedUntil sql.NullTime
		want        bool
	}{
		{"never locked", sql.NullTime{}, false},
		{"lock expired", sql.NullTime{Time: fixedNow.Add(-time.Second), Valid: true}, false},
		{"locked", sql.NullTime{Time: fixedNow.Add(time.Minute), Valid: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locked, remaining := lp.IsLocked(store.User{LockedUntil: tt.lockedUntil})
			if locked != tt.want {
				t.Errorf("IsLocked() = %v, want %v", locked, tt.want)
			}
			if locked && remaining != time.Minute {
				t.Errorf("remaining = %v, want 1m", remaining)
			}
		})
	}
}

func TestLoginProtectionNextLock(t *testing.T) {
	lp := testLoginProtection(3, time.Minute)

	user := store.User{ID: "user-1"}
	for attempts := int64(0); attempts < 2; attempts++ {
		user.FailedLoginAttempts = attempts
		if next := lp.NextLock(user); next.Valid {
			t.Errorf("failure %d should not lock the account", attempts+1)
		}
	}

	user.FailedLoginAttempts = 2
	next := lp.NextLock(user)
	if !next.Valid || !next.Time.Equal(fixedNow.Add(time.Minute)) {
		t.Errorf("third failure lock = %v, want %v", next, fixedNow.Add(time.Minute))
	}

	// the sixth failure is the second lockout
	user.FailedLoginAttempts = 5
	next = lp.NextLock(user)
	if !next.Valid || !next.Time.Equal(fixedNow.Add(2*time.Minute)) {
		t.Errorf("sixth failure lock = %v, want %v", next, fixedNow.Add(2*time.Minute))
	}
}

func TestLoginProtectionNextLockKeepsDeadline(t *testing.T) {
	lp := testLoginProtection(3, time.Minute)
	current := sql.NullTime{Time: fixedNow.Add(30 * time.Second), Valid: true}

	next := lp.NextLock(store.User{FailedLoginAttempts: 3, LockedUntil: current})
	if next != current {
		t.Errorf("NextLock() = %v, want unchanged %v", next, current)
	}
}

func TestLoginProtectionLockDuration(t *testing.T) {
	lp := testLoginProtection(5, 15*time.Minute)

	tests := []struct {
		n    int
		want time.Duration
	}{
		{1, 15 * time.Minute},
		{2, 30 * time.Minute},
		{3, time.Hour},
		{20, 24 * time.Hour},
	}
	for _, tt := range tests {
		if got := lp.LockDuration(tt.n); got != tt.want {
			t.Errorf("LockDuration(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestLoginProtectionRemainingAttempts(t *testing.T) {
	lp := testLoginProtection(5, time.Minute)

	for attempts, want := range map[int64]int{0: 5, 1: 4, 4: 1, 5: 5, 7: 3} {
		if got := lp.RemainingAttempts(store.User{FailedLoginAttempts: attempts}); got != want {
			t.Errorf("RemainingAttempts(%d failures) = %d, want %d", attempts, got, want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xForwarded string
		xRealIP    string
		want       string
	}{
		{"simple remote addr", "192.168.1.1:12345", "", "", "192.168.1.1"},
		{"remote addr without port", "192.168.1.1", "", "", "192.168.1.1"},
		{"X-Forwarded-For single", "127.0.0.1:8080", "10.0.0.1", "", "10.0.0.1"},
		{"X-Forwarded-For multiple", "127.0.0.1:8080", "10.0.0.1, 10.0.0.2, 10.0.0.3", "", "10.0.0.1"},
		{"X-Real-IP", "127.0.0.1:8080", "", "10.0.0.5", "10.0.0.5"},
		{"X-Forwarded-For takes precedence over X-Real-IP", "127.0.0.1:8080", "10.0.0.1", "10.0.0.5", "10.0.0.1"},
		{"X-Forwarded-For with spaces", "127.0.0.1:8080", "  10.0.0.1  ", "", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xForwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwarded)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := newLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})

	wrapped := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 4)
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPost, http.MethodPost} {
		req := httptest.NewRequest(method, LoginPath, nil)
		req.RemoteAddr = "192.168.1.100:5000"
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i+1, codes[i], want[i])
		}
	}
}

func TestIPLimitersPrune(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	l := newIPLimiters(1, 1)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	now = now.Add(2 * time.Hour)
	l.allow("10.0.0.2")

	if n := l.prune(time.Hour); n != 1 {
		t.Errorf("prune = %d, want 1", n)
	}
	if _, ok := l.buckets["10.0.0.1"]; ok {
		t.Error("idle bucket survived prune")
	}
	if _, ok := l.buckets["10.0.0.2"]; !ok {
		t.Error("active bucket was pruned")
	}
}

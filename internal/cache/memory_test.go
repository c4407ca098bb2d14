// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{DefaultTTL: ttl, MaxSize: maxSize})
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "page:/", []byte("home"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "page:/")
	if err != nil || string(got) != "home" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := c.Delete(ctx, "page:/"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "page:/"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("v"), time.Minute)
	_ = c.Set(ctx, "long", []byte("v"), 0)
	now = now.Add(2 * time.Minute)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("short TTL entry: err = %v, want ErrCacheMiss", err)
	}
	if _, err := c.Get(ctx, "long"); err != nil {
		t.Errorf("default TTL entry missing: %v", err)
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "page:/", []byte("a"), 0)
	_ = c.Set(ctx, "page:/paquetes", []byte("b"), 0)
	_ = c.Set(ctx, "other", []byte("c"), 0)

	if err := c.DeleteByPrefix(ctx, "page:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if _, err := c.Get(ctx, "page:/paquetes"); !errors.Is(err, ErrCacheMiss) {
		t.Error("prefixed key survived")
	}
	if _, err := c.Get(ctx, "other"); err != nil {
		t.Error("unrelated key was removed")
	}
}

func TestMemoryCache_MaxSizeEvicts(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 3)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "soon", []byte("x"), time.Minute)
	for i := 0; i < 2; i++ {
		_ = c.Set(ctx, fmt.Sprintf("k%d", i), []byte("x"), 0)
	}
	_ = c.Set(ctx, "new", []byte("x"), 0)

	if got := c.Stats(ctx).Items; got != 3 {
		t.Errorf("Items = %d, want 3", got)
	}
	if _, err := c.Get(ctx, "soon"); !errors.Is(err, ErrCacheMiss) {
		t.Error("entry closest to expiry was not evicted")
	}
	if _, err := c.Get(ctx, "new"); err != nil {
		t.Error("new entry missing")
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("12345"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "missing")

	s := c.Stats(ctx)
	if s.Backend != "memory" || s.Hits != 1 || s.Misses != 1 || s.Items != 1 || s.HitRate != 50 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := newTestMemoryCache(time.Hour, 0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = c.Set(ctx, "key", []byte("value"), 0)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = c.Get(ctx, "key")
			}
		}()
	}
	wg.Wait()

	if _, err := c.Get(ctx, "key"); err != nil {
		t.Errorf("key missing after concurrent access: %v", err)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, CleanupInterval: time.Second})
	ctx := context.Background()

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := c.Get(ctx, "key"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after close = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestNewCache_FallsBackToMemory(t *testing.T) {
	c := NewCache(Config{RedisURL: "redis://127.0.0.1:1/0", DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("NewCache = %T, want *MemoryCache", c)
	}
}

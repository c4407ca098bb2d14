// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const getSetting = `SELECT key, value, updated_at FROM app_settings WHERE key = ?`

func (q *Queries) GetSetting(ctx context.Context, key string) (AppSetting, error) {
	var s AppSetting
	err := q.db.QueryRowContext(ctx, getSetting, key).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	return s, err
}

const upsertSetting = `INSERT INTO app_settings (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (q *Queries) UpsertSetting(ctx context.Context, key, value string, now time.Time) error {
	_, err := q.db.ExecContext(ctx, upsertSetting, key, value, now)
	return err
}

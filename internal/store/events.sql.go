// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const eventColumns = `id, level, category, message, user_id, metadata, ip_address, request_url, created_at`

const createEvent = `INSERT INTO events (
    level, category, message, user_id, metadata, ip_address, request_url, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

type CreateEventParams struct {
	Level      string
	Category   string
	Message    string
	UserID     sql.NullString
	Metadata   string
	IPAddress  string
	RequestURL string
	CreatedAt  time.Time
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.ExecContext(ctx, createEvent,
		arg.Level,
		arg.Category,
		arg.Message,
		arg.UserID,
		arg.Metadata,
		arg.IPAddress,
		arg.RequestURL,
		arg.CreatedAt,
	)
	return err
}

const listRecentEvents = `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC, id DESC LIMIT ?`

func (q *Queries) ListRecentEvents(ctx context.Context, limit int64) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listRecentEvents, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.ID,
			&e.Level,
			&e.Category,
			&e.Message,
			&e.UserID,
			&e.Metadata,
			&e.IPAddress,
			&e.RequestURL,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const deleteEventsBefore = `DELETE FROM events WHERE created_at < ?`

// DeleteEventsBefore purges audit entries older than cutoff.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEventsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

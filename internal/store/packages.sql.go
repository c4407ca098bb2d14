// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/viajexmundo/agencia/internal/model"
)

const packageColumns = `id, package_code, slug, name, destination, duration_days,
    base_price, offer_price, is_offer, offer_label, currency, summary, description,
    cover_image_url, gallery, includes, excludes, itinerary, status,
    created_by_id, created_at, updated_at`

// Listings put offers first, newest first.
const packageOrder = ` ORDER BY is_offer DESC, created_at DESC`

func scanPackage(row interface{ Scan(...any) error }) (Package, error) {
	var p Package
	err := row.Scan(
		&p.ID,
		&p.PackageCode,
		&p.Slug,
		&p.Name,
		&p.Destination,
		&p.DurationDays,
		&p.BasePrice,
		&p.OfferPrice,
		&p.IsOffer,
		&p.OfferLabel,
		&p.Currency,
		&p.Summary,
		&p.Description,
		&p.CoverImageURL,
		&p.Gallery,
		&p.Includes,
		&p.Excludes,
		&p.Itinerary,
		&p.Status,
		&p.CreatedByID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (q *Queries) queryPackages(ctx context.Context, query string, args ...any) ([]Package, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listPackagesByStatus = `SELECT ` + packageColumns + ` FROM packages WHERE status = ?` + packageOrder

func (q *Queries) ListPackagesByStatus(ctx context.Context, status model.PackageStatus) ([]Package, error) {
	return q.queryPackages(ctx, listPackagesByStatus, status)
}

const listAllPackages = `SELECT ` + packageColumns + ` FROM packages` + packageOrder

func (q *Queries) ListAllPackages(ctx context.Context) ([]Package, error) {
	return q.queryPackages(ctx, listAllPackages)
}

const getPublishedPackageBySlug = `SELECT ` + packageColumns + ` FROM packages
WHERE slug = ? AND status = 'PUBLISHED'`

func (q *Queries) GetPublishedPackageBySlug(ctx context.Context, slug string) (Package, error) {
	return scanPackage(q.db.QueryRowContext(ctx, getPublishedPackageBySlug, slug))
}

const getPackageByID = `SELECT ` + packageColumns + ` FROM packages WHERE id = ?`

func (q *Queries) GetPackageByID(ctx context.Context, id string) (Package, error) {
	return scanPackage(q.db.QueryRowContext(ctx, getPackageByID, id))
}

const getPackageByCode = `SELECT ` + packageColumns + ` FROM packages WHERE package_code = ?`

func (q *Queries) GetPackageByCode(ctx context.Context, code string) (Package, error) {
	return scanPackage(q.db.QueryRowContext(ctx, getPackageByCode, code))
}

const createPackage = `INSERT INTO packages (
    id, package_code, slug, name, destination, duration_days, base_price,
    offer_price, is_offer, offer_label, currency, summary, description,
    cover_image_url, gallery, includes, excludes, itinerary, status,
    created_by_id, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + packageColumns

type CreatePackageParams struct {
	ID            string
	PackageCode   string
	Slug          string
	Name          string
	Destination   string
	DurationDays  int64
	BasePrice     int64
	OfferPrice    sql.NullInt64
	IsOffer       bool
	OfferLabel    sql.NullString
	Currency      string
	Summary       string
	Description   string
	CoverImageURL string
	Gallery       model.StringList
	Includes      model.StringList
	Excludes      model.StringList
	Itinerary     model.Itinerary
	Status        model.PackageStatus
	CreatedByID   sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q *Queries) CreatePackage(ctx context.Context, arg CreatePackageParams) (Package, error) {
	return scanPackage(q.db.QueryRowContext(ctx, createPackage,
		arg.ID,
		arg.PackageCode,
		arg.Slug,
		arg.Name,
		arg.Destination,
		arg.DurationDays,
		arg.BasePrice,
		arg.OfferPrice,
		arg.IsOffer,
		arg.OfferLabel,
		arg.Currency,
		arg.Summary,
		arg.Description,
		arg.CoverImageURL,
		arg.Gallery,
		arg.Includes,
		arg.Excludes,
		arg.Itinerary,
		arg.Status,
		arg.CreatedByID,
		arg.CreatedAt,
		arg.UpdatedAt,
	))
}

const updatePackage = `UPDATE packages SET
    package_code = ?, slug = ?, name = ?, destination = ?, duration_days = ?,
    base_price = ?, offer_price = ?, is_offer = ?, offer_label = ?, currency = ?,
    summary = ?, description = ?, cover_image_url = ?, gallery = ?, includes = ?,
    excludes = ?, itinerary = ?, status = ?, updated_at = ?
WHERE id = ?
RETURNING ` + packageColumns

type UpdatePackageParams struct {
	PackageCode   string
	Slug          string
	Name          string
	Destination   string
	DurationDays  int64
	BasePrice     int64
	OfferPrice    sql.NullInt64
	IsOffer       bool
	OfferLabel    sql.NullString
	Currency      string
	Summary       string
	Description   string
	CoverImageURL string
	Gallery       model.StringList
	Includes      model.StringList
	Excludes      model.StringList
	Itinerary     model.Itinerary
	Status        model.PackageStatus
	UpdatedAt     time.Time
	ID            string
}

func (q *Queries) UpdatePackage(ctx context.Context, arg UpdatePackageParams) (Package, error) {
	return scanPackage(q.db.QueryRowContext(ctx, updatePackage,
		arg.PackageCode,
		arg.Slug,
		arg.Name,
		arg.Destination,
		arg.DurationDays,
		arg.BasePrice,
		arg.OfferPrice,
		arg.IsOffer,
		arg.OfferLabel,
		arg.Currency,
		arg.Summary,
		arg.Description,
		arg.CoverImageURL,
		arg.Gallery,
		arg.Includes,
		arg.Excludes,
		arg.Itinerary,
		arg.Status,
		arg.UpdatedAt,
		arg.ID,
	))
}

const updatePackageStatus = `UPDATE packages SET status = ?, updated_at = ? WHERE id = ?
RETURNING ` + packageColumns

func (q *Queries) UpdatePackageStatus(ctx context.Context, id string, status model.PackageStatus, now time.Time) (Package, error) {
	return scanPackage(q.db.QueryRowContext(ctx, updatePackageStatus, status, now, id))
}

const deletePackage = `DELETE FROM packages WHERE id = ? RETURNING ` + packageColumns

// DeletePackage removes the package and returns the deleted row.
func (q *Queries) DeletePackage(ctx context.Context, id string) (Package, error) {
	return scanPackage(q.db.QueryRowContext(ctx, deletePackage, id))
}

const countPackagesByStatus = `SELECT status, COUNT(*) FROM packages GROUP BY status`

// CountPackagesByStatus returns the number of packages per status.
func (q *Queries) CountPackagesByStatus(ctx context.Context) (map[model.PackageStatus]int64, error) {
	rows, err := q.db.QueryContext(ctx, countPackagesByStatus)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	counts := make(map[model.PackageStatus]int64, len(model.ValidStatuses))
	for rows.Next() {
		var status model.PackageStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

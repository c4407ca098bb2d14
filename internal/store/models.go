// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"

	"github.com/viajexmundo/agencia/internal/model"
)

// User is a staff account.
type User struct {
	ID                  string       `json:"id"`
	Email               string       `json:"email"`
	PasswordHash        string       `json:"-"`
	FullName            string       `json:"fullName"`
	Role                model.Role   `json:"role"`
	IsActive            bool         `json:"isActive"`
	CanManagePackages   bool         `json:"canManagePackages"`
	CanManageCSV        bool         `json:"canManageCsv"`
	CanManageUsers      bool         `json:"canManageUsers"`
	FailedLoginAttempts int64        `json:"-"`
	LockedUntil         sql.NullTime `json:"-"`
	LastLoginAt         sql.NullTime `json:"-"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// IsAdmin reports whether the user has the ADMIN role.
func (u User) IsAdmin() bool {
	return u.Role == model.RoleAdmin
}

// Package is a sellable travel package.
type Package struct {
	ID            string              `json:"id"`
	PackageCode   string              `json:"packageCode"`
	Slug          string              `json:"slug"`
	Name          string              `json:"name"`
	Destination   string              `json:"destination"`
	DurationDays  int64               `json:"durationDays"`
	BasePrice     int64               `json:"basePrice"`
	OfferPrice    sql.NullInt64       `json:"-"`
	IsOffer       bool                `json:"isOffer"`
	OfferLabel    sql.NullString      `json:"-"`
	Currency      string              `json:"currency"`
	Summary       string              `json:"summary"`
	Description   string              `json:"description"`
	CoverImageURL string              `json:"coverImageUrl"`
	Gallery       model.StringList    `json:"gallery"`
	Includes      model.StringList    `json:"includes"`
	Excludes      model.StringList    `json:"excludes"`
	Itinerary     model.Itinerary     `json:"itinerary"`
	Status        model.PackageStatus `json:"status"`
	CreatedByID   sql.NullString      `json:"-"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// EffectivePrice returns the offer price when on offer, else the base price.
func (p Package) EffectivePrice() int64 {
	var offer *int64
	if p.OfferPrice.Valid {
		offer = &p.OfferPrice.Int64
	}
	return model.EffectivePrice(p.BasePrice, p.IsOffer, offer)
}

// AppSetting is a key/value application setting.
type AppSetting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Event is an audit log entry.
type Event struct {
	ID         int64          `json:"id"`
	Level      string         `json:"level"`
	Category   string         `json:"category"`
	Message    string         `json:"message"`
	UserID     sql.NullString `json:"-"`
	Metadata   string         `json:"metadata"`
	IPAddress  string         `json:"ipAddress"`
	RequestURL string         `json:"requestUrl"`
	CreatedAt  time.Time      `json:"createdAt"`
}

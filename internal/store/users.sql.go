// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/viajexmundo/agencia/internal/model"
)

const userColumns = `id, email, password_hash, full_name, role, is_active,
    can_manage_packages, can_manage_csv, can_manage_users,
    failed_login_attempts, locked_until, last_login_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Role,
		&u.IsActive,
		&u.CanManagePackages,
		&u.CanManageCSV,
		&u.CanManageUsers,
		&u.FailedLoginAttempts,
		&u.LockedUntil,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const listUsers = `SELECT ` + userColumns + ` FROM users ORDER BY role, email`

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countUsers = `SELECT COUNT(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&count)
	return count, err
}

const createUser = `INSERT INTO users (
    id, email, password_hash, full_name, role, is_active,
    can_manage_packages, can_manage_csv, can_manage_users, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + userColumns

type CreateUserParams struct {
	ID                string
	Email             string
	PasswordHash      string
	FullName          string
	Role              model.Role
	IsActive          bool
	CanManagePackages bool
	CanManageCSV      bool
	CanManageUsers    bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, createUser,
		arg.ID,
		arg.Email,
		arg.PasswordHash,
		arg.FullName,
		arg.Role,
		arg.IsActive,
		arg.CanManagePackages,
		arg.CanManageCSV,
		arg.CanManageUsers,
		arg.CreatedAt,
		arg.UpdatedAt,
	))
}

const updateUserCredentials = `UPDATE users
SET password_hash = ?, full_name = ?, role = ?, can_manage_packages = ?, updated_at = ?
WHERE id = ?
RETURNING ` + userColumns

type UpdateUserCredentialsParams struct {
	PasswordHash      string
	FullName          string
	Role              model.Role
	CanManagePackages bool
	UpdatedAt         time.Time
	ID                string
}

func (q *Queries) UpdateUserCredentials(ctx context.Context, arg UpdateUserCredentialsParams) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, updateUserCredentials,
		arg.PasswordHash,
		arg.FullName,
		arg.Role,
		arg.CanManagePackages,
		arg.UpdatedAt,
		arg.ID,
	))
}

const updateUserAccess = `UPDATE users
SET role = ?, can_manage_packages = ?, updated_at = ?
WHERE id = ?
RETURNING ` + userColumns

type UpdateUserAccessParams struct {
	Role              model.Role
	CanManagePackages bool
	UpdatedAt         time.Time
	ID                string
}

func (q *Queries) UpdateUserAccess(ctx context.Context, arg UpdateUserAccessParams) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, updateUserAccess,
		arg.Role,
		arg.CanManagePackages,
		arg.UpdatedAt,
		arg.ID,
	))
}

const updateUserPasswordHash = `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

func (q *Queries) UpdateUserPasswordHash(ctx context.Context, id, hash string, now time.Time) error {
	_, err := q.db.ExecContext(ctx, updateUserPasswordHash, hash, now, id)
	return err
}

const recordFailedLogin = `UPDATE users
SET failed_login_attempts = failed_login_attempts + 1, locked_until = ?
WHERE id = ?`

// RecordFailedLogin bumps the failure counter and sets the lock deadline
// (null clears it).
func (q *Queries) RecordFailedLogin(ctx context.Context, id string, lockedUntil sql.NullTime) error {
	_, err := q.db.ExecContext(ctx, recordFailedLogin, lockedUntil, id)
	return err
}

const recordSuccessfulLogin = `UPDATE users
SET failed_login_attempts = 0, locked_until = NULL, last_login_at = ?
WHERE id = ?`

func (q *Queries) RecordSuccessfulLogin(ctx context.Context, id string, now time.Time) error {
	_, err := q.db.ExecContext(ctx, recordSuccessfulLogin, now, id)
	return err
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application
// including roles, travel packages, itineraries and the landing variant setting.
package model

import "strings"

// Role is a staff user role.
type Role string

// User roles.
const (
	RoleAdmin     Role = "ADMIN"
	RoleEditor    Role = "EDITOR"
	RoleCotizador Role = "COTIZADOR"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []Role{RoleAdmin, RoleEditor, RoleCotizador}

// ParseRole returns the role matching s exactly, or false when unknown.
func ParseRole(s string) (Role, bool) {
	for _, r := range ValidRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// NormalizeEmail lower-cases and trims an email for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

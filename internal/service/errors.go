// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"

	"github.com/viajexmundo/agencia/internal/validation"
)

var (
	// ErrNotFound is returned when the addressed package or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSettingsUnavailable is returned when the settings table is missing.
	ErrSettingsUnavailable = errors.New("la tabla de configuracion no existe, ejecuta las migraciones")

	// ErrMissingCSV is returned when a CSV import is submitted without a file.
	ErrMissingCSV = &ValidationError{Message: msgMissingCSV}
)

// ValidationError is returned when submitted data fails validation.
// Nothing has been written when it is returned.
type ValidationError struct {
	Message string
	Issues  []validation.Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return e.Message
	}
	return e.Message + ": " + validation.Join(e.Issues, 0)
}

// Validation messages, as shown to staff.
const (
	msgInvalidCreatePackage = "Datos invalidos al crear paquete"
	msgInvalidUpdatePackage = "Datos invalidos al actualizar paquete"
	msgInvalidStatus        = "Estado de paquete invalido"
	msgInvalidCreateUser    = "Datos invalidos para crear usuario"
	msgInvalidUpdateAccess  = "Datos invalidos para actualizar permisos"
	msgInvalidLanding       = "Variante de landing invalida"
	msgInvalidQuote         = "Datos invalidos para la cotizacion"
	msgMissingCSV           = "Debes seleccionar un archivo CSV"
	msgInvalidLead          = "Completa tu nombre, fecha tentativa y numero de personas"
)

func invalid(message string, issues []validation.Issue) *ValidationError {
	return &ValidationError{Message: message, Issues: issues}
}

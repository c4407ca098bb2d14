// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestNullInt64FromPtr(t *testing.T) {
	tests := []struct {
		name     string
		input    *int64
		expected sql.NullInt64
	}{
		{"nil pointer", nil, sql.NullInt64{}},
		{"positive value", ptr(int64(5990)), sql.NullInt64{Int64: 5990, Valid: true}},
		{"zero value", ptr(int64(0)), sql.NullInt64{Int64: 0, Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NullInt64FromPtr(tt.input); got != tt.expected {
				t.Errorf("NullInt64FromPtr() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestInt64PtrFromNull(t *testing.T) {
	if got := Int64PtrFromNull(sql.NullInt64{}); got != nil {
		t.Errorf("Int64PtrFromNull(invalid) = %v, want nil", *got)
	}
	got := Int64PtrFromNull(sql.NullInt64{Int64: 42, Valid: true})
	if got == nil || *got != 42 {
		t.Errorf("Int64PtrFromNull(42) = %v, want 42", got)
	}
}

func TestNullStringFromValue(t *testing.T) {
	if got := NullStringFromValue(""); got.Valid {
		t.Error("empty string should produce invalid NullString")
	}
	if got := NullStringFromValue("Cupo limitado"); !got.Valid || got.String != "Cupo limitado" {
		t.Errorf("NullStringFromValue() = %+v", got)
	}
}

func TestNullStringRoundTrip(t *testing.T) {
	label := "Oferta de temporada"
	n := NullStringFromPtr(&label)
	back := StringPtrFromNull(n)
	if back == nil || *back != label {
		t.Errorf("round trip = %v, want %q", back, label)
	}
	if StringPtrFromNull(NullStringFromPtr(nil)) != nil {
		t.Error("nil should round trip to nil")
	}
}

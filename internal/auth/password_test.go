// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestCheckPassword_Argon2(t *testing.T) {
	hash, err := HashPassword("Admin12345")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("Admin12345", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Fatal("correct password was rejected")
	}

	valid, err = CheckPassword("wrongpassword", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if valid {
		t.Fatal("wrong password was accepted")
	}

	if NeedsRehash(hash) {
		t.Error("fresh hash reported as needing rehash")
	}
}

func TestCheckPassword_LegacyBcrypt(t *testing.T) {
	raw, err := bcrypt.GenerateFromPassword([]byte("Viaja2026"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	hash := string(raw)

	if !IsBcryptHash(hash) {
		t.Fatalf("IsBcryptHash(%q) = false", hash)
	}

	valid, err := CheckPassword("Viaja2026", hash)
	if err != nil || !valid {
		t.Fatalf("CheckPassword = %v, %v; want true, nil", valid, err)
	}

	valid, err = CheckPassword("nope", hash)
	if err != nil || valid {
		t.Fatalf("CheckPassword(wrong) = %v, %v; want false, nil", valid, err)
	}

	if !NeedsRehash(hash) {
		t.Error("bcrypt hash should need rehash")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	if _, err := CheckPassword("x", "not-a-hash"); err == nil {
		t.Error("expected error for malformed hash")
	}
}

func TestNeedsRehash_StaleParameters(t *testing.T) {
	stale := argon2Hash{
		params: argon2Params{memory: 64 * 1024, time: 3, threads: 2},
		salt:   []byte("0123456789abcdef"),
		key:    []byte("0123456789abcdef0123456789abcdef"),
	}.String()

	if !NeedsRehash(stale) {
		t.Error("hash with old parameters should need rehash")
	}

	parsed, err := parseArgon2Hash(stale)
	if err != nil {
		t.Fatalf("parseArgon2Hash: %v", err)
	}
	if parsed.params.memory != 64*1024 || parsed.params.time != 3 || parsed.params.threads != 2 {
		t.Errorf("params = %+v", parsed.params)
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password hashing and the access-control rules that
// decide which staff capabilities a signed-in user holds.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted for staff accounts.
const MinPasswordLength = 8

// argon2Params are the Argon2id cost parameters encoded into every hash.
type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
}

// currentParams follow the OWASP second recommendation: m=19 MiB, t=2, p=1.
var currentParams = argon2Params{memory: 19 * 1024, time: 2, threads: 1}

const (
	argon2KeyLen  = 32
	argon2SaltLen = 16
)

var errMalformedHash = errors.New("malformed password hash")

// argon2Hash is a decoded "$argon2id$v=19$m=..,t=..,p=..$salt$key" string.
type argon2Hash struct {
	params argon2Params
	salt   []byte
	key    []byte
}

func (h argon2Hash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.memory, h.params.time, h.params.threads,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.key))
}

func parseArgon2Hash(encoded string) (argon2Hash, error) {
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" {
		return argon2Hash{}, errMalformedHash
	}
	if fields[1] != "argon2id" {
		return argon2Hash{}, fmt.Errorf("unsupported hash type %q", fields[1])
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return argon2Hash{}, fmt.Errorf("%w: version %q", errMalformedHash, fields[2])
	}

	var h argon2Hash
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &h.params.memory, &h.params.time, &h.params.threads); err != nil {
		return argon2Hash{}, fmt.Errorf("%w: parameters: %v", errMalformedHash, err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return argon2Hash{}, fmt.Errorf("%w: salt: %v", errMalformedHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil {
		return argon2Hash{}, fmt.Errorf("%w: key: %v", errMalformedHash, err)
	}
	return h, nil
}

// HashPassword creates an Argon2id hash of password with the current
// parameters and a random salt.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	p := currentParams
	return argon2Hash{
		params: p,
		salt:   salt,
		key:    argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, argon2KeyLen),
	}.String(), nil
}

// IsBcryptHash reports whether encodedHash was produced by bcrypt. Accounts
// imported from the previous system carry bcrypt hashes until their next login.
func IsBcryptHash(encodedHash string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encodedHash, prefix) {
			return true
		}
	}
	return false
}

// CheckPassword verifies a password against an Argon2id or legacy bcrypt
// hash. A mismatch is (false, nil); an unreadable hash is an error.
func CheckPassword(password, encodedHash string) (bool, error) {
	if IsBcryptHash(encodedHash) {
		err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		case err != nil:
			return false, fmt.Errorf("verifying bcrypt hash: %w", err)
		}
		return true, nil
	}

	h, err := parseArgon2Hash(encodedHash)
	if err != nil {
		return false, err
	}
	key := argon2.IDKey([]byte(password), h.salt, h.params.time, h.params.memory, h.params.threads, uint32(len(h.key)))
	return subtle.ConstantTimeCompare(key, h.key) == 1, nil
}

// NeedsRehash reports whether encodedHash should be replaced on the next
// successful login: bcrypt hashes and Argon2id hashes with stale parameters.
func NeedsRehash(encodedHash string) bool {
	h, err := parseArgon2Hash(encodedHash)
	return err != nil || h.params != currentParams
}

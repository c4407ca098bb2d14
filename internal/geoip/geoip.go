// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves visitor IPs to countries with a MaxMind
// GeoLite2-Country database. Lookups degrade to "" when no database is loaded.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// Local is returned for private and loopback addresses.
const Local = "LOCAL"

var privateCIDRs = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"fc00::/7",  // IPv6 unique local
	"fe80::/10", // IPv6 link-local
)

func mustParseCIDRs(blocks ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(blocks))
	for _, block := range blocks {
		_, cidr, err := net.ParseCIDR(block)
		if err != nil {
			panic(err)
		}
		nets = append(nets, cidr)
	}
	return nets
}

// Locator looks up the country of an IP address.
type Locator struct {
	mu      sync.RWMutex
	db      *maxminddb.Reader
	path    string
	modTime time.Time
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Open creates a Locator backed by the database at path. An empty path
// yields a Locator that only recognizes local addresses.
func Open(path string) (*Locator, error) {
	l := &Locator{path: path}
	if path == "" {
		return l, nil
	}
	if err := l.load(); err != nil {
		return l, err
	}
	return l, nil
}

// load opens the database unless the file is unchanged. Caller must hold mu
// or own l exclusively.
func (l *Locator) load() error {
	info, err := os.Stat(l.path)
	if err != nil {
		return fmt.Errorf("GeoIP database %s: %w", l.path, err)
	}
	if l.db != nil && info.ModTime().Equal(l.modTime) {
		return nil
	}

	db, err := maxminddb.Open(l.path)
	if err != nil {
		return fmt.Errorf("opening GeoIP database: %w", err)
	}
	if l.db != nil {
		_ = l.db.Close()
	}
	l.db = db
	l.modTime = info.ModTime()
	return nil
}

// Reload reopens the database if the file changed on disk.
func (l *Locator) Reload() error {
	if l.path == "" {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// Enabled reports whether a database is loaded.
func (l *Locator) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db != nil
}

// Country returns the ISO country code of ip, Local for private and
// loopback addresses, or "" when unknown.
func (l *Locator) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if parsed.IsLoopback() || isPrivate(parsed) {
		return Local
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.db == nil {
		return ""
	}
	var record countryRecord
	if err := l.db.Lookup(parsed, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// Close releases the database.
func (l *Locator) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

func isPrivate(ip net.IP) bool {
	for _, cidr := range privateCIDRs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}

// CountryName returns the Spanish name of the agency's usual source
// markets, or the code itself.
func CountryName(code string) string {
	switch code {
	case "":
		return "Desconocido"
	case Local:
		return "Red local"
	}
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}

var countryNames = map[string]string{
	"GT": "Guatemala",
	"SV": "El Salvador",
	"HN": "Honduras",
	"NI": "Nicaragua",
	"CR": "Costa Rica",
	"PA": "Panama",
	"BZ": "Belice",
	"MX": "Mexico",
	"US": "Estados Unidos",
	"CA": "Canada",
	"CO": "Colombia",
	"ES": "Espana",
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/cache"
	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/store"
	"github.com/viajexmundo/agencia/internal/testutil"
)

type fixture struct {
	db        *sql.DB
	pages     *cache.PageCache
	events    *EventService
	packages  *PackageService
	users     *UserService
	landing   *LandingService
	quotes    *QuoteService
	admin     store.User
	editor    store.User
	viewer    store.User
	cotizador store.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = mem.Close() })

	logger := testutil.TestLogger()
	resolver := auth.NewResolver(store.New(db))
	pages := cache.NewPageCache(mem, time.Minute, logger)
	events := NewEventService(db, logger)

	return &fixture{
		db:        db,
		pages:     pages,
		events:    events,
		packages:  NewPackageService(db, resolver, pages, events, logger),
		users:     NewUserService(db, resolver, events, logger),
		landing:   NewLandingService(db, resolver, pages, events, logger),
		quotes:    NewQuoteService(db, resolver, testAgency()),
		admin:     testutil.CreateUser(t, db, "admin@agencia.com", model.RoleAdmin, false),
		editor:    testutil.CreateUser(t, db, "editor@agencia.com", model.RoleEditor, true),
		viewer:    testutil.CreateUser(t, db, "viewer@agencia.com", model.RoleEditor, false),
		cotizador: testutil.CreateUser(t, db, "cotiza@agencia.com", model.RoleCotizador, true),
	}
}

func testAgency() Agency {
	return Agency{
		Name:           "Agencia de Viajes",
		LogoURL:        "/logo-agencia.png",
		WhatsAppNumber: "+502 3014-9000",
		SiteURL:        "https://tu-dominio.com/",
	}
}

func identityOf(u store.User) auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, IsActive: true}
}

func validForm() PackageForm {
	return PackageForm{
		PackageCode:  "PKG-100",
		Name:         "Petén Mágico",
		Destination:  "Petén",
		DurationDays: "3",
		BasePrice:    "2590",
		IsOffer:      "false",
		Summary:      "Tikal y la isla de Flores",
		Description:  "Recorrido guiado por Tikal con hospedaje en Flores.",
		Includes:     "Transporte\nHotel\n\n",
		Excludes:     "Propinas",
		Itinerary:    "Llegada|Check-in en Flores\n|\nTikal|Tour | guiado",
		Status:       string(model.StatusPublished),
	}
}

func mustCreate(t *testing.T, f *fixture, form PackageForm) store.Package {
	t.Helper()
	pkg, err := f.packages.Create(context.Background(), identityOf(f.admin), form)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return pkg
}

func countPackages(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	var n int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM packages`).Scan(&n); err != nil {
		t.Fatalf("counting packages: %v", err)
	}
	return n
}

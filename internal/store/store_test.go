// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/viajexmundo/agencia/internal/model"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "agencia-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

func createTestUser(t *testing.T, q *Queries, email string, role model.Role) User {
	t.Helper()
	now := time.Now()
	user, err := q.CreateUser(context.Background(), CreateUserParams{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "hashed-password",
		FullName:     "Test User",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func testPackageParams(code, name string) CreatePackageParams {
	now := time.Now()
	return CreatePackageParams{
		ID:            uuid.NewString(),
		PackageCode:   code,
		Slug:          model.PackageInput{Name: name}.Slug(),
		Name:          name,
		Destination:   "Roatan",
		DurationDays:  5,
		BasePrice:     6990,
		Currency:      model.CurrencyGTQ,
		Summary:       "Resumen del paquete",
		Description:   "Descripcion del paquete",
		CoverImageURL: model.DefaultCoverImage,
		Gallery:       model.StringList{},
		Includes:      model.StringList{"Hotel"},
		Excludes:      model.StringList{"Propinas"},
		Itinerary:     model.Itinerary{{Day: 1, Title: "Llegada", Description: "Check-in"}},
		Status:        model.StatusPublished,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestCreateUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	user := createTestUser(t, q, "test@example.com", model.RoleEditor)

	if user.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "test@example.com")
	}
	if user.Role != model.RoleEditor {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleEditor)
	}
	if !user.IsActive {
		t.Error("IsActive = false, want true")
	}
	if user.CanManagePackages {
		t.Error("CanManagePackages = true, want false")
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	_, err := New(db).GetUserByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestGetUserByID(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	created := createTestUser(t, q, "byid@example.com", model.RoleCotizador)

	got, err := q.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Email != created.Email || got.Role != model.RoleCotizador {
		t.Errorf("got %+v, want %+v", got, created)
	}
}

func TestUpdateUserAccess(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	created := createTestUser(t, q, "editor@example.com", model.RoleEditor)

	updated, err := q.UpdateUserAccess(ctx, UpdateUserAccessParams{
		Role:              model.RoleEditor,
		CanManagePackages: true,
		UpdatedAt:         time.Now(),
		ID:                created.ID,
	})
	if err != nil {
		t.Fatalf("UpdateUserAccess: %v", err)
	}
	if !updated.CanManagePackages {
		t.Error("CanManagePackages = false, want true")
	}

	_, err = q.UpdateUserAccess(ctx, UpdateUserAccessParams{Role: model.RoleEditor, UpdatedAt: time.Now(), ID: "missing-id"})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("missing user err = %v, want sql.ErrNoRows", err)
	}
}

func TestListUsers_OrderedByRoleThenEmail(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	createTestUser(t, q, "zeta@example.com", model.RoleEditor)
	createTestUser(t, q, "beta@example.com", model.RoleAdmin)
	createTestUser(t, q, "alfa@example.com", model.RoleEditor)

	users, err := q.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	want := []string{"beta@example.com", "alfa@example.com", "zeta@example.com"}
	if len(users) != len(want) {
		t.Fatalf("len(users) = %d, want %d", len(users), len(want))
	}
	for i, u := range users {
		if u.Email != want[i] {
			t.Errorf("users[%d] = %q, want %q", i, u.Email, want[i])
		}
	}
}

func TestLoginCounters(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	user := createTestUser(t, q, "locked@example.com", model.RoleEditor)

	lock := sql.NullTime{Time: time.Now().Add(time.Minute), Valid: true}
	if err := q.RecordFailedLogin(ctx, user.ID, lock); err != nil {
		t.Fatalf("RecordFailedLogin: %v", err)
	}
	got, _ := q.GetUserByID(ctx, user.ID)
	if got.FailedLoginAttempts != 1 || !got.LockedUntil.Valid {
		t.Errorf("after failure: attempts=%d locked=%v", got.FailedLoginAttempts, got.LockedUntil.Valid)
	}

	if err := q.RecordSuccessfulLogin(ctx, user.ID, time.Now()); err != nil {
		t.Fatalf("RecordSuccessfulLogin: %v", err)
	}
	got, _ = q.GetUserByID(ctx, user.ID)
	if got.FailedLoginAttempts != 0 || got.LockedUntil.Valid || !got.LastLoginAt.Valid {
		t.Errorf("after success: %+v", got)
	}
}

func TestPackageCRUD(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	params := testPackageParams("PKG-100", "Roatan Escape 5D4N")
	params.IsOffer = true
	params.OfferPrice = sql.NullInt64{Int64: 5990, Valid: true}
	params.OfferLabel = sql.NullString{String: "Oferta", Valid: true}
	created, err := q.CreatePackage(ctx, params)
	if err != nil {
		t.Fatalf("CreatePackage: %v", err)
	}
	if created.Slug != "roatan-escape-5d4n" {
		t.Errorf("Slug = %q", created.Slug)
	}
	if !created.OfferPrice.Valid || created.OfferPrice.Int64 != 5990 {
		t.Errorf("OfferPrice = %+v", created.OfferPrice)
	}
	if len(created.Itinerary) != 1 || created.Itinerary[0].Title != "Llegada" {
		t.Errorf("Itinerary = %+v", created.Itinerary)
	}

	byCode, err := q.GetPackageByCode(ctx, "PKG-100")
	if err != nil || byCode.ID != created.ID {
		t.Fatalf("GetPackageByCode = %+v, %v", byCode, err)
	}

	bySlug, err := q.GetPublishedPackageBySlug(ctx, "roatan-escape-5d4n")
	if err != nil || bySlug.ID != created.ID {
		t.Fatalf("GetPublishedPackageBySlug = %+v, %v", bySlug, err)
	}

	if _, err := q.UpdatePackageStatus(ctx, created.ID, model.StatusDraft, time.Now()); err != nil {
		t.Fatalf("UpdatePackageStatus: %v", err)
	}
	if _, err := q.GetPublishedPackageBySlug(ctx, "roatan-escape-5d4n"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("draft package visible by slug: %v", err)
	}

	deleted, err := q.DeletePackage(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeletePackage: %v", err)
	}
	if deleted.Slug != created.Slug {
		t.Errorf("deleted slug = %q", deleted.Slug)
	}
	if _, err := q.DeletePackage(ctx, created.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("second delete err = %v, want sql.ErrNoRows", err)
	}
}

func TestCreatePackage_DuplicateSlug(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	if _, err := q.CreatePackage(ctx, testPackageParams("PKG-1", "Same Name")); err != nil {
		t.Fatalf("CreatePackage: %v", err)
	}
	_, err := q.CreatePackage(ctx, testPackageParams("PKG-2", "Same Name"))
	if !IsUniqueViolation(err) {
		t.Errorf("err = %v, want unique violation", err)
	}
}

func TestListPackagesByStatus_OffersFirst(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	plain := testPackageParams("PKG-A", "Plain Package")
	offer := testPackageParams("PKG-B", "Offer Package")
	offer.IsOffer = true
	offer.OfferPrice = sql.NullInt64{Int64: 100, Valid: true}
	draft := testPackageParams("PKG-C", "Draft Package")
	draft.Status = model.StatusDraft

	for _, p := range []CreatePackageParams{plain, offer, draft} {
		if _, err := q.CreatePackage(ctx, p); err != nil {
			t.Fatalf("CreatePackage: %v", err)
		}
	}

	published, err := q.ListPackagesByStatus(ctx, model.StatusPublished)
	if err != nil {
		t.Fatalf("ListPackagesByStatus: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("len(published) = %d, want 2", len(published))
	}
	if published[0].PackageCode != "PKG-B" {
		t.Errorf("first = %q, want offer PKG-B", published[0].PackageCode)
	}

	all, err := q.ListAllPackages(ctx)
	if err != nil {
		t.Fatalf("ListAllPackages: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}

	counts, err := q.CountPackagesByStatus(ctx)
	if err != nil {
		t.Fatalf("CountPackagesByStatus: %v", err)
	}
	if counts[model.StatusPublished] != 2 || counts[model.StatusDraft] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestSettings(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	if _, err := q.GetSetting(ctx, model.LandingVariantKey); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("unset setting err = %v", err)
	}
	if err := q.UpsertSetting(ctx, model.LandingVariantKey, "cooitza", time.Now()); err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}
	if err := q.UpsertSetting(ctx, model.LandingVariantKey, "default", time.Now()); err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}
	s, err := q.GetSetting(ctx, model.LandingVariantKey)
	if err != nil || s.Value != "default" {
		t.Errorf("GetSetting = %+v, %v", s, err)
	}
}

func TestSettings_MissingTable(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	if _, err := db.Exec("DROP TABLE app_settings"); err != nil {
		t.Fatalf("dropping table: %v", err)
	}
	_, err := New(db).GetSetting(context.Background(), model.LandingVariantKey)
	if !IsMissingTable(err) {
		t.Errorf("err = %v, want missing table", err)
	}
}

func TestEvents(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	old := time.Now().Add(-48 * time.Hour)
	for _, at := range []time.Time{old, time.Now()} {
		if err := q.CreateEvent(ctx, CreateEventParams{
			Level:     model.EventLevelWarning,
			Category:  model.EventCategoryAuth,
			Message:   "access denied",
			Metadata:  "{}",
			CreatedAt: at,
		}); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	n, err := q.DeleteEventsBefore(ctx, time.Now().Add(-24*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("DeleteEventsBefore = %d, %v", n, err)
	}
	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil || len(events) != 1 {
		t.Fatalf("ListRecentEvents = %d, %v", len(events), err)
	}
}

func TestSeed(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	admin := SeedAdmin{Email: "Admin@Agencia.com", PasswordHash: "hash"}
	if err := Seed(ctx, db, admin); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := Seed(ctx, db, admin); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	q := New(db)
	user, err := q.GetUserByEmail(ctx, "admin@agencia.com")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if !user.IsAdmin() || !user.CanManagePackages {
		t.Errorf("admin = %+v", user)
	}

	published, err := q.ListPackagesByStatus(ctx, model.StatusPublished)
	if err != nil {
		t.Fatalf("ListPackagesByStatus: %v", err)
	}
	if len(published) != 3 {
		t.Fatalf("len(published) = %d, want 3", len(published))
	}

	roatan, err := q.GetPackageByCode(ctx, "PKG-001")
	if err != nil {
		t.Fatalf("GetPackageByCode: %v", err)
	}
	if roatan.EffectivePrice() != 5990 {
		t.Errorf("EffectivePrice = %d, want 5990", roatan.EffectivePrice())
	}
	if len(roatan.Itinerary) != 5 || roatan.Itinerary[4].Day != 5 {
		t.Errorf("itinerary = %+v", roatan.Itinerary)
	}
	antigua, _ := q.GetPackageByCode(ctx, "PKG-002")
	if antigua.OfferPrice.Valid || antigua.OfferLabel.Valid {
		t.Errorf("non-offer package kept offer fields: %+v", antigua)
	}
}

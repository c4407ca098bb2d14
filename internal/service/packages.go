// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/cache"
	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/store"
	"github.com/viajexmundo/agencia/internal/transfer"
	"github.com/viajexmundo/agencia/internal/util"
)

// PackageService implements the package mutations, imports and exports.
type PackageService struct {
	queries *store.Queries
	access  *auth.Resolver
	pages   *cache.PageCache
	events  *EventService
	logger  *slog.Logger
	now     func() time.Time
}

// NewPackageService creates a new PackageService.
// pages and events may be nil.
func NewPackageService(db *sql.DB, access *auth.Resolver, pages *cache.PageCache, events *EventService, logger *slog.Logger) *PackageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PackageService{
		queries: store.New(db),
		access:  access,
		pages:   pages,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// ImportResult reports how many rows an import wrote.
type ImportResult struct {
	Imported int                 `json:"imported"`
	Status   model.PackageStatus `json:"status,omitempty"`
}

// Dashboard is the admin package overview.
type Dashboard struct {
	Packages []store.Package               `json:"packages"`
	Counts   map[model.PackageStatus]int64 `json:"counts"`
}

// ListPublished returns the public catalog, offers first then newest.
func (s *PackageService) ListPublished(ctx context.Context) ([]store.Package, error) {
	packages, err := s.queries.ListPackagesByStatus(ctx, model.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("listing published packages: %w", err)
	}
	return packages, nil
}

// GetPublishedBySlug returns a published package or ErrNotFound.
func (s *PackageService) GetPublishedBySlug(ctx context.Context, slug string) (store.Package, error) {
	pkg, err := s.queries.GetPublishedPackageBySlug(ctx, slug)
	if err != nil {
		return store.Package{}, notFound(err, "loading package")
	}
	return pkg, nil
}

// Dashboard lists every package for staff who can manage packages.
func (s *PackageService) Dashboard(ctx context.Context, id auth.Identity) (Dashboard, error) {
	if _, err := s.access.Require(ctx, id, auth.CapManagePackages); err != nil {
		return Dashboard{}, err
	}
	packages, err := s.queries.ListAllPackages(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("listing packages: %w", err)
	}
	counts, err := s.queries.CountPackagesByStatus(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("counting packages: %w", err)
	}
	return Dashboard{Packages: packages, Counts: counts}, nil
}

// Get returns any package by id for staff who can manage packages.
func (s *PackageService) Get(ctx context.Context, id auth.Identity, packageID string) (store.Package, error) {
	if _, err := s.access.Require(ctx, id, auth.CapManagePackages); err != nil {
		return store.Package{}, err
	}
	pkg, err := s.queries.GetPackageByID(ctx, packageID)
	if err != nil {
		return store.Package{}, notFound(err, "loading package")
	}
	return pkg, nil
}

// Create validates form and inserts a new package owned by the caller.
func (s *PackageService) Create(ctx context.Context, id auth.Identity, form PackageForm) (store.Package, error) {
	user, err := s.access.Require(ctx, id, auth.CapManagePackages)
	if err != nil {
		return store.Package{}, err
	}
	in, issues := form.Input()
	if len(issues) > 0 {
		return store.Package{}, invalid(msgInvalidCreatePackage, issues)
	}

	pkg, err := s.insert(ctx, user.ID, in)
	if err != nil {
		return store.Package{}, err
	}

	s.invalidate(ctx, pkg.Slug)
	s.audit(ctx, user.ID, "package created", map[string]any{"package_code": pkg.PackageCode})
	return pkg, nil
}

// Update validates form and overwrites the package with packageID.
// The slug is recomputed from the new name.
func (s *PackageService) Update(ctx context.Context, id auth.Identity, packageID string, form PackageForm) (store.Package, error) {
	user, err := s.access.Require(ctx, id, auth.CapManagePackages)
	if err != nil {
		return store.Package{}, err
	}
	in, issues := form.Input()
	if len(issues) > 0 {
		return store.Package{}, invalid(msgInvalidUpdatePackage, issues)
	}

	existing, err := s.queries.GetPackageByID(ctx, packageID)
	if err != nil {
		return store.Package{}, notFound(err, "loading package")
	}

	pkg, err := s.update(ctx, existing.ID, in)
	if err != nil {
		return store.Package{}, err
	}

	s.invalidate(ctx, existing.Slug, pkg.Slug)
	s.audit(ctx, user.ID, "package updated", map[string]any{"package_code": pkg.PackageCode})
	return pkg, nil
}

// ToggleStatus moves a package to next.
func (s *PackageService) ToggleStatus(ctx context.Context, id auth.Identity, packageID, next string) (store.Package, error) {
	user, err := s.access.Require(ctx, id, auth.CapManagePackages)
	if err != nil {
		return store.Package{}, err
	}
	status := model.PackageStatus(strings.TrimSpace(next))
	if !status.Valid() {
		return store.Package{}, invalid(msgInvalidStatus, nil)
	}

	pkg, err := s.queries.UpdatePackageStatus(ctx, packageID, status, s.now())
	if err != nil {
		return store.Package{}, notFound(err, "updating package status")
	}

	s.invalidate(ctx, pkg.Slug)
	s.audit(ctx, user.ID, "package status changed", map[string]any{
		"package_code": pkg.PackageCode,
		"status":       status,
	})
	return pkg, nil
}

// Delete removes the package with packageID.
func (s *PackageService) Delete(ctx context.Context, id auth.Identity, packageID string) error {
	user, err := s.access.Require(ctx, id, auth.CapManagePackages)
	if err != nil {
		return err
	}
	pkg, err := s.queries.DeletePackage(ctx, packageID)
	if err != nil {
		return notFound(err, "deleting package")
	}

	s.invalidate(ctx, pkg.Slug)
	s.audit(ctx, user.ID, "package deleted", map[string]any{"package_code": pkg.PackageCode})
	return nil
}

// ImportCSV upserts every usable row of a CSV export by package code.
// Rows keep their own status. Rows are written one by one; a failing row
// stops the import and leaves earlier rows in place.
func (s *PackageService) ImportCSV(ctx context.Context, id auth.Identity, file io.Reader) (ImportResult, error) {
	user, err := s.access.Require(ctx, id, auth.CapManageCSV)
	if err != nil {
		return ImportResult{}, err
	}
	if file == nil {
		return ImportResult{}, ErrMissingCSV
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return ImportResult{}, fmt.Errorf("reading csv upload: %w", err)
	}
	inputs, err := transfer.ParsePackagesCSV(string(data))
	if err != nil {
		return ImportResult{}, err
	}
	return s.importAll(ctx, user, "csv", inputs)
}

// ImportJSON validates a pasted JSON payload and upserts every package by
// code as DRAFT. Any invalid element rejects the whole payload before
// anything is written.
func (s *PackageService) ImportJSON(ctx context.Context, id auth.Identity, data []byte) (ImportResult, error) {
	user, err := s.access.Require(ctx, id, auth.CapManageCSV)
	if err != nil {
		return ImportResult{}, err
	}

	records, err := transfer.DecodeJSONImport(data)
	if err != nil {
		return ImportResult{}, err
	}
	inputs := make([]model.PackageInput, len(records))
	for i, rec := range records {
		inputs[i] = rec.Input()
	}

	result, err := s.importAll(ctx, user, "json", inputs)
	result.Status = model.StatusDraft
	return result, err
}

// ExportCSV renders the published catalog as CSV for any signed-in user.
// It returns the attachment filename and the document.
func (s *PackageService) ExportCSV(ctx context.Context, id auth.Identity) (string, string, error) {
	if _, err := s.access.ResolveCurrentUser(ctx, id); err != nil {
		return "", "", err
	}
	packages, err := s.queries.ListPackagesByStatus(ctx, model.StatusPublished)
	if err != nil {
		return "", "", fmt.Errorf("listing published packages: %w", err)
	}
	return transfer.ExportFilename(s.now().Format(time.DateOnly)), transfer.BuildPackagesCSV(packages), nil
}

func (s *PackageService) importAll(ctx context.Context, user store.User, source string, inputs []model.PackageInput) (ImportResult, error) {
	var result ImportResult
	slugs := make([]string, 0, len(inputs))
	for _, in := range inputs {
		pkg, err := s.upsert(ctx, user.ID, in)
		if err != nil {
			s.logger.Warn("import stopped",
				"source", source,
				"package_code", in.PackageCode,
				"imported", result.Imported,
				"error", err,
			)
			s.invalidate(ctx, slugs...)
			return result, err
		}
		slugs = append(slugs, pkg.Slug)
		result.Imported++
	}

	s.invalidate(ctx, slugs...)
	if s.events != nil {
		_ = s.events.Log(ctx, Event{
			Category: model.EventCategoryImport,
			Message:  "packages imported",
			UserID:   user.ID,
			Metadata: map[string]any{"source": source, "imported": result.Imported},
		})
	}
	return result, nil
}

// upsert updates the package with the same code or inserts a new one.
func (s *PackageService) upsert(ctx context.Context, userID string, in model.PackageInput) (store.Package, error) {
	existing, err := s.queries.GetPackageByCode(ctx, in.PackageCode)
	switch {
	case err == nil:
		return s.update(ctx, existing.ID, in)
	case errors.Is(err, sql.ErrNoRows):
		return s.insert(ctx, userID, in)
	default:
		return store.Package{}, fmt.Errorf("looking up package %s: %w", in.PackageCode, err)
	}
}

func (s *PackageService) insert(ctx context.Context, userID string, in model.PackageInput) (store.Package, error) {
	in.Normalize()
	now := s.now()
	pkg, err := s.queries.CreatePackage(ctx, store.CreatePackageParams{
		ID:            uuid.NewString(),
		PackageCode:   in.PackageCode,
		Slug:          in.Slug(),
		Name:          in.Name,
		Destination:   in.Destination,
		DurationDays:  in.DurationDays,
		BasePrice:     in.BasePrice,
		OfferPrice:    util.NullInt64FromPtr(in.OfferPrice),
		IsOffer:       in.IsOffer,
		OfferLabel:    util.NullStringFromPtr(in.OfferLabel),
		Currency:      model.CurrencyGTQ,
		Summary:       in.Summary,
		Description:   in.Description,
		CoverImageURL: in.CoverImageURL,
		Gallery:       in.Gallery,
		Includes:      in.Includes,
		Excludes:      in.Excludes,
		Itinerary:     in.Itinerary,
		Status:        in.Status,
		CreatedByID:   sql.NullString{String: userID, Valid: userID != ""},
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return store.Package{}, fmt.Errorf("creating package %s: %w", in.PackageCode, err)
	}
	return pkg, nil
}

func (s *PackageService) update(ctx context.Context, packageID string, in model.PackageInput) (store.Package, error) {
	in.Normalize()
	pkg, err := s.queries.UpdatePackage(ctx, store.UpdatePackageParams{
		PackageCode:   in.PackageCode,
		Slug:          in.Slug(),
		Name:          in.Name,
		Destination:   in.Destination,
		DurationDays:  in.DurationDays,
		BasePrice:     in.BasePrice,
		OfferPrice:    util.NullInt64FromPtr(in.OfferPrice),
		IsOffer:       in.IsOffer,
		OfferLabel:    util.NullStringFromPtr(in.OfferLabel),
		Currency:      model.CurrencyGTQ,
		Summary:       in.Summary,
		Description:   in.Description,
		CoverImageURL: in.CoverImageURL,
		Gallery:       in.Gallery,
		Includes:      in.Includes,
		Excludes:      in.Excludes,
		Itinerary:     in.Itinerary,
		Status:        in.Status,
		UpdatedAt:     s.now(),
		ID:            packageID,
	})
	if err != nil {
		return store.Package{}, notFound(err, "updating package "+in.PackageCode)
	}
	return pkg, nil
}

func (s *PackageService) invalidate(ctx context.Context, slugs ...string) {
	if s.pages != nil {
		s.pages.InvalidateCatalog(ctx, slugs...)
	}
}

func (s *PackageService) audit(ctx context.Context, userID, message string, metadata map[string]any) {
	if s.events != nil {
		_ = s.events.LogInfo(ctx, model.EventCategoryPackage, message, userID, metadata)
	}
}

// notFound maps sql.ErrNoRows to ErrNotFound and wraps anything else.
func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/viajexmundo/agencia/internal/model"
	"github.com/viajexmundo/agencia/internal/util"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@agencia.com"
	DefaultAdminPassword = "Admin12345"
	DefaultAdminName     = "Administrador Principal"
)

// SeedAdmin describes the administrator account created by Seed.
// PasswordHash must already be hashed by the caller.
type SeedAdmin struct {
	Email        string
	PasswordHash string
	FullName     string
}

// Seed creates the administrator and the sample catalog. Existing rows are
// left untouched so it is safe to run on every start.
func Seed(ctx context.Context, db *sql.DB, admin SeedAdmin) error {
	queries := New(db)
	now := time.Now()

	email := model.NormalizeEmail(admin.Email)
	if email == "" {
		email = DefaultAdminEmail
	}
	name := admin.FullName
	if name == "" {
		name = DefaultAdminName
	}

	adminID := ""
	existing, err := queries.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		slog.Info("admin user already exists, skipping", "email", email)
		adminID = existing.ID
	case errors.Is(err, sql.ErrNoRows):
		user, err := queries.CreateUser(ctx, CreateUserParams{
			ID:                uuid.NewString(),
			Email:             email,
			PasswordHash:      admin.PasswordHash,
			FullName:          name,
			Role:              model.RoleAdmin,
			IsActive:          true,
			CanManagePackages: true,
			CanManageCSV:      true,
			CanManageUsers:    true,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if err != nil {
			return fmt.Errorf("creating admin user: %w", err)
		}
		slog.Info("created default admin user", "id", user.ID, "email", user.Email)
		adminID = user.ID
	default:
		return fmt.Errorf("checking for admin user: %w", err)
	}

	created := 0
	err = InTx(ctx, db, func(q *Queries) error {
		for _, in := range SamplePackages() {
			if _, err := q.GetPackageByCode(ctx, in.PackageCode); err == nil {
				continue
			} else if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("checking package %s: %w", in.PackageCode, err)
			}
			in.Normalize()
			_, err := q.CreatePackage(ctx, CreatePackageParams{
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
				CreatedByID:   util.NullStringFromValue(adminID),
				CreatedAt:     now,
				UpdatedAt:     now,
			})
			if err != nil {
				return fmt.Errorf("creating package %s: %w", in.PackageCode, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return err
	}

	if created > 0 {
		slog.Info("seeded sample packages", "count", created)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

// SamplePackages returns the published demo catalog.
func SamplePackages() []model.PackageInput {
	return []model.PackageInput{
		{
			PackageCode:   "PKG-001",
			Name:          "Roatan Escape 5D4N",
			Destination:   "Roatan",
			DurationDays:  5,
			BasePrice:     6990,
			OfferPrice:    ptr(int64(5990)),
			IsOffer:       true,
			OfferLabel:    ptr("Oferta de temporada"),
			Summary:       "Playa caribena, hotel todo incluido y actividades guiadas para desconectar.",
			Description:   "Un paquete completo para disfrutar mar, gastronomia y actividades en Roatan.",
			CoverImageURL: "https://images.unsplash.com/photo-1552074284-5e88ef1aef18?auto=format&fit=crop&w=1600&q=80",
			Gallery: model.StringList{
				"https://images.unsplash.com/photo-1519046904884-53103b34b206?auto=format&fit=crop&w=1200&q=80",
				"https://images.unsplash.com/photo-1528127269322-539801943592?auto=format&fit=crop&w=1200&q=80",
			},
			Includes: model.StringList{
				"Vuelo redondo desde Ciudad de Guatemala",
				"4 noches en hotel 4 estrellas",
				"Desayunos y cenas",
				"Traslados aeropuerto-hotel-aeropuerto",
			},
			Excludes: model.StringList{"Gastos personales", "Propinas", "Seguro de viaje"},
			Itinerary: model.Itinerary{
				{Title: "Llegada y check-in", Description: "Recepcion en aeropuerto, traslado al hotel y tarde libre para playa."},
				{Title: "Tour marino", Description: "Salida en lancha con snorkel y tiempo libre en playa."},
				{Title: "Dia libre", Description: "Recomendaciones de actividades opcionales y descanso en resort."},
				{Title: "Experiencia local", Description: "Visita a zona comercial y cena especial de despedida."},
				{Title: "Regreso", Description: "Check-out y traslado al aeropuerto."},
			},
			Status: model.StatusPublished,
		},
		{
			PackageCode:   "PKG-002",
			Name:          "Antigua Cultural 3D2N",
			Destination:   "Antigua Guatemala",
			DurationDays:  3,
			BasePrice:     2490,
			Summary:       "Historia, arquitectura y gastronomia local con guia profesional.",
			Description:   "Ideal para viajeros que buscan una escapada cultural corta y bien organizada.",
			CoverImageURL: "https://images.unsplash.com/photo-1505765050516-f72dcac9c60e?auto=format&fit=crop&w=1600&q=80",
			Gallery: model.StringList{
				"https://images.unsplash.com/photo-1565967511849-76a60a516170?auto=format&fit=crop&w=1200&q=80",
				"https://images.unsplash.com/photo-1473116763249-2faaef81ccda?auto=format&fit=crop&w=1200&q=80",
			},
			Includes: model.StringList{
				"2 noches de hospedaje boutique",
				"Transporte interno",
				"Entradas a museos",
				"Guia certificado",
			},
			Excludes: model.StringList{"Almuerzos", "Seguro de viaje"},
			Itinerary: model.Itinerary{
				{Title: "Llegada y centro historico", Description: "Check-in y recorrido por calles coloniales."},
				{Title: "Ruta cultural", Description: "Museos, templos y experiencia gastronomica."},
				{Title: "Salida", Description: "Traslado y cierre de itinerario."},
			},
			Status: model.StatusPublished,
		},
		{
			PackageCode:   "PKG-003",
			Name:          "Atitlan Nature 4D3N",
			Destination:   "Lago de Atitlan",
			DurationDays:  4,
			BasePrice:     3290,
			OfferPrice:    ptr(int64(2890)),
			IsOffer:       true,
			OfferLabel:    ptr("Cupo limitado"),
			Summary:       "Naturaleza, pueblos del lago y experiencias autenticas.",
			Description:   "Escapada con enfoque en paisajes y cultura local alrededor del lago.",
			CoverImageURL: "https://images.unsplash.com/photo-1600891964092-4316c288032e?auto=format&fit=crop&w=1600&q=80",
			Gallery: model.StringList{
				"https://images.unsplash.com/photo-1537047902294-62a40c20a6ae?auto=format&fit=crop&w=1200&q=80",
				"https://images.unsplash.com/photo-1559847844-5315695dadae?auto=format&fit=crop&w=1200&q=80",
			},
			Includes: model.StringList{
				"3 noches de hospedaje",
				"Tour en lancha",
				"Desayunos",
				"Traslados internos",
			},
			Excludes: model.StringList{"Vuelos", "Propinas", "Actividades opcionales"},
			Itinerary: model.Itinerary{
				{Title: "Llegada", Description: "Check-in y vista panoramica del lago."},
				{Title: "Pueblos del lago", Description: "Recorrido por pueblos y mercados locales."},
				{Title: "Naturaleza", Description: "Caminata guiada y tarde libre."},
				{Title: "Salida", Description: "Regreso a Ciudad de Guatemala."},
			},
			Status: model.StatusPublished,
		},
	}
}

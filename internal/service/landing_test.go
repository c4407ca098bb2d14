// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viajexmundo/agencia/internal/auth"
	"github.com/viajexmundo/agencia/internal/cache"
	"github.com/viajexmundo/agencia/internal/model"
)

func TestLandingVariant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, model.LandingDefault, f.landing.Active(ctx))

	f.pages.Put(ctx, cache.HomePath, &cache.Page{Status: 200})
	variant, err := f.landing.SetVariant(ctx, identityOf(f.editor), "cooitza")
	require.NoError(t, err)
	assert.Equal(t, model.LandingCooitza, variant)
	assert.Equal(t, model.LandingCooitza, f.landing.Active(ctx))

	_, cached := f.pages.Get(ctx, cache.HomePath)
	assert.False(t, cached, "home page should be invalidated")

	_, err = f.landing.SetVariant(ctx, identityOf(f.admin), "neon")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, model.LandingCooitza, f.landing.Active(ctx))
}

func TestLandingVariant_UnknownStoredValue(t *testing.T) {
	f := newFixture(t)
	_, err := f.db.Exec(`INSERT INTO app_settings (key, value, updated_at) VALUES ('landingVariant', 'retro', CURRENT_TIMESTAMP)`)
	require.NoError(t, err)
	assert.Equal(t, model.LandingDefault, f.landing.Active(context.Background()))
}

func TestLandingVariant_Access(t *testing.T) {
	f := newFixture(t)
	for _, id := range []auth.Identity{identityOf(f.viewer), identityOf(f.cotizador)} {
		_, err := f.landing.SetVariant(context.Background(), id, "cooitza")
		assert.ErrorIs(t, err, auth.ErrForbidden)
	}
}

func TestLandingVariant_MissingTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.db.Exec(`DROP TABLE app_settings`)
	require.NoError(t, err)

	assert.Equal(t, model.LandingDefault, f.landing.Active(ctx))

	_, err = f.landing.SetVariant(ctx, identityOf(f.admin), "cooitza")
	assert.ErrorIs(t, err, ErrSettingsUnavailable)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/viajexmundo/agencia/internal/cache"
	"github.com/viajexmundo/agencia/internal/middleware"
)

// RouterConfig holds everything NewRouter mounts.
type RouterConfig struct {
	Sessions        *scs.SessionManager
	LoginProtection *middleware.LoginProtection
	Pages           *cache.PageCache
	CSRF            middleware.CSRFConfig
	Security        middleware.SecurityHeadersConfig
	RequestTimeout  time.Duration
	RequestLogging  bool

	Public       *PublicHandler
	Auth         *AuthHandler
	Admin        *AdminHandler
	ImportExport *ImportExportHandler
	Users        *UsersHandler
	Landing      *LandingHandler
	Quotes       *QuotesHandler
	Events       *EventsHandler
	Health       *HealthHandler
	SEO          *SEOHandler
}

// NewRouter builds the application router: the cached public catalog, the
// WhatsApp lead endpoint and the session-protected /admin back-office.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.RequestLogging {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.RedirectSlashes)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.SecurityHeaders(cfg.Security))

	r.Get(RouteHealth, cfg.Health.Health)

	// Public catalog
	r.Group(func(r chi.Router) {
		r.Use(middleware.PageCache(cfg.Pages))
		r.Get(RouteHome, cfg.Public.Home)
		r.Get(RouteCatalog, cfg.Public.Catalog)
		r.Get(RoutePackageDetail, cfg.Public.Detail)
		r.Get(RouteSitemap, cfg.SEO.Sitemap)
	})
	r.Get(RouteRobots, cfg.SEO.Robots)
	r.Post(RoutePackageLead, cfg.Public.Lead)

	// Back-office
	r.Group(func(r chi.Router) {
		r.Use(cfg.Sessions.LoadAndSave)
		r.Use(middleware.CSRF(cfg.CSRF))
		r.Use(middleware.LoadIdentity(cfg.Sessions))

		r.Get(RouteLogin, cfg.Auth.LoginForm)
		r.With(cfg.LoginProtection.Middleware()).Post(RouteLogin, cfg.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)

			r.Post(RouteLogout, cfg.Auth.Logout)

			r.Get(RouteAdmin, cfg.Admin.Dashboard)
			r.Post(RouteAdminPackages, cfg.Admin.Create)
			r.Get(RouteAdminPackage, cfg.Admin.Package)
			r.Post(RouteAdminPackage, cfg.Admin.Update)
			r.Post(RouteAdminPackageState, cfg.Admin.ToggleStatus)
			r.Post(RouteAdminPackageDel, cfg.Admin.Delete)
			r.Post(RouteCacheClear, cfg.Admin.ClearCache)

			r.Get(RouteCSV, cfg.ImportExport.Overview)
			r.Post(RouteCSV, cfg.ImportExport.ImportCSV)
			r.Get(RouteCSVExport, cfg.ImportExport.Export)
			r.Post(RouteJSONImport, cfg.ImportExport.ImportJSON)

			r.Get(RouteUsers, cfg.Users.List)
			r.Post(RouteUsers, cfg.Users.Create)
			r.Post(RouteUserAccess, cfg.Users.UpdateAccess)

			r.Get(RouteLanding, cfg.Landing.Show)
			r.Post(RouteLanding, cfg.Landing.Update)

			r.Get(RouteQuotes, cfg.Quotes.Packages)
			r.Post(RouteQuotes, cfg.Quotes.Build)

			r.Get(RouteEvents, cfg.Events.List)
		})
	})

	return r
}

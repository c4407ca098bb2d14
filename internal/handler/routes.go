// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Public routes.
const (
	RouteHome          = "/"
	RouteCatalog       = "/paquetes"
	RoutePackageDetail = "/paquetes/{slug}"
	RoutePackageLead   = "/paquetes/{slug}/whatsapp"
	RouteHealth        = "/health"
	RouteSitemap       = "/sitemap.xml"
	RouteRobots        = "/robots.txt"
)

// Admin routes.
const (
	RouteAdmin             = "/admin"
	RouteLogin             = "/admin/login"
	RouteLogout            = "/admin/logout"
	RouteAdminPackages     = "/admin/paquetes"
	RouteAdminPackage      = "/admin/paquetes/{id}"
	RouteAdminPackageState = "/admin/paquetes/{id}/status"
	RouteAdminPackageDel   = "/admin/paquetes/{id}/delete"
	RouteCSV               = "/admin/csv"
	RouteCSVExport         = "/admin/csv/export"
	RouteJSONImport        = "/admin/json"
	RouteUsers             = "/admin/usuarios"
	RouteUserAccess        = "/admin/usuarios/access"
	RouteLanding           = "/admin/landing"
	RouteQuotes            = "/admin/cotizador"
	RouteEvents            = "/admin/eventos"
	RouteCacheClear        = "/admin/cache/clear"
)

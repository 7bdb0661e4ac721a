// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/salonkeeper/internal/middleware"
)

// Router wires the handlers into a chi router.
type Router struct {
	handler    *Handler
	middleware *ChiMiddleware
}

// NewRouter creates a new router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, middleware: mw}
}

// Setup builds the http.Handler for the whole server.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())
	r.Use(APISecurityHeaders())
	r.Use(middleware.PrometheusMetrics)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())

		r.Get("/health", h.HandleHealth)

		r.Route("/backup", func(r chi.Router) {
			r.With(router.middleware.RateLimitCustom(RateLimitHeavy)).Post("/create", h.HandleCreateBackup)
			r.Get("/validate", h.HandleValidateBackup)
			r.Post("/validate", h.HandleValidateBackup)
			r.With(router.middleware.RateLimitCustom(RateLimitHeavy)).Post("/restore", h.HandleRestoreBackup)
		})

		r.With(middleware.Compression).Get("/backups", h.HandleListBackups)
		r.With(router.middleware.RateLimitCustom(RateLimitHeavy)).Post("/backups/prune", h.HandlePruneBackups)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil, nil)
	})

	return r
}

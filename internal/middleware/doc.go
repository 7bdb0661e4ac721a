// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: request and correlation IDs in the response header and the
    logging context
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by
    chi route pattern
  - Compression: gzip for JSON routes (klauspost/compress)

All three have the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.With(middleware.Compression).Get("/api/backups", h.ListBackups)
*/
package middleware

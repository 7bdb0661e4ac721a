// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/salonkeeper/internal/logging"
	"github.com/tomtom215/salonkeeper/internal/models"
)

// HandleHealth reports liveness. The status is "restarting" once a restore
// has replaced the live store, and "degraded" when the store does not answer.
// GET /api/health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !checkHTTPMethod(w, r, http.MethodGet) {
		return
	}

	resp := &models.HealthResponse{
		Status:         "healthy",
		Version:        h.version,
		Uptime:         time.Since(h.startTime).Seconds(),
		RestartPending: h.backups.RestartPending(),
	}

	if resp.RestartPending {
		resp.Status = "restarting"
	} else if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check: database ping failed")
			resp.Status = "degraded"
		} else {
			resp.DatabaseOK = true
		}
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}

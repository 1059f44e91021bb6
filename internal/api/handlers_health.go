// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package api

import (
	"context"
	"net/http"

	"github.com/pldashboard/api/internal/logging"
	"github.com/pldashboard/api/internal/middleware"
)

// Health is the liveness check. It never touches the database.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether a pooled connection can run the check query. A
// cold pool is initialized on the way, bounded by the ready timeout.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "DB not ready")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.readyTimeout)
	defer cancel()

	if err := h.ready.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		middleware.WriteError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "DB not ready")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

// Metrics serves the Prometheus exposition.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.metrics == nil {
		notFound(w, r)
		return
	}
	h.metrics.ServeHTTP(w, r)
}

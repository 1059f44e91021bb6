// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pldashboard/api/internal/database"
	"github.com/pldashboard/api/internal/validation"
)

type listFunc func(ctx context.Context) ([]database.Row, error)

type listByIDFunc func(ctx context.Context, id string) ([]database.Row, error)

type oneByIDFunc func(ctx context.Context, id string) (database.Row, error)

// list serves a route returning every row of one query. Data routes run on
// the request context; pool initialization keeps its own retry budget.
func (h *Handler) list(fn listFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := fn(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

// listByID serves a route filtered by the named path parameter.
func (h *Handler) listByID(param string, fn listByIDFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, param)
		if verr := validation.ValidatePathParam(param, id); verr != nil {
			respondError(w, r, verr)
			return
		}

		rows, err := fn(r.Context(), id)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

// oneByID serves a route returning a single object. No row is a 404.
func (h *Handler) oneByID(param string, fn oneByIDFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, param)
		if verr := validation.ValidatePathParam(param, id); verr != nil {
			respondError(w, r, verr)
			return
		}

		row, err := fn(r.Context(), id)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, row)
	}
}

// UpcomingGameweek serves the gameweek of the next unplayed fixture.
func (h *Handler) UpcomingGameweek(w http.ResponseWriter, r *http.Request) {
	row, err := h.store.UpcomingGameweek(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, row)
}

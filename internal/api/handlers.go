// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/pldashboard/api/internal/database"
	"github.com/pldashboard/api/internal/middleware"
)

// DataStore is the read side the data routes query. *database.Repository
// implements it.
type DataStore interface {
	Standings(ctx context.Context) ([]database.Row, error)
	WeeklyTable(ctx context.Context) ([]database.Row, error)
	Players(ctx context.Context) ([]database.Row, error)
	PlayersByID(ctx context.Context, playerID string) ([]database.Row, error)
	PlayersByTeam(ctx context.Context, teamID string) ([]database.Row, error)
	Teams(ctx context.Context) ([]database.Row, error)
	TeamsByID(ctx context.Context, teamID string) ([]database.Row, error)
	Fixtures(ctx context.Context) ([]database.Row, error)
	FixturesByID(ctx context.Context, fixtureID string) ([]database.Row, error)
	CompletedFixtures(ctx context.Context) ([]database.Row, error)
	CompletedByID(ctx context.Context, matchID string) ([]database.Row, error)
	CompletedByTeam(ctx context.Context, teamID string) ([]database.Row, error)
	MatchReport(ctx context.Context, matchID string) (database.Row, error)
	UpcomingFixtures(ctx context.Context) ([]database.Row, error)
	UpcomingByID(ctx context.Context, fixtureID string) ([]database.Row, error)
	UpcomingGameweek(ctx context.Context) (database.Row, error)
}

// Pinger reports database readiness. *database.Manager implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DefaultReadyTimeout bounds a /readyz check when none is configured.
const DefaultReadyTimeout = 5 * time.Second

// HandlerDeps groups the Handler's collaborators.
type HandlerDeps struct {
	Store   DataStore
	Ready   Pinger
	Metrics http.Handler
	Geo     middleware.GeoLookuper

	// ReadyTimeout bounds one /readyz check.
	ReadyTimeout time.Duration
}

// Handler serves the API routes.
type Handler struct {
	store        DataStore
	ready        Pinger
	metrics      http.Handler
	geo          middleware.GeoLookuper
	readyTimeout time.Duration
}

// NewHandler creates a Handler. A zero ReadyTimeout takes the default.
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		store:        deps.Store,
		ready:        deps.Ready,
		metrics:      deps.Metrics,
		geo:          deps.Geo,
		readyTimeout: deps.ReadyTimeout,
	}
	if h.readyTimeout <= 0 {
		h.readyTimeout = DefaultReadyTimeout
	}
	return h
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pldashboard/api/internal/middleware"
)

// RouterOptions toggles optional routes.
type RouterOptions struct {
	// DebugEndpoints mounts /debug/geo behind the auth gate.
	DebugEndpoints bool
}

// Router binds the handler, the request pipeline and the chi middleware.
type Router struct {
	handler       *Handler
	pipeline      *middleware.Pipeline
	chiMiddleware *ChiMiddleware
	opts          RouterOptions
}

// NewRouter creates a Router. A nil chiMiddleware takes the defaults.
func NewRouter(handler *Handler, pipeline *middleware.Pipeline, chiMiddleware *ChiMiddleware, opts RouterOptions) *Router {
	if chiMiddleware == nil {
		chiMiddleware = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		pipeline:      pipeline,
		chiMiddleware: chiMiddleware,
		opts:          opts,
	}
}

// SetupChi builds the route table.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	p := router.pipeline

	r := chi.NewRouter()

	// ========================
	// Request pipeline
	// ========================
	// Identity is outermost so every call, including 401s and panics, is
	// timed, counted, logged and tagged with X-Request-ID.
	r.Use(p.Identity)
	r.Use(middleware.SecurityHeaders)
	r.Use(p.Recover)
	r.Use(router.chiMiddleware.CORS()) // before auth so preflights are answered
	r.Use(chimiddleware.StripSlashes)
	r.Use(p.Auth)
	r.Use(p.Enrich)
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	// ========================
	// Health and metrics
	// ========================
	r.Get("/health", h.Health)
	r.Get("/readyz", h.Ready)
	r.Get("/metrics", h.Metrics)

	// ========================
	// Football data
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Get("/standings", h.list(h.store.Standings))
		r.Get("/weeklyTable", h.list(h.store.WeeklyTable))

		r.Get("/players", h.list(h.store.Players))
		r.Get("/playersById/{playerId}", h.listByID("playerId", h.store.PlayersByID))
		r.Get("/playersByTeam/{teamId}", h.listByID("teamId", h.store.PlayersByTeam))

		r.Get("/teams", h.list(h.store.Teams))
		r.Get("/teamsById/{teamId}", h.listByID("teamId", h.store.TeamsByID))

		r.Get("/fixtures", h.list(h.store.Fixtures))
		r.Get("/fixturesById/{fixtureId}", h.listByID("fixtureId", h.store.FixturesByID))

		r.Get("/completedFixtures", h.list(h.store.CompletedFixtures))
		r.Get("/completedGamebyId/{matchId}", h.listByID("matchId", h.store.CompletedByID))
		r.Get("/completedGamebyTeamId/{teamId}", h.listByID("teamId", h.store.CompletedByTeam))
		r.Get("/matchReport/{matchId}", h.oneByID("matchId", h.store.MatchReport))

		r.Get("/upcomingFixtures", h.list(h.store.UpcomingFixtures))
		r.Get("/upcomingFixturesbyID/{fixtureId}", h.listByID("fixtureId", h.store.UpcomingByID))
		r.Get("/upcomingGameweek", h.UpcomingGameweek)
	})

	// ========================
	// Debug
	// ========================
	if router.opts.DebugEndpoints {
		r.Get("/debug/geo", h.DebugGeo)
	}

	return r
}

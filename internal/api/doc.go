// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

/*
Package api serves the football data routes over a chi router.

Routes:

	GET /health                          liveness, always {"status":"ok"}
	GET /readyz                          database readiness, 200 or 503
	GET /metrics                         Prometheus text exposition
	GET /standings                       current table
	GET /weeklyTable                     standings per gameweek
	GET /players                         all players
	GET /playersById/{playerId}
	GET /playersByTeam/{teamId}
	GET /teams
	GET /teamsById/{teamId}
	GET /fixtures
	GET /fixturesById/{fixtureId}
	GET /completedFixtures
	GET /completedGamebyId/{matchId}
	GET /completedGamebyTeamId/{teamId}
	GET /matchReport/{matchId}           single object
	GET /upcomingFixtures                ordered by kickoff
	GET /upcomingFixturesbyID/{fixtureId}
	GET /upcomingGameweek                single object
	GET /debug/geo?ip=                   enrichment debug, optional

Every route runs inside the request pipeline from internal/middleware. List
routes return a JSON array of rows (possibly empty). Errors use the envelope
{"error": category, "message": text}; see respondError for the mapping.
*/
package api

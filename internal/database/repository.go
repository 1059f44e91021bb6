// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package database

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/pldashboard/api/internal/logging"
)

// ErrNotFound is returned by single-object queries with no matching row.
var ErrNotFound = errors.New("not found")

// Read-only queries over the tables maintained by the ETL jobs. Identifiers
// arrive as path strings, so comparisons are done on the text form.
const (
	queryStandings        = `SELECT * FROM standings`
	queryWeeklyTable      = `SELECT * FROM weeklystandings`
	queryPlayers          = `SELECT * FROM players`
	queryPlayerByID       = `SELECT * FROM players WHERE CAST(player_id AS TEXT) = $1`
	queryPlayersByTeam    = `SELECT * FROM players WHERE CAST(team_id AS TEXT) = $1`
	queryTeams            = `SELECT * FROM teams`
	queryTeamByID         = `SELECT * FROM teams WHERE CAST(id AS TEXT) = $1`
	queryFixtures         = `SELECT * FROM fixtures`
	queryFixtureByID      = `SELECT * FROM fixtures WHERE CAST(match_id AS TEXT) = $1`
	queryCompleted        = `SELECT * FROM completedfixtures`
	queryCompletedByID    = `SELECT * FROM completedfixtures WHERE CAST(match_id AS TEXT) = $1`
	queryCompletedByTeam  = `SELECT * FROM completedfixtures WHERE CAST(home_team_id AS TEXT) = $1 OR CAST(away_team_id AS TEXT) = $1`
	queryMatchReport      = `SELECT match_report FROM completedfixtures WHERE CAST(match_id AS TEXT) = $1`
	queryUpcoming         = `SELECT * FROM fixtures WHERE match_id NOT IN (SELECT match_id FROM completedfixtures) ORDER BY kickoff_time`
	queryUpcomingByID     = `SELECT * FROM fixtures WHERE CAST(match_id AS TEXT) = $1`
	queryUpcomingGameweek = `SELECT gameweek FROM fixtures WHERE match_id NOT IN (SELECT match_id FROM completedfixtures) ORDER BY kickoff_time LIMIT 1`
)

// Repository runs the football data queries on leased connections.
type Repository struct {
	db *Manager
}

// NewRepository creates a Repository over db.
func NewRepository(db *Manager) *Repository {
	return &Repository{db: db}
}

// list returns every row of query.
func (r *Repository) list(ctx context.Context, name, query string, args ...interface{}) ([]Row, error) {
	var rows []Row
	start := time.Now()
	err := r.db.WithConn(ctx, func(l *Lease) error {
		var qerr error
		rows, qerr = l.Query(ctx, query, args...)
		return qerr
	})
	logQuery(logging.Ctx(ctx), name, start, len(rows), err)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

// first returns the first row of query or ErrNotFound.
func (r *Repository) first(ctx context.Context, name, query string, args ...interface{}) (Row, error) {
	rows, err := r.list(ctx, name, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

func logQuery(log *zerolog.Logger, name string, start time.Time, rows int, err error) {
	ev := log.Debug()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("query", name).Int("rows", rows).Dur("duration", time.Since(start)).Msg("Query executed")
}

// Standings returns the current league table.
func (r *Repository) Standings(ctx context.Context) ([]Row, error) {
	return r.list(ctx, "standings", queryStandings)
}

// WeeklyTable returns the per-gameweek standings history.
func (r *Repository) WeeklyTable(ctx context.Context) ([]Row, error) {
	return r.list(ctx, "weekly_table", queryWeeklyTable)
}

// Players returns every player.
func (r *Repository) Players(ctx context.Context) ([]Row, error) {
	return r.list(ctx, "players", queryPlayers)
}

// PlayersByID returns the players matching playerID.
func (r *Repository) PlayersByID(ctx context.Context, playerID string) ([]Row, error) {
	return r.list(ctx, "players_by_id", queryPlayerByID, playerID)
}

// PlayersByTeam returns a team's squad.
func (r *Repository) PlayersByTeam(ctx context.Context, teamID string) ([]Row, error) {
	return r.list(ctx, "players_by_team", queryPlayersByTeam, teamID)
}

// Teams returns every team.
func (r *Repository) Teams(ctx context.Context) ([]Row, error) {
	return r.list(ctx, "teams", queryTeams)
}

// TeamsByID returns the teams matching teamID.
func (r *Repository) TeamsByID(ctx context.Context, teamID string) ([]Row, error) {
	return r.list(ctx, "teams_by_id", queryTeamByID, teamID)
}

// Fixtures returns the full season schedule.
func (r *Repository) Fixtures(ctx context.Context) ([]Row, error) {
	return r.list(ctx, "fixtures", queryFixtures)
}

// FixturesByID returns the fixtures matching fixtureID.
func (r *Repository) FixturesByID(ctx context.Context, fixtureID string) ([]Row, error) {
	return r.list(ctx, "fixtures_by_id", queryFixtureByID, fixtureID)
}

// CompletedFixtures returns every played match.
func (r *Repository) CompletedFixtures(ctx context.Context) ([]Row, error) {
	return r.list(ctx, "completed_fixtures", queryCompleted)
}

// CompletedByID returns the completed matches matching matchID.
func (r *Repository) CompletedByID(ctx context.Context, matchID string) ([]Row, error) {
	return r.list(ctx, "completed_by_id", queryCompletedByID, matchID)
}

// CompletedByTeam returns a team's completed matches, home or away.
func (r *Repository) CompletedByTeam(ctx context.Context, teamID string) ([]Row, error) {
	return r.list(ctx, "completed_by_team", queryCompletedByTeam, teamID)
}

// MatchReport returns the match_report column of one completed match.
func (r *Repository) MatchReport(ctx context.Context, matchID string) (Row, error) {
	return r.first(ctx, "match_report", queryMatchReport, matchID)
}

// UpcomingFixtures returns unplayed fixtures ordered by kickoff.
func (r *Repository) UpcomingFixtures(ctx context.Context) ([]Row, error) {
	return r.list(ctx, "upcoming_fixtures", queryUpcoming)
}

// UpcomingByID returns the fixtures matching fixtureID. A fixture that has
// since been played is still returned.
func (r *Repository) UpcomingByID(ctx context.Context, fixtureID string) ([]Row, error) {
	return r.list(ctx, "upcoming_by_id", queryUpcomingByID, fixtureID)
}

// UpcomingGameweek returns the gameweek of the next unplayed fixture.
func (r *Repository) UpcomingGameweek(ctx context.Context) (Row, error) {
	return r.first(ctx, "upcoming_gameweek", queryUpcomingGameweek)
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

/*
Package logging provides centralized zerolog-based logging for the API.

There are two output streams:

  - Diagnostics: the global logger configured by Init (JSON by default,
    console for local development). Use logging.Ctx(ctx) inside request
    handling so every line carries the request_id.
  - Visits: a VisitLogger writes exactly one "event":"visit" line per call,
    combining request identity, client enrichment and the final status.

# Quick Start

	logging.Init(logging.Config{Level: "info", Format: "json"})
	logging.Info().Msg("Server starting")
	logging.Ctx(r.Context()).Error().Err(err).Msg("Query failed")

# Configuration

Environment variables (read by the config package):
  - LOG_LEVEL: debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_JSON: false selects console output when LOG_FORMAT is unset
  - LOG_CALLER: include caller file and line

Libraries that require log/slog (sutureslog) are bridged with NewSlogLogger.
*/
package logging

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

/*
Package main is the entry point for the PL Dashboard API server.

The server exposes read-only football data (standings, teams, players,
fixtures, results and match reports) from a Postgres database as JSON, gated
by a shared API token, and records one analytics line per request with the
caller's approximate location and device class.

# Application Architecture

The server runs under a Suture v4 supervision tree:

	RootSupervisor ("pldashboard-api")
	├── DataSupervisor ("data-layer")
	│   ├── Pool warmup (one shot, DB_POOL_WARMUP)
	│   └── Pool stats publisher
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment
 2. Logging: zerolog with JSON/console output modes
 3. Metrics: a private Prometheus registry
 4. Database: lazily created pool behind database.Manager
 5. Geolocation: HTTP client, circuit breaker and TTL cache
 6. Request pipeline and Chi router
 7. Supervisor tree and HTTP server

# Configuration

Environment variables (highest priority) override config.yaml, which
overrides built-in defaults:

	PORT / HTTP_PORT       listen port (default 8000; HTTP_PORT wins)
	API_TOKEN              shared secret; empty rejects every protected call
	PUBLIC_PATHS           comma-separated paths exempt from the token check
	DB_DRIVER              postgres (default) or duckdb
	DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASS, DB_SSLMODE
	DB_POOL_MIN, DB_POOL_MAX, DB_POOL_INIT_ATTEMPTS, DB_POOL_INIT_BACKOFF
	DB_POOL_WARMUP         create the pool at startup instead of first use
	DUCKDB_PATH            DuckDB file for local development
	GEO_ENABLED, GEO_URL, GEO_TIMEOUT, GEO_CACHE_TTL
	CORS_ENABLED, CORS_ORIGINS
	RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
	LOG_LEVEL, LOG_FORMAT, LOG_JSON, LOG_CALLER
	DEBUG_ENDPOINTS        mount /debug/geo

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for up to SHUTDOWN_TIMEOUT, then the database pool is closed.

# Example Usage

Local development against a DuckDB copy of the tables:

	export DB_DRIVER=duckdb
	export DUCKDB_PATH=./pl.duckdb
	export API_TOKEN=dev-token
	export GEO_ENABLED=false
	export LOG_FORMAT=console
	./pldashboard-api

	curl -H 'X-API-Token: dev-token' localhost:8000/standings
*/
package main

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

/*
Package config loads and validates the service configuration.

Configuration is layered with koanf, later layers winning:

 1. Struct defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, then config.yaml / config.yml)
 3. Environment variables, through an explicit name-to-path map

Unknown environment variables are ignored. List values (PUBLIC_PATHS,
CORS_ORIGINS) accept comma-separated strings.

# Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	addr := cfg.Server.Addr()

GEO_TIMEOUT is fractional seconds and GEO_CACHE_TTL whole seconds; use
GeoConfig.Timeout and GeoConfig.CacheTTL for durations.
*/
package config

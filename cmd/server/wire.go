// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package main

import (
	"net/http"
	"time"

	"github.com/pldashboard/api/internal/config"
	"github.com/pldashboard/api/internal/database"
	"github.com/pldashboard/api/internal/geoip"
	"github.com/pldashboard/api/internal/metrics"
)

// newOpener selects the database backend.
func newOpener(cfg *config.DatabaseConfig) database.Opener {
	if cfg.Driver == config.DriverDuckDB {
		return database.NewDuckDBOpener(cfg)
	}
	return database.NewPostgresOpener(cfg)
}

// newEnricher builds client, breaker and cache. A disabled enricher never
// calls out and reports every lookup as a miss.
func newEnricher(cfg *config.GeoConfig, reg *metrics.Registry) *geoip.Enricher {
	ecfg := geoip.EnricherConfig{
		Enabled:  cfg.Enabled && cfg.URL != "",
		Timeout:  cfg.Timeout(),
		CacheTTL: cfg.CacheTTL(),
	}
	if !ecfg.Enabled {
		return geoip.NewEnricher(nil, ecfg, reg)
	}
	client := geoip.NewClient(cfg.URL, cfg.Timeout(), nil)
	return geoip.NewEnricher(geoip.NewBreakerLookuper(client, geoip.DefaultBreakerSettings(), reg), ecfg, reg)
}

func newHTTPServer(cfg *config.ServerConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Timeout,
		// Leave room for a query that uses the full timeout.
		WriteTimeout: cfg.Timeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

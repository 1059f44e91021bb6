// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/pldashboard/api/internal/api"
	"github.com/pldashboard/api/internal/config"
	"github.com/pldashboard/api/internal/database"
	"github.com/pldashboard/api/internal/logging"
	"github.com/pldashboard/api/internal/metrics"
	"github.com/pldashboard/api/internal/middleware"
	"github.com/pldashboard/api/internal/supervisor"
	"github.com/pldashboard/api/internal/supervisor/services"
	"github.com/pldashboard/api/internal/useragent"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.OutputFormat(),
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db", cfg.Database.RedactedDSN()).
		Bool("geo_enabled", cfg.Geo.Enabled).
		Bool("auth_configured", cfg.Security.APIToken != "").
		Msg("Configuration loaded")
	if cfg.Security.APIToken == "" {
		logging.Warn().Msg("API_TOKEN is empty: every protected route will answer 401")
	}

	reg := metrics.NewRegistry()

	manager := database.NewManager(newOpener(&cfg.Database), database.Options{
		InitAttempts: cfg.Database.InitAttempts,
		InitBackoff:  cfg.Database.InitBackoff,
	}, reg)
	defer manager.Close()

	geo := newEnricher(&cfg.Geo, reg)

	pipeline := middleware.NewPipeline(middleware.Options{
		APIToken:    cfg.Security.APIToken,
		PublicPaths: cfg.Security.PublicPaths,
	}, reg, geo, useragent.NewClassifier(), logging.NewVisitLogger(os.Stdout))

	handler := api.NewHandler(api.HandlerDeps{
		Store:   database.NewRepository(manager),
		Ready:   manager,
		Metrics: reg.Handler(),
		Geo:     geo,
	})

	router := api.NewRouter(handler, pipeline,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)),
		api.RouterOptions{DebugEndpoints: cfg.Server.DebugEndpoints})

	server := newHTTPServer(&cfg.Server, router.SetupChi())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bridges zerolog to slog for sutureslog
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Database.Warmup {
		tree.AddDataService(services.NewPoolWarmupService(manager))
	}
	tree.AddDataService(services.NewPoolStatsService(manager, services.DefaultStatsInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// Serve returns once the signal context is canceled and every layer has
	// stopped or timed out.
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Application stopped gracefully")
}

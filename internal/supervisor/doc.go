// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

/*
Package supervisor runs the long-lived services under a suture v4 tree.

	RootSupervisor ("pldashboard-api")
	├── DataSupervisor ("data-layer")
	│   ├── PoolWarmupService   one EnsurePool at boot, never restarted
	│   └── PoolStatsService    republishes pool occupancy gauges
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (restarts, backoff, timeouts) are logged through
sutureslog into the zerolog-backed slog handler from internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewPoolWarmupService(db))
	tree.AddDataService(services.NewPoolStatsService(db, 15*time.Second))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx) // returns when ctx is canceled
*/
package supervisor

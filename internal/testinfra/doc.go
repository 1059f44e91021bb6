// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

// Package testinfra provides container-backed infrastructure for integration
// tests. Everything except this file sits behind the integration build tag:
//
//	go test -tags integration ./...
//
// # Postgres Container
//
// NewPostgresContainer starts a throwaway Postgres with optional init scripts
// and hands back a config.DatabaseConfig for it:
//
//	pg, err := testinfra.NewPostgresContainer(ctx, t,
//	    testinfra.WithInitScript("testdata/schema.sql"),
//	)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, pg.Container)
//
//	mgr := database.NewManager(database.NewPostgresOpener(pg.DatabaseConfig()), opts, nil)
//
// Tests call SkipIfNoDocker first so the suite still passes on machines
// without a Docker daemon.
package testinfra

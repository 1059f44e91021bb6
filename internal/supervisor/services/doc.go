// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

// Package services adapts application components to suture.Service.
//
// Each wrapper turns a component's lifecycle into Serve(ctx) error and
// implements fmt.Stringer so supervisor events name it.
package services

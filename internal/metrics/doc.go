// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

/*
Package metrics holds the Prometheus collectors for the API.

A Registry is an owned instance backed by a private prometheus.Registry, so
tests can assert exact counts without global state. Collector families:

  - api_*: request count, latency and in-flight requests by method and route
  - web_visits_*: visit totals by country and user-agent bucket
  - db_pool_*: connection pool occupancy, state and init attempts
  - geo_*: enrichment cache hit/miss, entries, lookup latency and errors
  - circuit_breaker_*: breaker state and transitions

Usage:

	reg := metrics.NewRegistry()
	r.Handle("/metrics", reg.Handler())
	reg.RecordAPIRequest("GET", "/standings", 200, time.Since(start))

All collectors are safe for concurrent use.
*/
package metrics

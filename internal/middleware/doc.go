// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

/*
Package middleware implements the request pipeline that wraps every API call.

Steps, outermost first:

  - Identity: request ID, start time, in-flight gauge, and on the way out the
    latency histogram, request counter, visit log line and X-Request-ID echo.
  - SecurityHeaders: nosniff, frame deny, no-referrer, no-store.
  - Recover: handler panics become 500 {"error":"internal_error"}.
  - Auth: shared-secret gate (X-API-Token or ?api_token=), public paths and
    OPTIONS exempt.
  - Enrich: client IP, geo lookup, country fallback, user-agent class and
    visit counters.

Identity wraps the auth gate so rejected calls are still counted, logged and
carry a request ID. Enrichment runs only after the gate has passed.

Usage:

	p := middleware.NewPipeline(opts, reg, enricher, classifier, visits)
	r := chi.NewRouter()
	r.Use(p.Identity, middleware.SecurityHeaders, p.Recover, p.Auth, p.Enrich)

The endpoint label comes from chi's matched route pattern, so the pipeline
must be mounted on a chi router. Unmatched calls are labelled "unmatched".
*/
package middleware

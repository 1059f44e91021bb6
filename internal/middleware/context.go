// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package middleware

import (
	"context"
	"time"
)

type contextKey string

const requestContextKey contextKey = "request_context"

// RequestContext carries the per-call state the pipeline builds up. It is
// created by Identity, filled in by later steps on the same goroutine and
// read back once the handler returns. It is never shared between calls.
type RequestContext struct {
	RequestID string
	Start     time.Time
	Method    string
	Path      string

	// Visit is set by Enrich once the auth gate has passed.
	Visit *Visit

	// Status is the final response status, known after dispatch.
	Status int
}

func withRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// FromContext returns the call's RequestContext, or nil outside the pipeline.
func FromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(requestContextKey).(*RequestContext)
	return rc
}

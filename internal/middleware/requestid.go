// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package middleware

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pldashboard/api/internal/logging"
)

// Header names read and written by the identity step.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderCFRay     = "X-Cf-Ray"
)

// Identity is the outermost step. It assigns the request ID (X-Request-ID,
// then X-Cf-Ray, then a fresh UUID), records start time, method and path,
// and counts the call in flight. After the rest of the chain returns it
// records latency and status, emits the visit line and echoes X-Request-ID.
// The post-steps run for every call, including rejected and failed ones.
func (p *Pipeline) Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(HeaderRequestID))
		if requestID == "" {
			requestID = strings.TrimSpace(r.Header.Get(HeaderCFRay))
		}
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		rc := &RequestContext{
			RequestID: requestID,
			Start:     time.Now(),
			Method:    r.Method,
			Path:      r.URL.Path,
		}

		// Set before dispatch so the header survives a handler that writes
		// its body immediately.
		w.Header().Set(HeaderRequestID, requestID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = withRequestContext(ctx, rc)
		r = r.WithContext(ctx)

		if p.metrics != nil {
			p.metrics.TrackActiveRequest(true)
		}

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			rc.Status = ww.Status()
			if rc.Status == 0 {
				rc.Status = http.StatusOK
			}
			p.finish(r, rc)
		}()

		next.ServeHTTP(ww, r)
	})
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pldashboard/api/internal/logging"
)

// unmatchedEndpoint labels calls that matched no route, keeping endpoint
// cardinality bounded by the route table.
const unmatchedEndpoint = "unmatched"

// finish runs the post-steps: request metrics, in-flight decrement and the
// visit line. Calls that were never enriched, such as those stopped by the
// auth gate, get no visit line.
func (p *Pipeline) finish(r *http.Request, rc *RequestContext) {
	duration := time.Since(rc.Start)

	if p.metrics != nil {
		p.metrics.RecordAPIRequest(rc.Method, routeTemplate(r), rc.Status, duration)
		p.metrics.TrackActiveRequest(false)
	}

	if rc.Visit != nil {
		p.visits.Log(visitRecord(rc, duration))
	}
}

// routeTemplate returns the matched chi pattern, e.g. /playersById/{playerId}.
// Calls stopped before routing (such as by the auth gate) are matched
// against the route table without dispatching.
func routeTemplate(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedEndpoint
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	if rctx.Routes != nil {
		match := chi.NewRouteContext()
		if rctx.Routes.Match(match, r.Method, normalizePath(r.URL.Path)) {
			if pattern := match.RoutePattern(); pattern != "" {
				return pattern
			}
		}
	}
	return unmatchedEndpoint
}

func visitRecord(rc *RequestContext, duration time.Duration) *logging.VisitRecord {
	v := rc.Visit
	rec := &logging.VisitRecord{
		RequestID: rc.RequestID,
		Time:      rc.Start,
		Method:    rc.Method,
		Path:      rc.Path,
		Status:    rc.Status,
		Duration:  duration,
		IP:        v.IP,
	}

	rec.Country = v.Country
	rec.City = v.Geo.City
	rec.Region = v.Geo.Region
	rec.ASN = v.Geo.ASN
	rec.ISP = v.Geo.ISP
	rec.Latitude = v.Geo.Latitude
	rec.Longitude = v.Geo.Longitude
	rec.Device = v.UA.Device
	rec.OS = v.UA.OSLabel()
	rec.Browser = v.UA.BrowserLabel()
	return rec
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// VisitRecord is the per-call projection of request identity, client
// enrichment and outcome. It is written once, after the response status is
// known, and never kept in memory beyond the call.
type VisitRecord struct {
	RequestID string
	Time      time.Time
	Method    string
	Path      string
	Status    int
	Duration  time.Duration

	IP        string
	Country   string
	City      string
	Region    string
	ASN       string
	ISP       string
	Latitude  *float64
	Longitude *float64

	Device  string
	OS      string
	Browser string
}

// VisitLogger writes visit records as one JSON object per line. Visit lines
// carry no level so log shippers can route them apart from diagnostics.
type VisitLogger struct {
	logger zerolog.Logger
}

// NewVisitLogger creates a visit logger writing to w (os.Stdout when nil).
func NewVisitLogger(w io.Writer) *VisitLogger {
	if w == nil {
		w = os.Stdout
	}
	return &VisitLogger{logger: zerolog.New(w)}
}

// Log emits rec. A nil logger or record is ignored.
func (v *VisitLogger) Log(rec *VisitRecord) {
	if v == nil || rec == nil {
		return
	}

	ev := v.logger.Log().
		Str("event", "visit").
		Int64("ts", rec.Time.Unix()).
		Str("request_id", rec.RequestID).
		Str("method", rec.Method).
		Str("path", rec.Path).
		Int("status", rec.Status).
		Float64("duration_ms", float64(rec.Duration.Microseconds())/1000).
		Str("ip", rec.IP).
		Str("country", rec.Country).
		Str("city", rec.City).
		Str("region", rec.Region).
		Str("asn", rec.ASN).
		Str("isp", rec.ISP).
		Str("device", rec.Device).
		Str("os", rec.OS).
		Str("browser", rec.Browser)

	if rec.Latitude != nil {
		ev = ev.Float64("lat", *rec.Latitude)
	} else {
		ev = ev.Interface("lat", nil)
	}
	if rec.Longitude != nil {
		ev = ev.Float64("lon", *rec.Longitude)
	} else {
		ev = ev.Interface("lon", nil)
	}

	ev.Send()
}

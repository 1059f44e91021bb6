// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package middleware

import (
	"context"
	"strings"

	"github.com/pldashboard/api/internal/geoip"
	"github.com/pldashboard/api/internal/logging"
	"github.com/pldashboard/api/internal/metrics"
	"github.com/pldashboard/api/internal/useragent"
)

// GeoLookuper resolves a client address to an enrichment record. The bool is
// false when nothing could be resolved.
type GeoLookuper interface {
	Lookup(ctx context.Context, ip string) (geoip.Record, bool)
}

// Options configures the request pipeline.
type Options struct {
	// APIToken is the shared secret. Empty rejects every protected call.
	APIToken string

	// PublicPaths bypass the auth gate.
	PublicPaths []string
}

// Pipeline holds the collaborators shared by the request middleware. Each
// step is exposed as a chi-compatible func(http.Handler) http.Handler.
type Pipeline struct {
	token      []byte
	public     map[string]struct{}
	metrics    *metrics.Registry
	geo        GeoLookuper
	classifier *useragent.Classifier
	visits     *logging.VisitLogger
}

// NewPipeline creates a Pipeline. reg, geo and visits may be nil, which
// disables the corresponding step's side effects.
func NewPipeline(opts Options, reg *metrics.Registry, geo GeoLookuper, classifier *useragent.Classifier, visits *logging.VisitLogger) *Pipeline {
	public := make(map[string]struct{}, len(opts.PublicPaths))
	for _, p := range opts.PublicPaths {
		public[normalizePath(p)] = struct{}{}
	}
	if classifier == nil {
		classifier = useragent.NewClassifier()
	}
	return &Pipeline{
		token:      []byte(opts.APIToken),
		public:     public,
		metrics:    reg,
		geo:        geo,
		classifier: classifier,
		visits:     visits,
	}
}

// normalizePath drops trailing slashes so /health/ matches /health.
func normalizePath(p string) string {
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			return "/"
		}
	}
	return p
}

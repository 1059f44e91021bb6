// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/pldashboard/api/internal/config"
	"github.com/pldashboard/api/internal/middleware"
)

// ChiMiddlewareConfig holds configuration for the chi ecosystem middleware.
type ChiMiddlewareConfig struct {
	CORSEnabled        bool
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSExposedHeaders []string
	CORSMaxAge         int // seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// DefaultChiMiddlewareConfig returns CORS off and 600 requests per minute
// per client.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{http.MethodGet, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", middleware.HeaderAPIToken, middleware.HeaderRequestID},
		CORSExposedHeaders: []string{middleware.HeaderRequestID},
		CORSMaxAge:         86400,

		RateLimitRequests: 600,
		RateLimitWindow:   time.Minute,
	}
}

// ChiMiddlewareConfigFrom builds the config from the security settings.
func ChiMiddlewareConfigFrom(sec *config.SecurityConfig) *ChiMiddlewareConfig {
	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSEnabled = sec.CORSEnabled
	cfg.CORSAllowedOrigins = sec.CORSOrigins
	cfg.RateLimitRequests = sec.RateLimitReqs
	cfg.RateLimitWindow = sec.RateLimitWindow
	cfg.RateLimitDisabled = sec.RateLimitDisabled
	return cfg
}

// ChiMiddleware provides the go-chi/cors and go-chi/httprate middleware.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
}

// NewChiMiddleware creates the factory. A nil config takes the defaults.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}
	return &ChiMiddleware{config: config}
}

func passthrough(next http.Handler) http.Handler { return next }

// CORS returns the go-chi/cors handler, or a no-op when CORS is disabled.
// It must run before the auth gate so preflights are answered.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	if !m.config.CORSEnabled {
		return passthrough
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: m.config.CORSAllowedOrigins,
		AllowedMethods: m.config.CORSAllowedMethods,
		AllowedHeaders: m.config.CORSAllowedHeaders,
		ExposedHeaders: m.config.CORSExposedHeaders,
		MaxAge:         m.config.CORSMaxAge,
	})
}

// RateLimit limits each peer address and answers 429 in the JSON envelope.
// It keys on the connection's remote address only; forwarding headers are
// caller-controlled and would let a client rotate its way past the limit.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return passthrough
	}
	return httprate.Limit(
		m.config.RateLimitRequests,
		m.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimited),
	)
}

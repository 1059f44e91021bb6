// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/pldashboard/api/internal/database"
	"github.com/pldashboard/api/internal/logging"
	"github.com/pldashboard/api/internal/middleware"
	"github.com/pldashboard/api/internal/validation"
)

// Error categories used in the error envelope.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeNotFound           = "not_found"
	ErrCodeMethodNotAllowed   = "method_not_allowed"
	ErrCodeTooManyRequests    = "too_many_requests"
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)

// respondJSON writes data as JSON.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	middleware.WriteJSON(w, status, data)
}

// respondError maps err to a status and category and writes the envelope.
// Unexpected errors are logged and answered with an opaque 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		middleware.WriteError(w, http.StatusBadRequest, ErrCodeBadRequest, verr.Error())
	case errors.Is(err, database.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, ErrCodeNotFound, "No matching record")
	case errors.Is(err, database.ErrUnavailable),
		errors.Is(err, database.ErrClosed),
		errors.Is(err, context.DeadlineExceeded):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Database unavailable")
		middleware.WriteError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Database unavailable")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		middleware.WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "")
	}
}

// notFound answers unknown routes.
func notFound(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Route not found")
}

// methodNotAllowed answers known routes called with the wrong method.
func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
}

// rateLimited answers calls over the per-client limit.
func rateLimited(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteError(w, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded")
}

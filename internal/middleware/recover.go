// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pldashboard/api/internal/logging"
)

// Recover turns a handler panic into 500 {"error":"internal_error"} and logs
// the detail. It sits inside Identity so the post-steps still run and see
// the 500.
func (p *Pipeline) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			logging.Ctx(r.Context()).Error().
				Interface("panic", rec).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Bytes("stack", debug.Stack()).
				Msg("Handler panic recovered")

			if ww, ok := w.(chimw.WrapResponseWriter); ok && ww.Status() != 0 {
				// Headers already sent; nothing more can be written.
				return
			}
			WriteError(w, http.StatusInternalServerError, "internal_error", "")
		}()

		next.ServeHTTP(w, r)
	})
}

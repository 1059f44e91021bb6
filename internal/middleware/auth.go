// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package middleware

import (
	"crypto/subtle"
	"net/http"
)

// Token sources accepted by the auth gate.
const (
	HeaderAPIToken = "X-API-Token"
	QueryAPIToken  = "api_token"
)

// Auth rejects calls that do not present the shared secret. Public paths
// and CORS preflights pass through. A rejected call gets 401 before any
// handler or database work runs.
func (p *Pipeline) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || p.isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if !p.validToken(presentedToken(r)) {
			WriteError(w, http.StatusUnauthorized, "unauthorized", "Missing or Invalid API token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (p *Pipeline) isPublic(path string) bool {
	_, ok := p.public[normalizePath(path)]
	return ok
}

func presentedToken(r *http.Request) string {
	if t := r.Header.Get(HeaderAPIToken); t != "" {
		return t
	}
	return r.URL.Query().Get(QueryAPIToken)
}

// validToken compares in constant time. An empty secret matches nothing.
func (p *Pipeline) validToken(presented string) bool {
	if len(p.token) == 0 || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), p.token) == 1
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package middleware

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/pldashboard/api/internal/logging"
)

// ErrorBody is the JSON error envelope: {"error": category, "message": text}.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteError writes the error envelope. An empty message is omitted.
func WriteError(w http.ResponseWriter, status int, category, message string) {
	WriteJSON(w, status, ErrorBody{Error: category, Message: message})
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

// Package validation wraps go-playground/validator v10 with a singleton
// instance, a pathid rule for route identifiers and human-readable messages.
//
//	if verr := validation.ValidatePathParam("playerId", id); verr != nil {
//	    respondError(w, r, verr) // 400 bad_request
//	    return
//	}
//
// The config package also validates its structs through ValidateStruct.
package validation

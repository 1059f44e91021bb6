// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package api

import (
	"net/http"

	"github.com/pldashboard/api/internal/geoip"
	"github.com/pldashboard/api/internal/middleware"
	"github.com/pldashboard/api/internal/validation"
)

// DebugGeoResponse is the /debug/geo body.
type DebugGeoResponse struct {
	IP  string       `json:"ip"`
	Geo geoip.Record `json:"geo"`
}

// DebugGeo runs the enrichment lookup for ?ip= or, when absent, for the
// caller's own address.
func (h *Handler) DebugGeo(w http.ResponseWriter, r *http.Request) {
	ip := r.URL.Query().Get("ip")
	if ip == "" {
		ip = middleware.ClientIP(r)
	} else if verr := validation.ValidateStruct(&validation.LookupIPParam{IP: ip}); verr != nil {
		respondError(w, r, verr)
		return
	}

	resp := DebugGeoResponse{IP: ip}
	if h.geo != nil {
		resp.Geo, _ = h.geo.Lookup(r.Context(), ip)
	}
	respondJSON(w, http.StatusOK, resp)
}

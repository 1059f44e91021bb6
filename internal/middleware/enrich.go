// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pldashboard/api/internal/geoip"
	"github.com/pldashboard/api/internal/logging"
	"github.com/pldashboard/api/internal/useragent"
)

// UnknownCountry is recorded when neither the lookup nor CF-IPCountry
// yields a two-letter country code.
const UnknownCountry = "UNKNOWN"

// Visit is the enrichment of one call.
type Visit struct {
	IP      string
	Country string
	Geo     geoip.Record
	GeoOK   bool
	UA      useragent.Classification
}

// Enrich resolves the client, classifies the user agent, counts the visit
// and stores it in the RequestContext. A failure is logged at debug level
// and never affects the response.
func (p *Pipeline) Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, err := p.enrich(r)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Visit enrichment failed")
		} else {
			if p.metrics != nil {
				p.metrics.RecordVisit(v.Country, v.UA.Bucket())
			}
			if rc := FromContext(r.Context()); rc != nil {
				rc.Visit = &v
			}
		}
		next.ServeHTTP(w, r)
	})
}

// enrich builds the Visit for r. Panics from collaborators are returned as
// errors.
func (p *Pipeline) enrich(r *http.Request) (v Visit, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v, err = Visit{}, fmt.Errorf("enrichment panic: %v", rec)
		}
	}()

	v.IP = ClientIP(r)
	if p.geo != nil {
		v.Geo, v.GeoOK = p.geo.Lookup(r.Context(), v.IP)
	}

	v.Country = UnknownCountry
	if c, ok := countryCode(v.Geo.CountryISO2); ok {
		v.Country = c
	} else if c, ok := countryCode(r.Header.Get("CF-IPCountry")); ok {
		v.Country = c
	}

	v.UA = p.classifier.Classify(r.UserAgent())
	return v, nil
}

// countryCode uppercases s and accepts it only as two ASCII letters. Other
// values would mint a metric series per request.
func countryCode(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return "", false
		}
	}
	return s, true
}

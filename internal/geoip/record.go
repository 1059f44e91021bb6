// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package geoip

import (
	"strconv"
	"strings"
)

// Record is the normalized enrichment for one client address. The zero
// value is the empty record returned for private addresses and failures.
type Record struct {
	CountryISO2 string   `json:"country_iso2"`
	CountryName string   `json:"country_name"`
	Region      string   `json:"region"`
	City        string   `json:"city"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ASN         string   `json:"asn"`
	ISP         string   `json:"isp"`
}

// IsEmpty reports whether r carries no enrichment at all.
func (r *Record) IsEmpty() bool {
	return r.CountryISO2 == "" && r.CountryName == "" && r.Region == "" && r.City == "" &&
		r.Latitude == nil && r.Longitude == nil && r.ASN == "" && r.ISP == ""
}

// unknownCountry is what the lookup service reports when it has no match.
const unknownCountry = "UNKNOWN"

// normalize maps a raw lookup payload onto Record. Several field spellings
// are accepted so the service can sit behind different providers.
func normalize(raw map[string]interface{}) Record {
	country := strings.ToUpper(firstString(raw, "country_iso2", "country_code", "country"))
	if country == unknownCountry {
		country = ""
	}
	return Record{
		CountryISO2: country,
		CountryName: firstString(raw, "country_name"),
		Region:      firstString(raw, "region", "region_name"),
		City:        firstString(raw, "city"),
		Latitude:    number(raw, "latitude"),
		Longitude:   number(raw, "longitude"),
		ASN:         firstString(raw, "asn", "as"),
		ISP:         firstString(raw, "isp", "org", "as_org"),
	}
}

// firstString returns the first non-empty value among keys, formatting
// numbers as integers where they have no fraction (ASNs arrive as numbers).
func firstString(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		case float64:
			if v == float64(int64(v)) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func number(raw map[string]interface{}, key string) *float64 {
	switch v := raw[key].(type) {
	case float64:
		return &v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return &f
		}
	}
	return nil
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pldashboard/api/internal/config"
	"github.com/pldashboard/api/internal/database"
)

func TestNewOpener(t *testing.T) {
	if _, ok := newOpener(&config.DatabaseConfig{Driver: config.DriverPostgres}).(*database.PostgresOpener); !ok {
		t.Error("postgres driver should build a PostgresOpener")
	}
	if _, ok := newOpener(&config.DatabaseConfig{Driver: config.DriverDuckDB}).(*database.DuckDBOpener); !ok {
		t.Error("duckdb driver should build a DuckDBOpener")
	}
}

func TestNewEnricher_Disabled(t *testing.T) {
	e := newEnricher(&config.GeoConfig{Enabled: false, URL: "http://geo", TimeoutSeconds: 0.1, CacheTTLSeconds: 60}, nil)
	if e.Enabled() {
		t.Error("Enabled() = true, want false")
	}
	if _, ok := e.Lookup(context.Background(), "8.8.8.8"); ok {
		t.Error("Lookup() ok = true on a disabled enricher")
	}
}

func TestNewEnricher_CallsService(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/lookup" {
			t.Errorf("path = %q, want /lookup", r.URL.Path)
		}
		if got := r.URL.Query().Get("ip"); got != "8.8.8.8" {
			t.Errorf("ip = %q, want 8.8.8.8", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"country":"US","city":"Mountain View"}`))
	}))
	defer srv.Close()

	e := newEnricher(&config.GeoConfig{Enabled: true, URL: srv.URL, TimeoutSeconds: 1, CacheTTLSeconds: 60}, nil)
	if !e.Enabled() {
		t.Fatal("Enabled() = false, want true")
	}

	for i := 0; i < 3; i++ {
		rec, ok := e.Lookup(context.Background(), "8.8.8.8")
		if !ok {
			t.Fatalf("Lookup() #%d ok = false", i)
		}
		if rec.CountryISO2 != "US" {
			t.Errorf("CountryISO2 = %q, want US", rec.CountryISO2)
		}
	}
	// Repeat lookups are served from cache.
	if got := calls.Load(); got != 1 {
		t.Errorf("service calls = %d, want 1", got)
	}
}

func TestNewHTTPServer(t *testing.T) {
	s := newHTTPServer(&config.ServerConfig{Host: "0.0.0.0", Port: 8000, HTTPPort: 9000, Timeout: 30 * time.Second}, http.NotFoundHandler())
	if s.Addr != "0.0.0.0:9000" {
		t.Errorf("Addr = %q, want 0.0.0.0:9000", s.Addr)
	}
	if s.WriteTimeout <= s.ReadTimeout {
		t.Errorf("WriteTimeout %v should exceed ReadTimeout %v", s.WriteTimeout, s.ReadTimeout)
	}
	if s.ReadHeaderTimeout == 0 {
		t.Error("ReadHeaderTimeout = 0")
	}
}

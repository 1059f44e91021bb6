// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points CONFIG_PATH at a missing file and moves into an empty dir so
// no stray config.yaml is picked up.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Database.PoolMin != 1 || cfg.Database.PoolMax != 10 {
		t.Errorf("pool bounds = %d/%d, want 1/10", cfg.Database.PoolMin, cfg.Database.PoolMax)
	}
	if cfg.Database.InitAttempts != 30 || cfg.Database.InitBackoff != 2*time.Second {
		t.Errorf("init policy = %d/%v, want 30/2s", cfg.Database.InitAttempts, cfg.Database.InitBackoff)
	}
	if cfg.Geo.Timeout() != 350*time.Millisecond {
		t.Errorf("Geo.Timeout() = %v, want 350ms", cfg.Geo.Timeout())
	}
	if cfg.Geo.CacheTTL() != 30*time.Minute {
		t.Errorf("Geo.CacheTTL() = %v, want 30m", cfg.Geo.CacheTTL())
	}
	if cfg.Security.APIToken != "" {
		t.Error("APIToken should be empty by default")
	}
	if len(cfg.Security.PublicPaths) != 3 {
		t.Errorf("PublicPaths = %v", cfg.Security.PublicPaths)
	}
	if cfg.Logging.OutputFormat() != "json" {
		t.Errorf("OutputFormat() = %q, want json", cfg.Logging.OutputFormat())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8000" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASS", "p@ss/word")
	t.Setenv("DB_POOL_MAX", "25")
	t.Setenv("DB_POOL_INIT_BACKOFF", "500ms")
	t.Setenv("GEO_TIMEOUT", "1.5")
	t.Setenv("GEO_CACHE_TTL", "60")
	t.Setenv("API_TOKEN", "secret")
	t.Setenv("CORS_ENABLED", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Password != "p@ss/word" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if cfg.Database.PoolMax != 25 {
		t.Errorf("PoolMax = %d, want 25", cfg.Database.PoolMax)
	}
	if cfg.Database.InitBackoff != 500*time.Millisecond {
		t.Errorf("InitBackoff = %v, want 500ms", cfg.Database.InitBackoff)
	}
	if cfg.Geo.Timeout() != 1500*time.Millisecond {
		t.Errorf("Geo.Timeout() = %v, want 1.5s", cfg.Geo.Timeout())
	}
	if cfg.Geo.CacheTTL() != time.Minute {
		t.Errorf("Geo.CacheTTL() = %v, want 1m", cfg.Geo.CacheTTL())
	}
	if cfg.Security.APIToken != "secret" {
		t.Errorf("APIToken = %q", cfg.Security.APIToken)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if !strings.Contains(cfg.Database.DSN(), "p%40ss%2Fword") {
		t.Errorf("DSN should escape the password: %s", cfg.Database.DSN())
	}
	if strings.Contains(cfg.Database.RedactedDSN(), "p@ss") {
		t.Errorf("RedactedDSN leaks password: %s", cfg.Database.RedactedDSN())
	}
}

func TestLoadWithKoanf_HTTPPortWins(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9000")
	t.Setenv("HTTP_PORT", "9100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if got := cfg.Server.Addr(); got != "0.0.0.0:9100" {
		t.Errorf("Addr() = %q, want 0.0.0.0:9100", got)
	}
}

func TestLoadWithKoanf_LogJSONFalse(t *testing.T) {
	isolate(t)
	t.Setenv("LOG_JSON", "false")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Logging.OutputFormat() != "console" {
		t.Errorf("OutputFormat() = %q, want console", cfg.Logging.OutputFormat())
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := `
server:
  port: 7000
database:
  driver: duckdb
  path: /tmp/pl.duckdb
security:
  public_paths:
    - /health
    - /metrics
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_HOST", "127.0.0.1")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Addr() != "127.0.0.1:7000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:7000", cfg.Server.Addr())
	}
	if cfg.Database.Driver != DriverDuckDB || cfg.Database.RedactedDSN() != "duckdb:///tmp/pl.duckdb" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if len(cfg.Security.PublicPaths) != 2 {
		t.Errorf("PublicPaths = %v", cfg.Security.PublicPaths)
	}
}

func TestLoadWithKoanf_InvalidDriver(t *testing.T) {
	isolate(t)
	t.Setenv("DB_DRIVER", "mysql")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error for DB_DRIVER=mysql")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"pool min above max", func(c *Config) { c.Database.PoolMin = 20 }, "DB_POOL_MIN"},
		{"geo url with path", func(c *Config) { c.Geo.URL = "http://geo:8080/lookup" }, "GEO_URL"},
		{"geo url bad scheme", func(c *Config) { c.Geo.URL = "ftp://geo" }, "GEO_URL"},
		{"geo disabled skips url", func(c *Config) { c.Geo.Enabled = false; c.Geo.URL = "" }, ""},
		{"public path without slash", func(c *Config) { c.Security.PublicPaths = []string{"health"} }, "PUBLIC_PATHS"},
		{"cors wildcard", func(c *Config) { c.Security.CORSEnabled = true; c.Security.CORSOrigins = []string{"*"} }, ""},
		{"cors bad origin", func(c *Config) { c.Security.CORSEnabled = true; c.Security.CORSOrigins = []string{"example.com"} }, "CORS_ORIGINS"},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "Port"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "Format"},
		{"postgres needs host", func(c *Config) { c.Database.Host = "" }, "DB_HOST"},
		{"duckdb without host", func(c *Config) { c.Database.Driver = DriverDuckDB; c.Database.Host = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"DB_PASS":            "database.password",
		"GEO_URL":            "geo.url",
		"DISABLE_RATE_LIMIT": "security.rate_limit_disabled",
		"HOME":               "",
		"PATH":               "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Geo      GeoConfig      `koanf:"geo"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port int    `koanf:"port" validate:"min=1,max=65535"`
	Host string `koanf:"host"`

	// HTTPPort overrides Port when set (HTTP_PORT wins over PORT).
	HTTPPort int `koanf:"http_port" validate:"min=0,max=65535"`

	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// DebugEndpoints mounts /debug/geo behind the auth gate.
	DebugEndpoints bool `koanf:"debug_endpoints"`
}

// Addr returns the host:port listen address.
func (s *ServerConfig) Addr() string {
	port := s.Port
	if s.HTTPPort > 0 {
		port = s.HTTPPort
	}
	return net.JoinHostPort(s.Host, strconv.Itoa(port))
}

// Driver names accepted by DatabaseConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverDuckDB   = "duckdb"
)

// DatabaseConfig holds the backing store and pool settings.
type DatabaseConfig struct {
	Driver   string `koanf:"driver" validate:"oneof=postgres duckdb"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port" validate:"min=1,max=65535"`
	Name     string `koanf:"name"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`

	// Path is the DuckDB file; empty opens an in-memory database.
	Path string `koanf:"path"`

	PoolMin         int           `koanf:"pool_min" validate:"min=0"`
	PoolMax         int           `koanf:"pool_max" validate:"min=1"`
	InitAttempts    int           `koanf:"init_attempts" validate:"min=1"`
	InitBackoff     time.Duration `koanf:"init_backoff" validate:"min=0"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout" validate:"gt=0"`
	Warmup          bool          `koanf:"warmup"`
	ApplicationName string        `koanf:"application_name"`
}

// DSN builds the Postgres connection string. The password is escaped.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	if d.ApplicationName != "" {
		q.Set("application_name", d.ApplicationName)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// RedactedDSN is DSN with the password masked, safe for logs.
func (d *DatabaseConfig) RedactedDSN() string {
	if d.Driver == DriverDuckDB {
		if d.Path == "" {
			return "duckdb://:memory:"
		}
		return "duckdb://" + d.Path
	}
	return fmt.Sprintf("postgres://%s:***@%s/%s", d.User, net.JoinHostPort(d.Host, strconv.Itoa(d.Port)), d.Name)
}

// GeoConfig holds the IP geolocation service settings.
type GeoConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`

	// TimeoutSeconds is fractional seconds (GEO_TIMEOUT=0.35).
	TimeoutSeconds float64 `koanf:"timeout" validate:"gt=0"`

	// CacheTTLSeconds is whole seconds (GEO_CACHE_TTL=1800).
	CacheTTLSeconds int `koanf:"cache_ttl" validate:"min=1"`
}

// Timeout returns the per-lookup deadline.
func (g *GeoConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds * float64(time.Second))
}

// CacheTTL returns how long successful lookups stay cached.
func (g *GeoConfig) CacheTTL() time.Duration {
	return time.Duration(g.CacheTTLSeconds) * time.Second
}

// SecurityConfig holds the auth gate, CORS and rate limit settings.
type SecurityConfig struct {
	// APIToken is the shared secret. Empty rejects every protected call.
	APIToken    string   `koanf:"api_token"`
	PublicPaths []string `koanf:"public_paths"`

	CORSEnabled bool     `koanf:"cors_enabled"`
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error, critical.
	Level string `koanf:"level"`

	// Format is json or console. Empty falls back to JSON.
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`

	// JSON=false selects console output when Format is empty.
	JSON bool `koanf:"json"`

	Caller bool `koanf:"caller"`
}

// OutputFormat resolves Format and JSON into json or console.
func (l *LoggingConfig) OutputFormat() string {
	if l.Format != "" {
		return l.Format
	}
	if l.JSON {
		return "json"
	}
	return "console"
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/pldashboard/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			DebugEndpoints:  true,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "postgres",
			Port:            5432,
			Name:            "pldashboard",
			User:            "postgres",
			SSLMode:         "disable",
			PoolMin:         1,
			PoolMax:         10,
			InitAttempts:    30,
			InitBackoff:     2 * time.Second,
			ConnectTimeout:  5 * time.Second,
			Warmup:          true,
			ApplicationName: "pldashboard_api",
		},
		Geo: GeoConfig{
			Enabled:         true,
			URL:             "http://ipgeo.epl-data.svc.cluster.local:8080",
			TimeoutSeconds:  0.35,
			CacheTTLSeconds: 1800,
		},
		Security: SecurityConfig{
			PublicPaths:     []string{"/health", "/readyz", "/metrics"},
			CORSOrigins:     []string{},
			RateLimitReqs:   600,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  true,
		},
	}
}

// sliceConfigPaths are koanf paths that accept comma-separated env values.
var sliceConfigPaths = []string{
	"security.public_paths",
	"security.cors_origins",
}

// envMappings maps lowercased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"port":             "server.port",
	"http_port":        "server.http_port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"debug_endpoints":  "server.debug_endpoints",

	"db_driver":             "database.driver",
	"db_host":               "database.host",
	"db_port":               "database.port",
	"db_name":               "database.name",
	"db_user":               "database.user",
	"db_pass":               "database.password",
	"db_sslmode":            "database.sslmode",
	"duckdb_path":           "database.path",
	"db_pool_min":           "database.pool_min",
	"db_pool_max":           "database.pool_max",
	"db_pool_init_attempts": "database.init_attempts",
	"db_pool_init_backoff":  "database.init_backoff",
	"db_connect_timeout":    "database.connect_timeout",
	"db_pool_warmup":        "database.warmup",
	"db_application_name":   "database.application_name",

	"geo_enabled":   "geo.enabled",
	"geo_url":       "geo.url",
	"geo_timeout":   "geo.timeout",
	"geo_cache_ttl": "geo.cache_ttl",

	"api_token":           "security.api_token",
	"public_paths":        "security.public_paths",
	"cors_enabled":        "security.cors_enabled",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_json":   "logging.json",
	"log_caller": "logging.caller",
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// LoadWithKoanf loads configuration in three layers, later layers winning:
// struct defaults, config file, environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first default
// path that exists, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// processSliceFields splits comma-separated env strings into slices.
// Values already loaded as lists from YAML are left alone. An explicitly
// empty string clears the list.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok {
			continue
		}

		trimmed := []string{}
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unknown variables map to "" and are skipped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package config

import (
	"fmt"
	"strings"

	"github.com/pldashboard/api/internal/validation"
)

// Validate checks struct tag constraints, then the cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateGeo(); err != nil {
		return err
	}

	return c.validateSecurity()
}

func (c *Config) validateDatabase() error {
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN (%d) must not exceed DB_POOL_MAX (%d)", c.Database.PoolMin, c.Database.PoolMax)
	}
	if c.Database.Driver == DriverPostgres {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required when DB_DRIVER=postgres")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required when DB_DRIVER=postgres")
		}
	}
	return nil
}

func (c *Config) validateGeo() error {
	if !c.Geo.Enabled {
		return nil
	}
	if c.Geo.URL == "" {
		return fmt.Errorf("GEO_URL is required when GEO_ENABLED=true")
	}
	return validateHTTPURL(c.Geo.URL, "GEO_URL")
}

func (c *Config) validateSecurity() error {
	for _, p := range c.Security.PublicPaths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("PUBLIC_PATHS entries must start with '/', got: %q", p)
		}
	}
	if c.Security.CORSEnabled {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				continue
			}
			if err := validateHTTPURL(origin, "CORS_ORIGINS"); err != nil {
				return err
			}
		}
	}
	return nil
}

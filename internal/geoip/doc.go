// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

/*
Package geoip enriches client addresses with geolocation and network data.

The stack, outermost first:

  - Enricher: skips non-public addresses, consults a cache.TTL, and
    collapses concurrent misses for one address with singleflight.
  - BreakerLookuper: sony/gobreaker circuit breaker around the service.
  - Client: GET {GEO_URL}/lookup?ip=<addr> under a hard timeout.

Lookup failures (timeout, non-2xx, malformed JSON, open circuit) yield an
empty Record and are never cached.

	client := geoip.NewClient(cfg.Geo.URL, cfg.Geo.Timeout(), nil)
	lookuper := geoip.NewBreakerLookuper(client, geoip.DefaultBreakerSettings(), reg)
	enricher := geoip.NewEnricher(lookuper, geoip.EnricherConfig{
	    Enabled:  cfg.Geo.Enabled,
	    Timeout:  cfg.Geo.Timeout(),
	    CacheTTL: cfg.Geo.CacheTTL(),
	}, reg)
	rec, ok := enricher.Lookup(ctx, "81.2.69.142")
*/
package geoip

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package geoip

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pldashboard/api/internal/cache"
	"github.com/pldashboard/api/internal/logging"
	"github.com/pldashboard/api/internal/metrics"
)

// Enricher resolves client addresses to Records through a TTL cache in front
// of a Lookuper. Failures degrade to an empty Record and are not cached, so
// the next request for the same address retries.
type Enricher struct {
	lookuper Lookuper
	cache    *cache.TTL[string, Record]
	group    singleflight.Group
	timeout  time.Duration
	metrics  *metrics.Registry
	enabled  bool

	// evictionsSeen is the cache eviction count already published.
	evictionsSeen atomic.Int64
}

// EnricherConfig configures an Enricher.
type EnricherConfig struct {
	Enabled  bool
	Timeout  time.Duration
	CacheTTL time.Duration

	// Clock overrides time.Now for the cache.
	Clock func() time.Time
}

// NewEnricher creates an Enricher. reg may be nil.
func NewEnricher(l Lookuper, cfg EnricherConfig, reg *metrics.Registry) *Enricher {
	var opts []cache.Option
	if cfg.Clock != nil {
		opts = append(opts, cache.WithClock(cfg.Clock))
	}
	return &Enricher{
		lookuper: l,
		cache:    cache.NewTTL[string, Record](cfg.CacheTTL, opts...),
		timeout:  cfg.Timeout,
		metrics:  reg,
		enabled:  cfg.Enabled && l != nil,
	}
}

// Lookup returns the Record for ip and whether it came from a successful
// lookup (cached or fresh). Non-public addresses return immediately without
// touching the cache or the service.
func (e *Enricher) Lookup(ctx context.Context, ip string) (Record, bool) {
	if e == nil || !e.enabled || !IsPublicIP(ip) {
		return Record{}, false
	}

	if rec, ok := e.cache.Get(ip); ok {
		e.recordCache(true)
		return rec, true
	}
	e.recordCache(false)

	// Concurrent misses for one address share a single upstream call.
	v, err, _ := e.group.Do(ip, func() (interface{}, error) {
		return e.fetch(ctx, ip)
	})
	if err != nil {
		return Record{}, false
	}
	return v.(Record), true
}

// fetch performs one bounded lookup and caches a success.
func (e *Enricher) fetch(ctx context.Context, ip string) (Record, error) {
	// The shared call must not die with whichever caller started it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	start := time.Now()
	rec, err := e.lookuper.Lookup(ctx, ip)
	if e.metrics != nil {
		e.metrics.RecordGeoLookup(time.Since(start), errorReason(err))
	}
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("ip", ip).Str("reason", errorReason(err)).Msg("Geo lookup failed")
		return Record{}, err
	}

	e.cache.Put(ip, rec)
	if e.metrics != nil {
		e.metrics.GeoCacheEntries.Set(float64(e.cache.Len()))
	}
	return rec, nil
}

func (e *Enricher) recordCache(hit bool) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecordGeoCache(hit, e.cache.Len())
	if !hit {
		e.publishEvictions()
	}
}

// publishEvictions adds the evictions counted since the last publish to the
// metric. Concurrent callers each publish a disjoint range.
func (e *Enricher) publishEvictions() {
	total := e.CacheStats().Evictions
	for {
		seen := e.evictionsSeen.Load()
		if total <= seen {
			return
		}
		if e.evictionsSeen.CompareAndSwap(seen, total) {
			e.metrics.RecordGeoCacheEvictions(total - seen)
			return
		}
	}
}

// CacheLen returns the number of live cached records.
func (e *Enricher) CacheLen() int {
	if e == nil {
		return 0
	}
	return e.cache.Len()
}

// CacheStats returns cache hit, miss and eviction counts.
func (e *Enricher) CacheStats() cache.Stats {
	if e == nil {
		return cache.Stats{}
	}
	return e.cache.Stats()
}

// Enabled reports whether lookups are performed at all.
func (e *Enricher) Enabled() bool {
	return e != nil && e.enabled
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns every collector the service exposes. One instance is created
// at startup and passed to the components that record into it; tests create
// their own so counts never leak between them.
type Registry struct {
	reg *prometheus.Registry

	// API
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIInflight        prometheus.Gauge

	// Visits
	VisitsTotal     prometheus.Counter
	VisitsByCountry *prometheus.CounterVec
	VisitsByUA      *prometheus.CounterVec

	// Connection pool
	DBPoolAvailable    prometheus.Gauge
	DBPoolInUse        prometheus.Gauge
	DBPoolState        prometheus.Gauge
	DBPoolInitAttempts *prometheus.CounterVec

	// Geolocation enrichment
	GeoCacheHits      prometheus.Counter
	GeoCacheMisses    prometheus.Counter
	GeoCacheEntries   prometheus.Gauge
	GeoCacheEvictions prometheus.Counter
	GeoLookupDuration prometheus.Histogram
	GeoLookupErrors   *prometheus.CounterVec

	// Circuit breakers
	CircuitBreakerState       *prometheus.GaugeVec
	CircuitBreakerTransitions *prometheus.CounterVec
}

// NewRegistry creates a registry with the Go runtime and process collectors
// plus all service collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,

		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "api_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		APIInflight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "api_inflight_requests",
				Help: "Number of API requests currently being served",
			},
		),

		VisitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "web_visits_total",
				Help: "Total number of visits",
			},
		),
		VisitsByCountry: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "web_visits_by_country_total",
				Help: "Visits by ISO 3166-1 alpha-2 country code",
			},
			[]string{"country"},
		),
		VisitsByUA: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "web_visits_by_ua_total",
				Help: "Visits by device class, OS and browser",
			},
			[]string{"device", "os", "os_major", "browser", "browser_major"},
		),

		DBPoolAvailable: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_pool_available_connections",
				Help: "Idle connections in the database pool",
			},
		),
		DBPoolInUse: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_pool_inuse_connections",
				Help: "Checked-out connections in the database pool",
			},
		),
		DBPoolState: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_pool_state",
				Help: "Pool state (0=uninitialized, 1=initializing, 2=ready, 3=failed)",
			},
		),
		DBPoolInitAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_pool_init_attempts_total",
				Help: "Pool initialization attempts by result",
			},
			[]string{"result"},
		),

		GeoCacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "geo_cache_hits_total",
				Help: "Geolocation cache hits",
			},
		),
		GeoCacheMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "geo_cache_misses_total",
				Help: "Geolocation cache misses",
			},
		),
		GeoCacheEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "geo_cache_entries",
				Help: "Entries currently held by the geolocation cache",
			},
		),
		GeoCacheEvictions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "geo_cache_evictions_total",
				Help: "Stale geolocation cache entries dropped on read",
			},
		),
		GeoLookupDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "geo_lookup_duration_seconds",
				Help:    "Duration of calls to the geolocation service",
				Buckets: []float64{.005, .01, .025, .05, .1, .2, .35, .5, 1},
			},
		),
		GeoLookupErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geo_lookup_errors_total",
				Help: "Failed geolocation lookups by reason",
			},
			[]string{"reason"}, // "timeout", "status", "decode", "transport", "circuit_open"
		),

		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
		CircuitBreakerTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_transitions_total",
				Help: "Circuit breaker state transitions",
			},
			[]string{"name", "from", "to"},
		),
	}
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus text exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// RecordAPIRequest records one finished request.
func (r *Registry) RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	r.APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	r.APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge up or down.
func (r *Registry) TrackActiveRequest(inc bool) {
	if inc {
		r.APIInflight.Inc()
	} else {
		r.APIInflight.Dec()
	}
}

// UABucket is the user-agent classification used as visit labels.
type UABucket struct {
	Device       string
	OS           string
	OSMajor      string
	Browser      string
	BrowserMajor string
}

// RecordVisit counts one visit. An empty or UNKNOWN country is counted in the
// total only.
func (r *Registry) RecordVisit(country string, ua UABucket) {
	r.VisitsTotal.Inc()
	if country != "" && country != "UNKNOWN" {
		r.VisitsByCountry.WithLabelValues(country).Inc()
	}
	r.VisitsByUA.WithLabelValues(ua.Device, ua.OS, ua.OSMajor, ua.Browser, ua.BrowserMajor).Inc()
}

// SetPoolOccupancy publishes idle and checked-out connection counts.
func (r *Registry) SetPoolOccupancy(available, inUse int) {
	r.DBPoolAvailable.Set(float64(available))
	r.DBPoolInUse.Set(float64(inUse))
}

// SetPoolState publishes the pool state machine position.
func (r *Registry) SetPoolState(state int) {
	r.DBPoolState.Set(float64(state))
}

// RecordPoolInitAttempt counts one pool initialization attempt.
func (r *Registry) RecordPoolInitAttempt(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	r.DBPoolInitAttempts.WithLabelValues(result).Inc()
}

// RecordGeoCache counts a cache hit or miss and publishes the entry count.
func (r *Registry) RecordGeoCache(hit bool, entries int) {
	if hit {
		r.GeoCacheHits.Inc()
	} else {
		r.GeoCacheMisses.Inc()
	}
	r.GeoCacheEntries.Set(float64(entries))
}

// RecordGeoCacheEvictions adds n stale-entry evictions.
func (r *Registry) RecordGeoCacheEvictions(n int64) {
	if n > 0 {
		r.GeoCacheEvictions.Add(float64(n))
	}
}

// RecordGeoLookup records one call to the geolocation service. reason is
// empty on success.
func (r *Registry) RecordGeoLookup(duration time.Duration, reason string) {
	r.GeoLookupDuration.Observe(duration.Seconds())
	if reason != "" {
		r.GeoLookupErrors.WithLabelValues(reason).Inc()
	}
}

// RecordCircuitBreakerTransition publishes a breaker state change.
func (r *Registry) RecordCircuitBreakerTransition(name, from, to string, state float64) {
	r.CircuitBreakerState.WithLabelValues(name).Set(state)
	r.CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

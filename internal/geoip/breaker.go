// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package geoip

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pldashboard/api/internal/logging"
	"github.com/pldashboard/api/internal/metrics"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("geo lookup: circuit open")

// BreakerSettings tunes the breaker around the lookup service.
type BreakerSettings struct {
	Name        string
	MaxRequests uint32        // requests allowed while half-open
	Interval    time.Duration // closed-state count reset
	Timeout     time.Duration // open duration before half-open
	MinRequests uint32        // requests before the ratio is considered
	FailureRate float64       // ratio that trips the breaker
}

// DefaultBreakerSettings returns the production breaker tuning.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:        "geo-lookup",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		MinRequests: 10,
		FailureRate: 0.6,
	}
}

// BreakerLookuper wraps a Lookuper with a gobreaker circuit breaker so a
// down lookup service costs nothing per request instead of a full timeout.
type BreakerLookuper struct {
	next Lookuper
	cb   *gobreaker.CircuitBreaker[Record]
	name string
}

// NewBreakerLookuper wraps next. reg may be nil.
func NewBreakerLookuper(next Lookuper, s BreakerSettings, reg *metrics.Registry) *BreakerLookuper {
	if reg != nil {
		reg.CircuitBreakerState.WithLabelValues(s.Name).Set(0)
	}
	log := logging.WithComponent("geoip")

	cb := gobreaker.NewCircuitBreaker[Record](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRate
			if shouldTrip {
				log.Warn().Str("breaker", s.Name).Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).Msg("Opening circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			log.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")
			if reg != nil {
				reg.RecordCircuitBreakerTransition(name, fromStr, toStr, stateToFloat(to))
			}
		},
		// A cancelled caller says nothing about the service's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerLookuper{next: next, cb: cb, name: s.Name}
}

// Lookup calls the wrapped Lookuper unless the circuit is open.
func (b *BreakerLookuper) Lookup(ctx context.Context, ip string) (Record, error) {
	rec, err := b.cb.Execute(func() (Record, error) {
		return b.next.Lookup(ctx, ip)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Record{}, ErrCircuitOpen
	}
	return rec, err
}

// State returns the breaker state as closed, half-open or open.
func (b *BreakerLookuper) State() string {
	return stateToString(b.cb.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

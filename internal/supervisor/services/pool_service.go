// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package services

import (
	"context"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/pldashboard/api/internal/logging"
)

// PoolWarmer creates the shared pool ahead of the first call.
// *database.Manager implements it.
type PoolWarmer interface {
	EnsurePool(ctx context.Context) error
}

// PoolWarmupService runs one EnsurePool at boot so the first data call does
// not pay for pool creation. It runs once whatever the outcome: a failed
// warmup leaves the pool to be created on demand by the next call.
type PoolWarmupService struct {
	warmer PoolWarmer
}

// NewPoolWarmupService creates the service.
func NewPoolWarmupService(warmer PoolWarmer) *PoolWarmupService {
	return &PoolWarmupService{warmer: warmer}
}

// Serve implements suture.Service. It always returns suture.ErrDoNotRestart.
func (s *PoolWarmupService) Serve(ctx context.Context) error {
	start := time.Now()
	if err := s.warmer.EnsurePool(ctx); err != nil {
		if ctx.Err() == nil {
			logging.Warn().Err(err).Dur("elapsed", time.Since(start)).
				Msg("DB pool warmup gave up; pool will be created on demand")
		}
		return suture.ErrDoNotRestart
	}
	logging.Info().Dur("elapsed", time.Since(start)).Msg("DB pool warmed up")
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer.
func (s *PoolWarmupService) String() string {
	return "db-pool-warmup"
}

// StatsPublisher republishes pool gauges. *database.Manager implements it.
type StatsPublisher interface {
	PublishMetrics()
}

// DefaultStatsInterval is how often pool gauges are refreshed.
const DefaultStatsInterval = 15 * time.Second

// PoolStatsService keeps the pool occupancy gauges current between calls,
// so idle connections closed by the pool show up without traffic.
type PoolStatsService struct {
	publisher StatsPublisher
	interval  time.Duration
}

// NewPoolStatsService creates the service. A non-positive interval means
// DefaultStatsInterval.
func NewPoolStatsService(publisher StatsPublisher, interval time.Duration) *PoolStatsService {
	if interval <= 0 {
		interval = DefaultStatsInterval
	}
	return &PoolStatsService{publisher: publisher, interval: interval}
}

// Serve implements suture.Service.
func (s *PoolStatsService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.publisher.PublishMetrics()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.publisher.PublishMetrics()
		}
	}
}

// String implements fmt.Stringer.
func (s *PoolStatsService) String() string {
	return "db-pool-stats"
}

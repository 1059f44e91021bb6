// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

type fakeWarmer struct {
	calls atomic.Int32
	err   error
}

func (f *fakeWarmer) EnsurePool(context.Context) error {
	f.calls.Add(1)
	return f.err
}

type fakePublisher struct{ calls atomic.Int32 }

func (f *fakePublisher) PublishMetrics() { f.calls.Add(1) }

func TestPoolWarmupService_NeverRestarts(t *testing.T) {
	t.Parallel()

	for _, warmErr := range []error{nil, errors.New("database unavailable: 30 attempts failed")} {
		w := &fakeWarmer{err: warmErr}
		err := NewPoolWarmupService(w).Serve(context.Background())
		if !errors.Is(err, suture.ErrDoNotRestart) {
			t.Errorf("Serve() error = %v, want ErrDoNotRestart", err)
		}
		if got := w.calls.Load(); got != 1 {
			t.Errorf("EnsurePool calls = %d, want 1", got)
		}
	}
}

func TestPoolWarmupService_UnderSupervisor(t *testing.T) {
	t.Parallel()

	w := &fakeWarmer{err: errors.New("connection refused")}
	sup := suture.New("test", suture.Spec{FailureBackoff: time.Millisecond, Timeout: time.Second})
	sup.Add(NewPoolWarmupService(w))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	<-sup.ServeBackground(ctx)

	// A failed warmup is not retried by the supervisor.
	if got := w.calls.Load(); got != 1 {
		t.Errorf("EnsurePool calls = %d, want 1", got)
	}
}

func TestPoolStatsService_Publishes(t *testing.T) {
	t.Parallel()

	p := &fakePublisher{}
	svc := NewPoolStatsService(p, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v, want DeadlineExceeded", err)
	}
	if got := p.calls.Load(); got < 2 {
		t.Errorf("PublishMetrics calls = %d, want at least 2", got)
	}
}

func TestPoolStatsService_DefaultInterval(t *testing.T) {
	t.Parallel()

	svc := NewPoolStatsService(&fakePublisher{}, 0)
	if svc.interval != DefaultStatsInterval {
		t.Errorf("interval = %v, want %v", svc.interval, DefaultStatsInterval)
	}
	if got := svc.String(); got != "db-pool-stats" {
		t.Errorf("String() = %q, want db-pool-stats", got)
	}
	if got := NewPoolWarmupService(&fakeWarmer{}).String(); got != "db-pool-warmup" {
		t.Errorf("String() = %q, want db-pool-warmup", got)
	}
}

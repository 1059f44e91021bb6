// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pldashboard/api/internal/metrics"
)

func fastOptions(attempts int) Options {
	return Options{InitAttempts: attempts, InitBackoff: time.Millisecond, CheckQuery: "SELECT 1"}
}

// waitForState polls until m reaches want or the deadline passes.
func waitForState(t *testing.T, m *Manager, want State, within time.Duration) {
	t.Helper()
	deadline := time.Now().Add(within)
	for time.Now().Before(deadline) {
		if m.State() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("State() = %v after %v, want %v", m.State(), within, want)
}

func TestEnsurePool_ConcurrentCallersShareOnePool(t *testing.T) {
	t.Parallel()

	opener := newFakeOpener(2)
	m := NewManager(opener, fastOptions(3), nil)
	defer m.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- m.EnsurePool(context.Background())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("EnsurePool() error = %v", err)
		}
	}
	if got := opener.opens.Load(); got != 1 {
		t.Errorf("opens = %d, want 1", got)
	}
	if m.State() != StateReady {
		t.Errorf("State() = %v, want ready", m.State())
	}
}

func TestEnsurePool_ExhaustsBudget(t *testing.T) {
	t.Parallel()

	reg := metrics.NewRegistry()
	opener := newFakeOpener(2)
	opener.down.Store(true)
	m := NewManager(opener, fastOptions(3), reg)
	defer m.Close()

	err := m.EnsurePool(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("EnsurePool() error = %v, want ErrUnavailable", err)
	}
	if !errors.Is(err, errBackendDown) {
		t.Errorf("EnsurePool() error = %v, want it to wrap the last open error", err)
	}
	if m.State() != StateFailed {
		t.Errorf("State() = %v, want failed", m.State())
	}
	if got := opener.attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
	if got := testutil.ToFloat64(reg.DBPoolInitAttempts.WithLabelValues("failure")); got != 3 {
		t.Errorf("failure attempts metric = %v, want 3", got)
	}
	if got := testutil.ToFloat64(reg.DBPoolState); got != float64(StateFailed) {
		t.Errorf("pool state gauge = %v, want %d", got, StateFailed)
	}
}

func TestEnsurePool_RecoversAfterFailure(t *testing.T) {
	t.Parallel()

	opener := newFakeOpener(2)
	opener.down.Store(true)
	m := NewManager(opener, fastOptions(2), nil)
	defer m.Close()

	if _, err := m.Acquire(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Acquire() error = %v, want ErrUnavailable", err)
	}

	opener.down.Store(false)
	if err := m.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if m.State() != StateReady {
		t.Errorf("State() = %v, want ready", m.State())
	}
}

func TestEnsurePool_FailedCheckClosesPool(t *testing.T) {
	t.Parallel()

	opener := newFakeOpener(1)
	opener.rows = nil
	m := NewManager(&checkFailOpener{fakeOpener: opener}, fastOptions(1), nil)
	defer m.Close()

	if err := m.EnsurePool(context.Background()); err == nil {
		t.Fatal("EnsurePool() error = nil, want check query failure")
	}
	p := opener.lastPool()
	if p == nil {
		t.Fatal("no pool was opened")
	}
	if !p.closed.Load() {
		t.Error("pool failing the check query was not closed")
	}
}

// checkFailOpener hands out pools whose queries fail.
type checkFailOpener struct {
	*fakeOpener
}

func (o *checkFailOpener) Open(ctx context.Context) (Pool, error) {
	p, err := o.fakeOpener.Open(ctx)
	if err != nil {
		return nil, err
	}
	p.(*fakePool).failQuery.Store(true)
	return p, nil
}

func TestEnsurePool_CallerDeadlineStopsWaitingOnly(t *testing.T) {
	t.Parallel()

	opener := newFakeOpener(1)
	opener.down.Store(true)
	m := NewManager(opener, Options{InitAttempts: 100, InitBackoff: time.Hour}, nil)
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := m.EnsurePool(ctx)
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("EnsurePool() error = %v, want ErrUnavailable wrapping DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("EnsurePool() returned after %v", elapsed)
	}
	// The budget is far from spent, so initialization is still running.
	if m.State() != StateInitializing {
		t.Errorf("State() = %v, want initializing", m.State())
	}
}

func TestEnsurePool_ShortDeadlinesDoNotShrinkBudget(t *testing.T) {
	t.Parallel()

	const budget = 6
	opener := newFakeOpener(1)
	opener.down.Store(true)
	m := NewManager(opener, Options{InitAttempts: budget, InitBackoff: 25 * time.Millisecond}, nil)
	defer m.Close()

	// Each caller gives up well before the budget could be spent.
	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		err := m.EnsurePool(ctx)
		cancel()
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("EnsurePool() #%d error = %v, want ErrUnavailable", i, err)
		}
		if m.State() == StateFailed {
			t.Fatalf("State() = failed after caller #%d gave up, want initializing", i)
		}
	}

	waitForState(t, m, StateFailed, 5*time.Second)
	if got := opener.attempts.Load(); got != budget {
		t.Errorf("attempts = %d, want the full budget of %d", got, budget)
	}
}

func TestEnsurePool_LaterCallerJoinsRunningInit(t *testing.T) {
	t.Parallel()

	opener := newFakeOpener(1)
	opener.down.Store(true)
	m := NewManager(opener, Options{InitAttempts: 1000, InitBackoff: 5 * time.Millisecond}, nil)
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := m.EnsurePool(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("EnsurePool() error = %v, want ErrUnavailable", err)
	}

	opener.down.Store(false)
	if err := m.EnsurePool(context.Background()); err != nil {
		t.Fatalf("EnsurePool() after recovery error = %v", err)
	}
	if got := opener.opens.Load(); got != 1 {
		t.Errorf("opens = %d, want 1", got)
	}
	if m.State() != StateReady {
		t.Errorf("State() = %v, want ready", m.State())
	}
}

func TestWithConn_CommitsAndReleases(t *testing.T) {
	t.Parallel()

	reg := metrics.NewRegistry()
	opener := newFakeOpener(2)
	m := NewManager(opener, fastOptions(1), reg)
	defer m.Close()

	var got []Row
	err := m.WithConn(context.Background(), func(l *Lease) error {
		var qerr error
		got, qerr = l.Query(context.Background(), "SELECT * FROM teams")
		return qerr
	})
	if err != nil {
		t.Fatalf("WithConn() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len(rows) = %d, want 1", len(got))
	}

	p := opener.lastPool()
	if got := p.commits.Load(); got != 1 {
		t.Errorf("commits = %d, want 1", got)
	}
	if got := p.Stat().InUse; got != 0 {
		t.Errorf("InUse = %d, want 0", got)
	}
	if got := testutil.ToFloat64(reg.DBPoolInUse); got != 0 {
		t.Errorf("in-use gauge = %v, want 0", got)
	}
	if got := testutil.ToFloat64(reg.DBPoolAvailable); got != 2 {
		t.Errorf("available gauge = %v, want 2", got)
	}
}

func TestWithConn_RollsBackOnError(t *testing.T) {
	t.Parallel()

	opener := newFakeOpener(1)
	m := NewManager(opener, fastOptions(1), nil)
	defer m.Close()

	boom := errors.New("boom")
	if err := m.WithConn(context.Background(), func(*Lease) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("WithConn() error = %v, want %v", err, boom)
	}

	p := opener.lastPool()
	if got := p.rollbacks.Load(); got != 1 {
		t.Errorf("rollbacks = %d, want 1", got)
	}
	if got := p.commits.Load(); got != 0 {
		t.Errorf("commits = %d, want 0", got)
	}
	if got := p.Stat().InUse; got != 0 {
		t.Errorf("InUse = %d, want 0", got)
	}
}

func TestWithConn_ReleasesOnPanic(t *testing.T) {
	t.Parallel()

	opener := newFakeOpener(1)
	m := NewManager(opener, fastOptions(1), nil)
	defer m.Close()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("WithConn() did not propagate the panic")
			}
		}()
		_ = m.WithConn(context.Background(), func(*Lease) error { panic("handler bug") })
	}()

	p := opener.lastPool()
	if got := p.rollbacks.Load(); got != 1 {
		t.Errorf("rollbacks = %d, want 1", got)
	}
	if got := p.Stat().InUse; got != 0 {
		t.Errorf("InUse = %d, want 0", got)
	}

	// The single slot is usable again.
	if err := m.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestRelease_DoubleReleaseIsNoop(t *testing.T) {
	t.Parallel()

	opener := newFakeOpener(1)
	m := NewManager(opener, fastOptions(1), nil)
	defer m.Close()

	lease, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if err := m.Release(lease, OutcomeSuccess); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := m.Release(lease, OutcomeFailure); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
	if err := m.Release(nil, OutcomeSuccess); err != nil {
		t.Errorf("Release(nil) error = %v", err)
	}

	p := opener.lastPool()
	if got := p.commits.Load(); got != 1 {
		t.Errorf("commits = %d, want 1", got)
	}
	if got := p.rollbacks.Load(); got != 0 {
		t.Errorf("rollbacks = %d, want 0", got)
	}

	if _, err := lease.Query(context.Background(), "SELECT 1"); !errors.Is(err, ErrLeaseReleased) {
		t.Errorf("Query() on released lease error = %v, want ErrLeaseReleased", err)
	}
}

func TestWithConn_NoLeakUnderLoad(t *testing.T) {
	t.Parallel()

	opener := newFakeOpener(2)
	m := NewManager(opener, fastOptions(1), nil)
	defer m.Close()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.WithConn(context.Background(), func(*Lease) error {
				if i%3 == 0 {
					return errors.New("fail")
				}
				return nil
			})
		}(i)
	}
	wg.Wait()

	p := opener.lastPool()
	if got := p.Stat().InUse; got != 0 {
		t.Errorf("InUse = %d, want 0", got)
	}
	if got := p.commits.Load() + p.rollbacks.Load(); got != 100 {
		t.Errorf("commits+rollbacks = %d, want 100", got)
	}
	if got := opener.opens.Load(); got != 1 {
		t.Errorf("opens = %d, want 1", got)
	}
}

// Backend down at startup, then up: calls fail with ErrUnavailable until the
// backend comes back, after which exactly one pool (min 1, max 2) serves
// everyone.
func TestManager_DownThenUp(t *testing.T) {
	t.Parallel()

	opener := newFakeOpener(2)
	opener.down.Store(true)
	m := NewManager(opener, fastOptions(2), nil)
	defer m.Close()

	for i := 0; i < 3; i++ {
		if err := m.Ping(context.Background()); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("Ping() #%d error = %v, want ErrUnavailable", i, err)
		}
	}
	if got := opener.opens.Load(); got != 0 {
		t.Errorf("opens while down = %d, want 0", got)
	}

	opener.down.Store(false)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- m.Ping(context.Background())
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	}

	if got := opener.opens.Load(); got != 1 {
		t.Errorf("opens = %d, want 1", got)
	}
	st := m.Stats()
	if st.State != StateReady {
		t.Errorf("State = %v, want ready", st.State)
	}
	if st.Max != 2 {
		t.Errorf("Max = %d, want 2", st.Max)
	}
	if st.InUse != 0 {
		t.Errorf("InUse = %d, want 0", st.InUse)
	}
}

func TestManager_Close(t *testing.T) {
	t.Parallel()

	opener := newFakeOpener(1)
	m := NewManager(opener, fastOptions(1), nil)

	if err := m.EnsurePool(context.Background()); err != nil {
		t.Fatalf("EnsurePool() error = %v", err)
	}
	p := opener.lastPool()

	m.Close()
	m.Close()

	if !p.closed.Load() {
		t.Error("pool was not closed")
	}
	if m.State() != StateUninitialized {
		t.Errorf("State() = %v, want uninitialized", m.State())
	}
	if err := m.EnsurePool(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("EnsurePool() after Close error = %v, want ErrClosed", err)
	}
	if _, err := m.Acquire(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrClosed", err)
	}
}

func TestManager_CloseInterruptsRetries(t *testing.T) {
	t.Parallel()

	opener := newFakeOpener(1)
	opener.down.Store(true)
	m := NewManager(opener, Options{InitAttempts: 1000, InitBackoff: 5 * time.Millisecond}, nil)

	done := make(chan error, 1)
	go func() { done <- m.EnsurePool(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	m.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("EnsurePool() error = %v, want ErrClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not stop the init loop")
	}
	if m.State() == StateFailed {
		t.Error("State() = failed, want Close to leave it uninitialized")
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state State
		want  string
	}{
		{StateUninitialized, "uninitialized"},
		{StateInitializing, "initializing"},
		{StateReady, "ready"},
		{StateFailed, "failed"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

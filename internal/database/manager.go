// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pldashboard/api/internal/logging"
	"github.com/pldashboard/api/internal/metrics"
)

// State is the position of the Manager's pool lifecycle.
type State int32

// Pool lifecycle states. Ready is the only state from which Acquire
// succeeds; Failed may move back to Initializing on the next EnsurePool.
const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome tells Release whether to commit or roll back.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
)

var (
	// ErrUnavailable means no live pool exists after the init attempt budget.
	ErrUnavailable = errors.New("database unavailable")

	// ErrClosed is returned once the Manager has been closed.
	ErrClosed = errors.New("database manager closed")

	// ErrLeaseReleased is returned by queries on a lease already handed back.
	ErrLeaseReleased = errors.New("lease already released")
)

// releaseTimeout bounds commit/rollback during Release, which runs even
// after the caller's context is gone.
const releaseTimeout = 5 * time.Second

// Options configures pool initialization.
type Options struct {
	InitAttempts int
	InitBackoff  time.Duration
	CheckQuery   string
}

// DefaultOptions returns 30 attempts, 2s apart, probing with SELECT 1.
func DefaultOptions() Options {
	return Options{
		InitAttempts: 30,
		InitBackoff:  2 * time.Second,
		CheckQuery:   "SELECT 1",
	}
}

// Manager owns zero or one live Pool. The pool is created lazily by the
// first EnsurePool, is never replaced once Ready, and is shared by every
// caller.
type Manager struct {
	opener  Opener
	opts    Options
	metrics *metrics.Registry

	// mu guards run. At most one initialization runs at a time and every
	// EnsurePool caller waits on it.
	mu  sync.Mutex
	run *initRun

	// lifetime is canceled by Close. Initialization runs on it rather than
	// on a caller's context.
	lifetime context.Context
	stop     context.CancelFunc

	pool   atomic.Pointer[poolHolder]
	state  atomic.Int32
	closed atomic.Bool

	closeOnce sync.Once
}

// initRun is one pass over the attempt budget.
type initRun struct {
	done chan struct{}
	err  error
}

type poolHolder struct {
	pool Pool
}

// NewManager creates a Manager. Nothing is opened until EnsurePool. reg may
// be nil.
func NewManager(opener Opener, opts Options, reg *metrics.Registry) *Manager {
	defaults := DefaultOptions()
	if opts.InitAttempts <= 0 {
		opts.InitAttempts = defaults.InitAttempts
	}
	if opts.InitBackoff < 0 {
		opts.InitBackoff = 0
	}
	if opts.CheckQuery == "" {
		opts.CheckQuery = defaults.CheckQuery
	}

	lifetime, stop := context.WithCancel(context.Background())
	m := &Manager{
		opener:   opener,
		opts:     opts,
		metrics:  reg,
		lifetime: lifetime,
		stop:     stop,
	}
	m.setState(StateUninitialized)
	m.publishOccupancy()
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

func (m *Manager) setState(s State) {
	m.state.Store(int32(s))
	if m.metrics != nil {
		m.metrics.SetPoolState(int(s))
	}
}

func (m *Manager) currentPool() Pool {
	if h := m.pool.Load(); h != nil {
		return h.pool
	}
	return nil
}

// EnsurePool makes sure a live pool exists. It returns immediately when one
// does. Otherwise it starts, or joins, an initialization that opens and
// checks a pool, retrying with a fixed backoff up to the attempt budget.
//
// The initialization is not tied to ctx: a caller whose context ends stops
// waiting and gets an error wrapping ErrUnavailable and ctx.Err(), while the
// attempts continue for later callers. Only exhausting the budget leaves the
// Manager in StateFailed; a later call starts a new budget.
func (m *Manager) EnsurePool(ctx context.Context) error {
	if m.currentPool() != nil {
		return nil
	}

	m.mu.Lock()
	if m.currentPool() != nil {
		m.mu.Unlock()
		return nil
	}
	if m.closed.Load() {
		m.mu.Unlock()
		return ErrClosed
	}
	run := m.run
	if run == nil {
		run = &initRun{done: make(chan struct{})}
		m.run = run
		m.setState(StateInitializing)
		go m.initialize(run)
	}
	m.mu.Unlock()

	select {
	case <-run.done:
		return run.err
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	}
}

// initialize runs the attempt loop for run and publishes its result.
func (m *Manager) initialize(run *initRun) {
	run.err = m.attempt()

	m.mu.Lock()
	m.run = nil
	m.mu.Unlock()
	close(run.done)
}

func (m *Manager) attempt() error {
	ctx := m.lifetime
	log := logging.Ctx(ctx)

	var lastErr error
	for attempt := 1; attempt <= m.opts.InitAttempts; attempt++ {
		pool, err := m.openAndCheck(ctx)
		if m.metrics != nil {
			m.metrics.RecordPoolInitAttempt(err == nil)
		}
		if err == nil {
			m.pool.Store(&poolHolder{pool: pool})
			m.setState(StateReady)
			m.publishOccupancy()
			log.Info().Str("backend", m.opener.Name()).Int("attempt", attempt).Msg("DB pool initialized")
			return nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return ErrClosed
		}
		log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", m.opts.InitAttempts).
			Msg("DB pool init attempt failed")

		if attempt == m.opts.InitAttempts {
			break
		}
		if sleepCtx(ctx, m.opts.InitBackoff) != nil {
			return ErrClosed
		}
	}

	m.setState(StateFailed)
	log.Error().Err(lastErr).Int("attempts", m.opts.InitAttempts).Msg("DB pool could not be initialized after retries")
	return fmt.Errorf("%w: %d attempts failed: %w", ErrUnavailable, m.opts.InitAttempts, lastErr)
}

// openAndCheck opens a pool and runs the check query on one connection. A
// pool that fails the check is closed.
func (m *Manager) openAndCheck(ctx context.Context) (Pool, error) {
	pool, err := m.opener.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("acquire check connection: %w", err)
	}
	_, err = conn.Query(ctx, m.opts.CheckQuery)
	conn.Release()
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("check query: %w", err)
	}
	return pool, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Lease is one checked-out connection with an open unit of work. It must be
// handed back through Manager.Release exactly once; extra releases are
// ignored.
type Lease struct {
	conn     Conn
	released atomic.Bool
}

// Query runs query inside the lease's unit of work.
func (l *Lease) Query(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	if l.released.Load() {
		return nil, ErrLeaseReleased
	}
	return l.conn.Query(ctx, query, args...)
}

// Acquire ensures the pool, checks out a connection and begins a unit of
// work. It fails with ErrUnavailable when no pool can be created.
func (m *Manager) Acquire(ctx context.Context) (*Lease, error) {
	if err := m.EnsurePool(ctx); err != nil {
		return nil, err
	}
	pool := m.currentPool()
	if pool == nil {
		return nil, ErrUnavailable
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		m.publishOccupancy()
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	if err := conn.Begin(ctx); err != nil {
		conn.Release()
		m.publishOccupancy()
		return nil, fmt.Errorf("begin: %w", err)
	}

	m.publishOccupancy()
	return &Lease{conn: conn}, nil
}

// Release commits (OutcomeSuccess) or rolls back (OutcomeFailure) the
// lease's unit of work, then always returns the connection to the pool. A
// nil or already-released lease is a no-op.
func (m *Manager) Release(lease *Lease, outcome Outcome) error {
	if lease == nil || !lease.released.CompareAndSwap(false, true) {
		return nil
	}
	defer m.publishOccupancy()
	defer lease.conn.Release()

	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	if outcome == OutcomeSuccess {
		if err := lease.conn.Commit(ctx); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	}
	if err := lease.conn.Rollback(ctx); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// WithConn runs fn on a leased connection. The lease is committed when fn
// returns nil and rolled back otherwise, including when fn panics; the
// connection goes back to the pool on every exit path.
func (m *Manager) WithConn(ctx context.Context, fn func(*Lease) error) (err error) {
	lease, err := m.Acquire(ctx)
	if err != nil {
		return err
	}

	outcome := OutcomeFailure
	defer func() {
		if relErr := m.Release(lease, outcome); relErr != nil {
			logging.Ctx(ctx).Warn().Err(relErr).Msg("Releasing connection")
			if err == nil {
				err = relErr
			}
		}
	}()

	if err = fn(lease); err == nil {
		outcome = OutcomeSuccess
	}
	return err
}

// Ping performs one acquire, check query and release round trip.
func (m *Manager) Ping(ctx context.Context) error {
	return m.WithConn(ctx, func(l *Lease) error {
		_, err := l.Query(ctx, m.opts.CheckQuery)
		return err
	})
}

// Stats is a snapshot of the Manager for health reporting.
type Stats struct {
	State State
	PoolStat
}

// Stats returns the current state and pool occupancy. Occupancy is zero
// while no pool exists.
func (m *Manager) Stats() Stats {
	s := Stats{State: m.State()}
	if pool := m.currentPool(); pool != nil {
		s.PoolStat = pool.Stat()
	}
	return s
}

// PublishMetrics republishes pool occupancy gauges.
func (m *Manager) PublishMetrics() {
	m.publishOccupancy()
}

func (m *Manager) publishOccupancy() {
	if m.metrics == nil {
		return
	}
	st := m.Stats()
	m.metrics.SetPoolOccupancy(st.Idle, st.InUse)
}

// Close closes the pool, if any. After Close every EnsurePool and Acquire
// returns ErrClosed.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed.Store(true)
		run := m.run
		m.mu.Unlock()

		// Stop the attempt loop and wait for it so its pool is not leaked.
		m.stop()
		if run != nil {
			<-run.done
		}

		if h := m.pool.Swap(nil); h != nil {
			h.pool.Close()
		}
		m.setState(StateUninitialized)
		m.publishOccupancy()
	})
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var errBackendDown = errors.New("connection refused")

// fakeOpener opens fakePools. While down is set every Open fails.
type fakeOpener struct {
	down     atomic.Bool
	opens    atomic.Int32
	attempts atomic.Int32
	max      int
	rows     []Row

	mu    sync.Mutex
	pools []*fakePool
}

func newFakeOpener(max int) *fakeOpener {
	return &fakeOpener{max: max, rows: []Row{{"id": 1}}}
}

func (o *fakeOpener) Name() string { return "fake" }

func (o *fakeOpener) Open(ctx context.Context) (Pool, error) {
	o.attempts.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.down.Load() {
		return nil, errBackendDown
	}
	o.opens.Add(1)
	p := &fakePool{max: o.max, rows: o.rows, slots: make(chan struct{}, o.max)}
	o.mu.Lock()
	o.pools = append(o.pools, p)
	o.mu.Unlock()
	return p, nil
}

func (o *fakeOpener) lastPool() *fakePool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.pools) == 0 {
		return nil
	}
	return o.pools[len(o.pools)-1]
}

type fakePool struct {
	max   int
	rows  []Row
	slots chan struct{}

	closed    atomic.Bool
	commits   atomic.Int32
	rollbacks atomic.Int32
	failQuery atomic.Bool
}

func (p *fakePool) Acquire(ctx context.Context) (Conn, error) {
	if p.closed.Load() {
		return nil, errors.New("pool closed")
	}
	select {
	case p.slots <- struct{}{}:
		return &fakeConn{pool: p}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *fakePool) Stat() PoolStat {
	inUse := len(p.slots)
	return PoolStat{Idle: p.max - inUse, InUse: inUse, Total: p.max, Max: p.max}
}

func (p *fakePool) Close() { p.closed.Store(true) }

type fakeConn struct {
	pool     *fakePool
	released atomic.Bool
}

func (c *fakeConn) Begin(context.Context) error { return nil }

func (c *fakeConn) Commit(context.Context) error {
	c.pool.commits.Add(1)
	return nil
}

func (c *fakeConn) Rollback(context.Context) error {
	c.pool.rollbacks.Add(1)
	return nil
}

func (c *fakeConn) Query(context.Context, string, ...interface{}) ([]Row, error) {
	if c.pool.failQuery.Load() {
		return nil, errors.New("relation does not exist")
	}
	return c.pool.rows, nil
}

func (c *fakeConn) Release() {
	if !c.released.CompareAndSwap(false, true) {
		panic("connection returned twice")
	}
	<-c.pool.slots
}

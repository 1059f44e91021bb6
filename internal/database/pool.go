// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package database

import "context"

// Row is one result row keyed by column name, with values already converted
// to JSON-friendly Go types.
type Row = map[string]interface{}

// Pool is a bounded set of live connections. Checkout and return are safe
// for concurrent use.
type Pool interface {
	// Acquire checks out one connection, waiting per the pool's own policy.
	Acquire(ctx context.Context) (Conn, error)

	// Stat reports current occupancy.
	Stat() PoolStat

	// Close closes every connection.
	Close()
}

// Conn is one checked-out connection. A unit of work runs between Begin and
// Commit or Rollback; Release returns the connection to its pool.
type Conn interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Query(ctx context.Context, query string, args ...interface{}) ([]Row, error)
	Release()
}

// Opener creates a new Pool against the configured backend.
type Opener interface {
	Open(ctx context.Context) (Pool, error)
	// Name identifies the backend in logs.
	Name() string
}

// PoolStat is a snapshot of pool occupancy.
type PoolStat struct {
	Idle  int
	InUse int
	Total int
	Max   int
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/pldashboard/api/internal/config"
)

// DuckDBOpener opens a DuckDB database through database/sql. It serves local
// development and tests against a file or in-memory copy of the tables.
type DuckDBOpener struct {
	cfg *config.DatabaseConfig
}

// NewDuckDBOpener creates an Opener for the DuckDB backend.
func NewDuckDBOpener(cfg *config.DatabaseConfig) *DuckDBOpener {
	return &DuckDBOpener{cfg: cfg}
}

// Name implements Opener.
func (o *DuckDBOpener) Name() string {
	return "duckdb"
}

// Open implements Opener.
func (o *DuckDBOpener) Open(ctx context.Context) (Pool, error) {
	path := o.cfg.Path
	if path != "" {
		// 0750 per gosec G301
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(o.cfg.PoolMax)
	db.SetMaxIdleConns(max(o.cfg.PoolMin, 1))

	pingCtx, cancel := context.WithTimeout(ctx, o.cfg.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &sqlPool{db: db}, nil
}

// OpenSQLPool wraps an already opened *sql.DB as a Pool.
func OpenSQLPool(db *sql.DB) Pool {
	return &sqlPool{db: db}
}

type sqlPool struct {
	db *sql.DB
}

func (p *sqlPool) Acquire(ctx context.Context) (Conn, error) {
	c, err := p.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlConn{conn: c}, nil
}

func (p *sqlPool) Stat() PoolStat {
	s := p.db.Stats()
	return PoolStat{
		Idle:  s.Idle,
		InUse: s.InUse,
		Total: s.OpenConnections,
		Max:   s.MaxOpenConnections,
	}
}

func (p *sqlPool) Close() {
	_ = p.db.Close()
}

type sqlConn struct {
	conn *sql.Conn
	tx   *sql.Tx
}

func (c *sqlConn) Begin(ctx context.Context) error {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	c.tx = tx
	return nil
}

func (c *sqlConn) Commit(context.Context) error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Commit()
	c.tx = nil
	return err
}

func (c *sqlConn) Rollback(context.Context) error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Rollback()
	c.tx = nil
	return err
}

func (c *sqlConn) Query(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	var rows *sql.Rows
	var err error
	if c.tx != nil {
		rows, err = c.tx.QueryContext(ctx, query, args...)
	} else {
		rows, err = c.conn.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []Row{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		normalizeRow(row)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (c *sqlConn) Release() {
	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	_ = c.conn.Close()
}

// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pldashboard/api/internal/config"
)

// PostgresOpener opens pgxpool pools from DatabaseConfig.
type PostgresOpener struct {
	cfg *config.DatabaseConfig
}

// NewPostgresOpener creates an Opener for the Postgres backend.
func NewPostgresOpener(cfg *config.DatabaseConfig) *PostgresOpener {
	return &PostgresOpener{cfg: cfg}
}

// Name implements Opener.
func (o *PostgresOpener) Name() string {
	return "postgres"
}

// Open implements Opener. MinConns connections are dialled in the
// background by pgxpool; the Manager's check query forces the first one.
func (o *PostgresOpener) Open(ctx context.Context) (Pool, error) {
	pcfg, err := pgxpool.ParseConfig(o.cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pcfg.MinConns = int32(o.cfg.PoolMin) //nolint:gosec // bounded by config validation
	pcfg.MaxConns = int32(o.cfg.PoolMax) //nolint:gosec // bounded by config validation
	pcfg.ConnConfig.ConnectTimeout = o.cfg.ConnectTimeout
	if o.cfg.ApplicationName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = o.cfg.ApplicationName
	}

	connectCtx, cancel := context.WithTimeout(ctx, o.cfg.ConnectTimeout)
	defer cancel()

	p, err := pgxpool.NewWithConfig(connectCtx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	return &pgxPool{pool: p}, nil
}

type pgxPool struct {
	pool *pgxpool.Pool
}

func (p *pgxPool) Acquire(ctx context.Context) (Conn, error) {
	c, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxConn{conn: c}, nil
}

func (p *pgxPool) Stat() PoolStat {
	s := p.pool.Stat()
	return PoolStat{
		Idle:  int(s.IdleConns()),
		InUse: int(s.AcquiredConns()),
		Total: int(s.TotalConns()),
		Max:   int(s.MaxConns()),
	}
}

func (p *pgxPool) Close() {
	p.pool.Close()
}

type pgxConn struct {
	conn *pgxpool.Conn
	tx   pgx.Tx
}

func (c *pgxConn) Begin(ctx context.Context) error {
	tx, err := c.conn.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return err
	}
	c.tx = tx
	return nil
}

func (c *pgxConn) Commit(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Commit(ctx)
	c.tx = nil
	return err
}

func (c *pgxConn) Rollback(ctx context.Context) error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Rollback(ctx)
	c.tx = nil
	return err
}

func (c *pgxConn) Query(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	var rows pgx.Rows
	var err error
	if c.tx != nil {
		rows, err = c.tx.Query(ctx, query, args...)
	} else {
		rows, err = c.conn.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, err
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	for _, m := range maps {
		normalizeRow(m)
	}
	return maps, nil
}

func (c *pgxConn) Release() {
	if c.tx != nil {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		_ = c.tx.Rollback(ctx)
		cancel()
		c.tx = nil
	}
	c.conn.Release()
}

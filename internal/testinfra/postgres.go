// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pldashboard/api/internal/config"
)

const (
	// DefaultPostgresImage matches the production major version.
	DefaultPostgresImage = "postgres:16-alpine"

	// DefaultPostgresPort is the container-side port.
	DefaultPostgresPort = "5432"

	postgresUser     = "pldashboard"
	postgresPassword = "p@ss:w/rd" // exercises DSN escaping
	postgresDB       = "pldashboard"
)

// PostgresContainer is a disposable Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	Host      string
	Port      int
}

type postgresOptions struct {
	image        string
	startTimeout time.Duration
	initScripts  []string
}

// PostgresOption configures NewPostgresContainer.
type PostgresOption func(*postgresOptions)

// WithPostgresImage overrides the image.
func WithPostgresImage(image string) PostgresOption {
	return func(o *postgresOptions) { o.image = image }
}

// WithInitScript mounts a SQL file into docker-entrypoint-initdb.d. Scripts
// run in the order given.
func WithInitScript(hostPath string) PostgresOption {
	return func(o *postgresOptions) { o.initScripts = append(o.initScripts, hostPath) }
}

// NewPostgresContainer starts Postgres and waits until it accepts
// connections. The caller must Terminate it.
func NewPostgresContainer(ctx context.Context, t *testing.T, opts ...PostgresOption) (*PostgresContainer, error) {
	cfg := postgresOptions{
		image:        DefaultPostgresImage,
		startTimeout: 90 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	files := make([]testcontainers.ContainerFile, 0, len(cfg.initScripts))
	for i, script := range cfg.initScripts {
		files = append(files, testcontainers.ContainerFile{
			HostFilePath:      script,
			ContainerFilePath: fmt.Sprintf("/docker-entrypoint-initdb.d/%02d.sql", i),
			FileMode:          0o644,
		})
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultPostgresPort + "/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
		},
		Files: files,
		// The entrypoint restarts the server once after init scripts.
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(DefaultPostgresPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
		Logger:           NewContainerLogger(t),
	})
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultPostgresPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}
	portNum, err := strconv.Atoi(port.Port())
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("parse mapped port: %w", err)
	}

	return &PostgresContainer{Container: container, Host: host, Port: portNum}, nil
}

// DatabaseConfig returns a config pointing at the container.
func (p *PostgresContainer) DatabaseConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            p.Host,
		Port:            p.Port,
		Name:            postgresDB,
		User:            postgresUser,
		Password:        postgresPassword,
		SSLMode:         "disable",
		PoolMin:         1,
		PoolMax:         4,
		InitAttempts:    5,
		InitBackoff:     500 * time.Millisecond,
		ConnectTimeout:  10 * time.Second,
		ApplicationName: "pldashboard-api-test",
	}
}

// Terminate stops and removes the container.
func (p *PostgresContainer) Terminate(ctx context.Context) error {
	if p.Container == nil {
		return nil
	}
	return p.Container.Terminate(ctx)
}

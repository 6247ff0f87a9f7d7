// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package testhelpers provides containerized infrastructure for integration tests.
//
// Tests using it carry the `container` build tag and need a reachable Docker
// daemon:
//
//	go test -tags container ./...
package testhelpers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/socialnet/internal/platform/migration"
	pgstore "github.com/taibuivan/socialnet/internal/platform/postgres"
)

const (
	postgresImage = "postgres:17-alpine"
	redisImage    = "redis:7-alpine"

	startupTimeout = 60 * time.Second
)

// StartPostgres runs a disposable PostgreSQL server and returns its DSN.
// The container is terminated when the test completes.
func StartPostgres(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}

	ctx := context.Background()
	container := start(t, ctx, testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "socialnet",
			"POSTGRES_PASSWORD": "socialnet",
			"POSTGRES_DB":       "socialnet",
		},
		// The entrypoint restarts the server once after init; wait for the second banner.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(startupTimeout),
	})

	host := hostOf(t, ctx, container)
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("Failed to get postgres port: %v", err)
	}

	return fmt.Sprintf("postgres://socialnet:socialnet@%s:%s/socialnet?sslmode=disable", host, port.Port())
}

// StartMigratedPostgres starts PostgreSQL, applies every source in order and
// returns a pool that is closed when the test completes.
func StartMigratedPostgres(t *testing.T, sources ...migration.Source) *pgxpool.Pool {
	t.Helper()

	dsn := StartPostgres(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, source := range sources {
		if err := migration.RunUp(dsn, source, logger); err != nil {
			t.Fatalf("Failed to migrate %s: %v", source.Table, err)
		}
	}

	pool, err := pgstore.NewPool(context.Background(), pgstore.Options{DSN: dsn, Application: "test"}, logger)
	if err != nil {
		t.Fatalf("Failed to open postgres pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// StartRedis runs a disposable Redis server and returns its URL.
func StartRedis(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}

	ctx := context.Background()
	container := start(t, ctx, testcontainers.ContainerRequest{
		Image:        redisImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(startupTimeout),
	})

	host := hostOf(t, ctx, container)
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("Failed to get redis port: %v", err)
	}

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func start(t *testing.T, ctx context.Context, request testcontainers.ContainerRequest) testcontainers.Container {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: request,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start %s container: %v", request.Image, err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate %s container: %v", request.Image, err)
		}
	})

	return container
}

func hostOf(t *testing.T, ctx context.Context, container testcontainers.Container) string {
	t.Helper()

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	return host
}

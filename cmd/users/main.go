// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command users owns accounts and credentials and signs session tokens.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL and Redis.
//  4. Run database migrations (idempotent).
//  5. Generate the signing key and announce its public half (fatal on failure).
//  6. Start HTTP server with graceful shutdown.
//
// The routes are internal: only the gateway is expected to reach them.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/socialnet/internal/api"
	"github.com/taibuivan/socialnet/internal/platform/config"
	"github.com/taibuivan/socialnet/internal/platform/constants"
	"github.com/taibuivan/socialnet/internal/platform/events"
	"github.com/taibuivan/socialnet/internal/platform/logging"
	"github.com/taibuivan/socialnet/internal/platform/migration"
	pgstore "github.com/taibuivan/socialnet/internal/platform/postgres"
	redisstore "github.com/taibuivan/socialnet/internal/platform/redis"
	"github.com/taibuivan/socialnet/internal/platform/sec"
	"github.com/taibuivan/socialnet/internal/users/account"
	"github.com/taibuivan/socialnet/internal/users/auth"
	"github.com/taibuivan/socialnet/internal/users/migrations"
)

const app = "users"

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := logging.New(os.Stdout, app, false)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load[config.Store](app)
	must(log, err, "load configuration")

	if cfg.Debug {
		log = logging.New(os.Stdout, app, true)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, pgstore.Options{
		DSN:         cfg.DatabaseURL,
		Application: app,
		MaxConns:    cfg.DBMaxConns,
		MinConns:    cfg.DBMinConns,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, migrations.Source, log), "run migrations")

	// ── 5. Domain Wiring & Key Distribution ───────────────────────────────
	bus := events.NewRedisBus(rdb, log)

	authority, err := sec.NewKeyAuthority(constants.AuthIssuer)
	must(log, err, "generate signing key")

	accountRepository := account.NewPostgresRepository(pool)
	accountService := account.NewService(accountRepository, bus, log)
	authService := auth.NewService(auth.NewPostgresRepository(pool), accountRepository, authority, bus, log)

	// Without the announcement no gateway can verify our tokens.
	must(log, authService.AnnounceKey(startupCtx), "announce signing key")

	accountHandler := account.NewHandler(accountService)
	authHandler := auth.NewHandler(authService)

	liveness, readiness := api.NewHealthHandlers(log,
		api.Check{Name: "database", Probe: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		api.Check{Name: "redis", Probe: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
	)

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(log, api.Options{Port: cfg.ServerPort, CORS: cfg}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Routes: func(router chi.Router) {
			authHandler.RegisterRoutes(router)
			accountHandler.RegisterRoutes(router)
		},
	})

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

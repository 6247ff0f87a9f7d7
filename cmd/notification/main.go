// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command notification pushes domain events to clients over WebSocket.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis and start consuming the signing key.
//  4. Start forwarding user-facing events to connected sockets.
//  5. Start HTTP server with graceful shutdown.
//
// Sockets are rejected with 1013 until a users service announced its key.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/taibuivan/socialnet/internal/api"
	"github.com/taibuivan/socialnet/internal/authgate"
	"github.com/taibuivan/socialnet/internal/notification"
	"github.com/taibuivan/socialnet/internal/platform/config"
	"github.com/taibuivan/socialnet/internal/platform/constants"
	"github.com/taibuivan/socialnet/internal/platform/events"
	"github.com/taibuivan/socialnet/internal/platform/logging"
	redisstore "github.com/taibuivan/socialnet/internal/platform/redis"
	"github.com/taibuivan/socialnet/internal/platform/sec"
)

const app = "notification"

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := logging.New(os.Stdout, app, false)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load[config.Notification](app)
	must(log, err, "load configuration")

	if cfg.Debug {
		log = logging.New(os.Stdout, app, true)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Duration("auth_timeout", cfg.AuthTimeout),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// ── 3. Redis & Key Distribution ───────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	bus := events.NewRedisBus(rdb, log)
	ring := sec.NewKeyring()
	if err := authgate.Seed(startupCtx, bus, ring, log); err != nil {
		log.Warn("auth_key_seed_failed", slog.Any("error", err))
	}

	var consumers sync.WaitGroup
	events.Start(runCtx, &consumers, bus,
		authgate.Subscription(ring, cfg.KeyConsumerGroup(), cfg.BusConsumerName, log), log)

	// ── 4. Event Forwarding ───────────────────────────────────────────────
	hub := notification.NewHub(log)
	router := notification.NewEventRouter(hub, log)

	// A socket lives on one replica only, so every replica reads every event.
	events.Start(runCtx, &consumers, bus, events.Subscription{
		Group:    cfg.InstanceGroup(),
		Consumer: cfg.BusConsumerName,
		Topics:   router.Topics(),
		Handler:  router.Handle,
	}, log)

	handler := notification.NewHandler(hub, ring, cfg.AuthTimeout, log)

	// Ready means "can verify tokens": the key alone decides.
	liveness, readiness := api.NewHealthHandlers(log, api.KeyCheck(ring.Ready))

	// ── 5. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(log, api.Options{Port: cfg.ServerPort, CORS: cfg}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Routes:    handler.RegisterRoutes,
	})
	// Hijacked sockets are not tracked by the HTTP server.
	server.RegisterOnShutdown(hub.CloseAll)

	// ── 6. Graceful Shutdown ──────────────────────────────────────────────
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
	shutdownErr := server.Shutdown(constants.ShutdownTimeout)

	stop()
	consumers.Wait()

	if shutdownErr != nil {
		log.Error("shutdown error", slog.Any("error", shutdownErr))
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

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration provides a thin wrapper around golang-migrate for
// running database schema migrations.
//
// # Architecture
//
// Every store-backed service embeds its own SQL files and tracks them in its
// own version table, so several services may share one database without
// stepping on each other's schema history.
package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Source describes the embedded migrations of one service.
type Source struct {
	// FS holds the .sql files, usually an embed.FS.
	FS fs.FS
	// Dir is the directory inside FS (e.g. "migrations").
	Dir string
	// Table is the version table of the owning service.
	Table string
}

// RunUp applies all pending UP migrations of source.
//
// # Parameters
//   - dsn: A libpq-compatible DSN or postgres:// URL.
//   - source: The embedded migrations and their version table.
//   - logger: Structured logger for migration events.
func RunUp(dsn string, source Source, logger *slog.Logger) error {
	driver, err := iofs.New(source.FS, source.Dir)
	if err != nil {
		return fmt.Errorf("migration: failed to open embedded source: %w", err)
	}

	databaseURL, err := pgx5URL(dsn, source.Table)
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", driver, databaseURL)
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceError, dbError := migrator.Close()
		if sourceError != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
		}
		if dbError != nil {
			logger.Error("migration_db_close_failed", slog.Any("error", dbError))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}

	currentVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to get current version: %w", err)
	}

	if isDirty {
		return fmt.Errorf("migration: database is in a dirty state at version %d (manual intervention required)", currentVersion)
	}

	logger.Info("migration_started",
		slog.String("table", source.Table),
		slog.Int("current_version", int(currentVersion)),
	)

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date", slog.String("table", source.Table))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.String("table", source.Table),
		slog.Int("from_version", int(currentVersion)),
		slog.Int("to_version", int(newVersion)),
	)

	return nil
}

// pgx5URL rewrites dsn to the pgx5:// scheme and selects the version table.
func pgx5URL(dsn, table string) (string, error) {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			dsn = "pgx5://" + strings.TrimPrefix(dsn, prefix)
			break
		}
	}

	parsed, err := url.Parse(dsn)
	if err != nil || parsed.Scheme != "pgx5" {
		return "", fmt.Errorf("migration: unsupported database URL")
	}

	if table != "" {
		query := parsed.Query()
		query.Set("x-migrations-table", table)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String(), nil
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return l.verbose
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Raw SQLSTATE codes never reach a client: they are classified here into
// the [apperr] taxonomy at the store boundary.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
)

// Wrap inspects a database error and converts it into an [apperr.AppError].
//
// # Mapping
//
//   - [pgx.ErrNoRows]: 404 for resource.
//   - unique_violation (23505): 409, the row already exists.
//   - foreign_key_violation (23503): 404, a referenced row is missing.
//   - anything else: 500 with the original error kept as cause.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource).WithCause(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(resource + " already exists").WithCause(err)
		case pgerrcode.ForeignKeyViolation:
			return apperr.NotFound(resource + " reference").WithCause(err)
		}
	}

	return apperr.Internal(err)
}

// IsNotFound reports whether err was produced by a missing row.
func IsNotFound(err error) bool {
	ae := apperr.As(err)
	return ae != nil && ae.Code == "NOT_FOUND"
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/database/schema"
	"github.com/taibuivan/socialnet/internal/platform/dberr"
)

// # Repository Implementation

// PostgresRepository implements [Repository] on the users.account table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation for accounts.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row. A duplicate email surfaces as apperr.Conflict.
func (repository *PostgresRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)`,
		schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.Username, schema.UserAccount.IsAdmin,
		schema.UserAccount.IsBlocked, schema.UserAccount.CreatedAt,
	)

	_, err := repository.pool.Exec(ctx, query,
		user.Email,
		user.Username,
		user.IsAdmin,
		user.IsBlocked,
		user.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

/*
FindByEmail retrieves an account from the users.account table.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.Email, schema.UserAccount.Username, schema.UserAccount.IsAdmin,
		schema.UserAccount.IsBlocked, schema.UserAccount.CreatedAt,
		schema.UserAccount.Table,
		schema.UserAccount.Email,
	)

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, email).Scan(
		&user.Email,
		&user.Username,
		&user.IsAdmin,
		&user.IsBlocked,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

// Update overwrites username and flags of an existing account.
func (repository *PostgresRepository) Update(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.IsAdmin, schema.UserAccount.IsBlocked,
		schema.UserAccount.Email,
	)

	tag, err := repository.pool.Exec(ctx, query,
		user.Email,
		user.Username,
		user.IsAdmin,
		user.IsBlocked,
	)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// Delete removes the account row. The credential row follows through ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(ctx context.Context, email string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Email)

	tag, err := repository.pool.Exec(ctx, query, email)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// Count returns the number of rows in users.account.
func (repository *PostgresRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.UserAccount.Table)

	var count int
	if err := repository.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "User")
	}

	return count, nil
}

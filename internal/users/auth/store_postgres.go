// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/database/schema"
	"github.com/taibuivan/socialnet/internal/platform/dberr"
	"github.com/taibuivan/socialnet/internal/platform/sec"
)

// # Credential Repository

// PostgresRepository implements [Repository] on the users.credential table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// errUnhashed guards the table against cleartext values.
var errUnhashed = errors.New("auth: refusing to store an unhashed password")

/*
Create inserts a credential row.

Description: The userid column references users.account, so a credential for
an unknown account is rejected by the foreign key and reported as NotFound.
*/
func (repository *PostgresRepository) Create(ctx context.Context, credential *Credential) error {
	if !credential.Password.IsHashed() {
		return apperr.Internal(errUnhashed)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)`,
		schema.UserCredential.Table,
		schema.UserCredential.UserID, schema.UserCredential.PasswordHash, schema.UserCredential.UpdatedAt,
	)

	_, err := repository.pool.Exec(ctx, query,
		credential.UserID,
		credential.Password.Value(),
		credential.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Credential")
	}

	return nil
}

// FindByUserID loads the stored hash of an account.
func (repository *PostgresRepository) FindByUserID(ctx context.Context, userID string) (*Credential, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserCredential.UserID, schema.UserCredential.PasswordHash, schema.UserCredential.UpdatedAt,
		schema.UserCredential.Table,
		schema.UserCredential.UserID,
	)

	var (
		credential Credential
		hash       string
	)
	err := repository.pool.QueryRow(ctx, query, userID).Scan(
		&credential.UserID,
		&hash,
		&credential.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Credential")
	}

	// A row without a bcrypt hash can never match any password.
	if !sec.IsPasswordHash(hash) {
		return nil, apperr.Internal(fmt.Errorf("credential of %s is not a bcrypt hash", userID))
	}
	credential.Password = HashedPassword(hash)

	return &credential, nil
}

// UpdatePassword replaces the hash of an existing credential.
func (repository *PostgresRepository) UpdatePassword(ctx context.Context, credential *Credential) error {
	if !credential.Password.IsHashed() {
		return apperr.Internal(errUnhashed)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1`,
		schema.UserCredential.Table,
		schema.UserCredential.PasswordHash, schema.UserCredential.UpdatedAt,
		schema.UserCredential.UserID,
	)

	tag, err := repository.pool.Exec(ctx, query,
		credential.UserID,
		credential.Password.Value(),
		credential.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Credential")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Credential")
	}

	return nil
}

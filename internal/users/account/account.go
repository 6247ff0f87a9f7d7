// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages the identity records owned by the users service.

An account is keyed by its email address. The email is the subject of every
session token and the identifier the other services use to refer to a user.

# Architecture

  - Entities: User.
  - Repository: Persistence contract, implemented on Postgres.
  - Service: Lifecycle use cases (create, rename, block, delete) and the events
    they publish for the rest of the platform.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/socialnet/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the social network.
type User struct {
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	IsBlocked bool      `json:"is_blocked"`
	CreatedAt time.Time `json:"created_at"`
}

// Role returns the token role derived from the admin flag.
func (user *User) Role() sec.UserRole {
	return sec.RoleOf(user.IsAdmin)
}

// State returns the token account state derived from the blocked flag.
func (user *User) State() sec.AccountState {
	return sec.StateOf(user.IsBlocked)
}

// # Field Identifiers

const (
	FieldEmail    = "email"
	FieldUsername = "username"
)

// # Repository Contracts

// Repository defines the persistence contract for user accounts.
type Repository interface {
	/*
		Create persists a new account.

		Returns:
		  - error: apperr.Conflict if the email is already registered
	*/
	Create(ctx context.Context, user *User) error

	/*
		FindByEmail retrieves an account by its email.

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update overwrites the mutable fields (username and flags) of an account.
	Update(ctx context.Context, user *User) error

	/*
		Delete removes an account and, through the foreign key, its credential.

		Returns:
		  - error: apperr.NotFound if no account matched
	*/
	Delete(ctx context.Context, email string) error

	// Count returns the number of registered accounts.
	Count(ctx context.Context) (int, error)
}

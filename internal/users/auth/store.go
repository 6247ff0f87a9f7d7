// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # Credential Data Access

// Repository defines the data access contract for credentials.
type Repository interface {
	/*
		Create persists the credential of an existing account.

		Returns:
		  - error: apperr.Conflict if the account already has one,
		    apperr.NotFound if the account does not exist
	*/
	Create(ctx context.Context, credential *Credential) error

	/*
		FindByUserID returns the credential of an account.

		Returns:
		  - *Credential: With a hashed [Password]
		  - error: apperr.NotFound or storage failures
	*/
	FindByUserID(ctx context.Context, userID string) (*Credential, error)

	// UpdatePassword replaces the stored hash of an account.
	UpdatePassword(ctx context.Context, credential *Credential) error
}

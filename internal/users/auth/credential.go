// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements credentials, login and token issuance of the users service.

# Architecture

  - Entities: Credential, Password.
  - Repository: Credential persistence keyed by the account email.
  - Service: Login, credential management and the announcement of the
    process signing key.

The signing key lives only in memory. Every restart produces a new key and
invalidates all tokens issued before it.
*/
package auth

import "time"

// # Domain Entities

// Credential is the password of one account, keyed by the account email.
type Credential struct {
	UserID    string
	Password  Password
	UpdatedAt time.Time
}

// # Field Identifiers

const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldOldPassword = "old_password"
	FieldNewPassword = "new_password"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
)

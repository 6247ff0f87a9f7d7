// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"crypto/subtle"
	"strings"
	"unicode"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/sec"
)

// # Password Policy

const (
	// MinPasswordLength is the minimum number of characters of a new password.
	MinPasswordLength = 8

	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72

	// SpecialCharacters lists the symbols of which a new password needs at least one.
	SpecialCharacters = `!@#$%^&*()_+-=[]{}|;:'",.<>?/`
)

// Password is either a cleartext value received from a client or a bcrypt
// hash loaded from storage. The flag travels with the value so that a hash is
// never hashed twice.
type Password struct {
	value  string
	hashed bool
}

// NewPassword validates a cleartext password against the policy.
//
// The policy only applies to passwords being created or changed. Login
// attempts use [ClearPassword] so that a weak guess is a plain mismatch.
func NewPassword(plain string) (Password, error) {
	if err := validatePolicy(plain); err != nil {
		return Password{}, err
	}
	return Password{value: plain}, nil
}

// ClearPassword wraps a cleartext value without validating it.
func ClearPassword(plain string) Password {
	return Password{value: plain}
}

// HashedPassword wraps a hash loaded from storage.
func HashedPassword(hash string) Password {
	return Password{value: hash, hashed: true}
}

// IsHashed reports whether the value is a hash.
func (p Password) IsHashed() bool { return p.hashed }

// Value returns the raw representation, a hash when [Password.IsHashed].
func (p Password) Value() string { return p.value }

// Hash returns the hashed form. A hashed password is returned unchanged.
func (p Password) Hash() (Password, error) {
	if p.hashed {
		return p, nil
	}

	hash, err := sec.HashPassword(p.value)
	if err != nil {
		return Password{}, err
	}
	return HashedPassword(hash), nil
}

/*
Match compares two passwords whatever their representation.

  - hashed against clear (either side): bcrypt comparison.
  - clear against clear: constant-time equality.
  - hashed against hashed: raw string equality.

Two bcrypt hashes of the same password differ because of the salt, so the
last case only matches a hash against an identical copy of itself.
*/
func (p Password) Match(other Password) bool {
	switch {
	case p.hashed && !other.hashed:
		return sec.CheckPasswordHash(other.value, p.value)
	case !p.hashed && other.hashed:
		return sec.CheckPasswordHash(p.value, other.value)
	default:
		return subtle.ConstantTimeCompare([]byte(p.value), []byte(other.value)) == 1
	}
}

func validatePolicy(password string) error {
	var message string
	switch {
	case len([]rune(password)) < MinPasswordLength:
		message = "password must have at least 8 characters"
	case len(password) > MaxPasswordBytes:
		message = "password must have at most 72 bytes"
	case !strings.ContainsFunc(password, unicode.IsUpper):
		message = "password must contain uppercase characters"
	case !strings.ContainsFunc(password, unicode.IsLower):
		message = "password must contain lowercase characters"
	case !strings.ContainsFunc(password, unicode.IsDigit):
		message = "password must contain digits"
	case !strings.ContainsAny(password, SpecialCharacters):
		message = "password must contain special characters"
	default:
		return nil
	}

	return apperr.ValidationError(message, apperr.FieldError{Field: FieldPassword, Message: message})
}

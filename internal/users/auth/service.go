// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/constants"
	"github.com/taibuivan/socialnet/internal/platform/dberr"
	"github.com/taibuivan/socialnet/internal/platform/events"
	"github.com/taibuivan/socialnet/internal/platform/sec"
	"github.com/taibuivan/socialnet/internal/platform/validate"
	"github.com/taibuivan/socialnet/internal/users/account"
)

// # Contracts & Types

// TokenSigner issues session tokens and exposes the key that verifies them.
// [sec.KeyAuthority] is the production implementation.
type TokenSigner interface {
	Sign(subject string, role sec.UserRole, state sec.AccountState) (string, error)
	PublicKeyBase64() (string, error)
}

// AccountLookup resolves the account a credential belongs to.
type AccountLookup interface {
	FindByEmail(ctx context.Context, email string) (*account.User, error)
}

// errInvalidCredentials is deliberately identical for unknown accounts and
// wrong passwords.
func errInvalidCredentials() *apperr.AppError {
	return apperr.Unauthorized("invalid email or password")
}

// Service implements credential and session use cases.
type Service struct {
	repository Repository
	accounts   AccountLookup
	signer     TokenSigner
	publisher  events.Publisher
	logger     *slog.Logger
}

// NewService constructs a new auth [Service].
func NewService(
	repository Repository,
	accounts AccountLookup,
	signer TokenSigner,
	publisher events.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository: repository,
		accounts:   accounts,
		signer:     signer,
		publisher:  publisher,
		logger:     logger,
	}
}

// # Key Distribution

/*
AnnounceKey publishes the verification key of this process as [events.AuthKeyGenerated].

Description: Called exactly once at boot. Gateways and the notification
service reject authenticated traffic with 503 until they consumed it, so a
failure here is fatal for the process.
*/
func (service *Service) AnnounceKey(ctx context.Context) error {
	publicKey, err := service.signer.PublicKeyBase64()
	if err != nil {
		return fmt.Errorf("auth_service_encode_key_failed: %w", err)
	}

	if err := service.publisher.Publish(ctx, events.AuthKeyGenerated{PublicKey: publicKey}); err != nil {
		return fmt.Errorf("auth_service_announce_key_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "auth_key_announced")

	return nil
}

// # Session

// Session is the result of a successful login.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

/*
Login checks a password and issues a session token.

Description: The token subject is the email; role and state are read from the
account at login time. A blocked account still receives a token, carrying
state "blocked", and is turned away by the gates that require an unblocked
account.

Returns:
  - *Session: Signed token and its lifetime
  - error: Unauthorized for an unknown account or a wrong password
*/
func (service *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	credential, err := service.repository.FindByUserID(ctx, email)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, errInvalidCredentials()
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !credential.Password.Match(ClearPassword(password)) {
		service.logger.WarnContext(ctx, "login_password_mismatch", slog.String("email", email))
		return nil, errInvalidCredentials()
	}

	user, err := service.accounts.FindByEmail(ctx, email)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, errInvalidCredentials()
		}
		return nil, fmt.Errorf("auth_service_login_account_failed: %w", err)
	}

	token, err := service.signer.Sign(user.Email, user.Role(), user.State())
	if err != nil {
		return nil, fmt.Errorf("auth_service_sign_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "user_logged_in",
		slog.String("email", email),
		slog.String("role", string(user.Role())),
		slog.String("state", string(user.State())),
	)

	return &Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(constants.AccessTokenTTL / time.Second),
	}, nil
}

// # Credential Management

/*
AddCredentials stores the password of an existing account.

Description: Second step of a registration. The password policy is enforced
here, so a weak password fails the step and the gateway compensates by
deleting the account.

Returns:
  - error: ValidationError, NotFound (no account) or Conflict (already set)
*/
func (service *Service) AddCredentials(ctx context.Context, email, password string) error {
	if !validate.IsEmail(email) {
		return apperr.ValidationError("Invalid email",
			apperr.FieldError{Field: FieldEmail, Message: "Invalid email format"})
	}

	plain, err := NewPassword(password)
	if err != nil {
		return err
	}

	hashed, err := plain.Hash()
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	credential := &Credential{UserID: email, Password: hashed, UpdatedAt: time.Now().UTC()}
	if err := service.repository.Create(ctx, credential); err != nil {
		return fmt.Errorf("auth_service_add_credentials_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "credentials_added", slog.String("email", email))

	return nil
}

/*
ChangePassword replaces the password of an account after checking the current one.

Returns:
  - error: Unauthorized on a wrong current password, ValidationError on a weak new one
*/
func (service *Service) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	credential, err := service.repository.FindByUserID(ctx, email)
	if err != nil {
		return fmt.Errorf("auth_service_change_lookup_failed: %w", err)
	}

	if !credential.Password.Match(ClearPassword(oldPassword)) {
		return errInvalidCredentials()
	}

	plain, err := NewPassword(newPassword)
	if err != nil {
		return err
	}

	hashed, err := plain.Hash()
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	credential.Password = hashed
	credential.UpdatedAt = time.Now().UTC()
	if err := service.repository.UpdatePassword(ctx, credential); err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "password_changed", slog.String("email", email))

	return nil
}

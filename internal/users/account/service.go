// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/events"
	"github.com/taibuivan/socialnet/internal/platform/validate"
)

// # Service Layer

// Service orchestrates the account lifecycle.
//
// Every state change that other services mirror (creation, blocking) is
// announced on the event bus after it has been stored.
type Service struct {
	repository Repository
	publisher  events.Publisher
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateInput holds the data required to register an account.
type CreateInput struct {
	Email    string
	Username string
	IsAdmin  bool
}

/*
Create validates and stores a new account, then publishes [events.UserCreated].

Description: If the event cannot be published the account is removed again
and the caller receives a 503, so that a registration either reaches the
read models of the other services or does not exist at all.

Returns:
  - *User: The stored account
  - error: ValidationError, Conflict, or ServiceUnavailable
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, 64)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &User{
		Email:     input.Email,
		Username:  strings.TrimSpace(input.Username),
		IsAdmin:   input.IsAdmin,
		CreatedAt: time.Now().UTC(),
	}

	if err := service.repository.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	event := events.UserCreated{Username: user.Username, Email: user.Email}
	if err := service.publisher.Publish(ctx, event); err != nil {
		service.logger.ErrorContext(ctx, "user_created_publish_failed",
			slog.String("email", user.Email),
			slog.Any("error", err),
		)
		if deleteErr := service.repository.Delete(ctx, user.Email); deleteErr != nil {
			service.logger.ErrorContext(ctx, "user_created_rollback_failed",
				slog.String("email", user.Email),
				slog.Any("error", deleteErr),
			)
		}
		return nil, apperr.ServiceUnavailable("unable to register user, try again later").WithCause(err)
	}

	service.logger.InfoContext(ctx, "user_created", slog.String("email", user.Email))

	return user, nil
}

// Get retrieves an account by email.
func (service *Service) Get(ctx context.Context, email string) (*User, error) {
	if !validate.IsEmail(email) {
		return nil, apperr.ValidationError("Invalid email",
			apperr.FieldError{Field: FieldEmail, Message: "Invalid email format"})
	}

	user, err := service.repository.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

/*
Rename changes the username of an existing account.

Returns:
  - *User: The updated account
  - error: ValidationError or NotFound
*/
func (service *Service) Rename(ctx context.Context, email, username string) (*User, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).MaxLen(FieldUsername, username, 64)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.Get(ctx, email)
	if err != nil {
		return nil, err
	}

	user.Username = strings.TrimSpace(username)
	if err := service.repository.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("account_service_rename_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "user_renamed", slog.String("email", email))

	return user, nil
}

// Delete removes an account and its credential.
//
// The gateway uses it as the compensation step of a failed registration.
func (service *Service) Delete(ctx context.Context, email string) error {
	if err := service.repository.Delete(ctx, email); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.WarnContext(ctx, "user_deleted", slog.String("email", email))

	return nil
}

// Block flags an account as blocked and publishes [events.UserBlocked].
func (service *Service) Block(ctx context.Context, email string) error {
	return service.setBlocked(ctx, email, true)
}

// Unblock clears the blocked flag and publishes [events.UserUnblocked].
func (service *Service) Unblock(ctx context.Context, email string) error {
	return service.setBlocked(ctx, email, false)
}

func (service *Service) setBlocked(ctx context.Context, email string, blocked bool) error {
	user, err := service.Get(ctx, email)
	if err != nil {
		return err
	}

	user.IsBlocked = blocked
	if err := service.repository.Update(ctx, user); err != nil {
		return fmt.Errorf("account_service_block_failed: %w", err)
	}

	var event events.Event = events.UserUnblocked{User: email}
	if blocked {
		event = events.UserBlocked{User: email}
	}

	// The flag is already stored and is what the next login reads, so a lost
	// event only delays the notification of other services.
	if err := service.publisher.Publish(ctx, event); err != nil {
		service.logger.ErrorContext(ctx, "user_blocking_publish_failed",
			slog.String("email", email),
			slog.Bool("blocked", blocked),
			slog.Any("error", err),
		)
	}

	service.logger.InfoContext(ctx, "user_blocking_changed",
		slog.String("email", email),
		slog.Bool("blocked", blocked),
	)

	return nil
}

// Count returns the number of registered accounts.
func (service *Service) Count(ctx context.Context) (int, error) {
	count, err := service.repository.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("account_service_count_failed: %w", err)
	}
	return count, nil
}

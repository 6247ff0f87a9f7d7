// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/constants"
	"github.com/taibuivan/socialnet/internal/platform/upstream"
	"github.com/taibuivan/socialnet/internal/platform/validate"
)

// # Saga States

// SagaState is one step of a registration.
type SagaState int

const (
	PendingUserCreate SagaState = iota
	PendingCredentialCreate
	Committed
	CompensatingUserDelete
	Failed
)

func (s SagaState) String() string {
	switch s {
	case PendingUserCreate:
		return "pending_user_create"
	case PendingCredentialCreate:
		return "pending_credential_create"
	case Committed:
		return "committed"
	case CompensatingUserDelete:
		return "compensating_user_delete"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// # Contracts

// UserDirectory is the users service as seen by the saga.
//
// A returned error means the call never produced a reply (unreachable
// service, timeout). Any reply, whatever its status, comes back as a
// [upstream.Response].
type UserDirectory interface {
	CreateUser(ctx context.Context, email, username string) (*upstream.Response, error)
	CreateCredential(ctx context.Context, email, password string) (*upstream.Response, error)
	DeleteUser(ctx context.Context, email string) (*upstream.Response, error)
}

// Registration is the input of one saga execution.
type Registration struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Execution records how one registration ended.
type Execution struct {
	// State is Committed or Failed.
	State SagaState
	// Trace lists every state the execution went through, in order.
	Trace []SagaState
	// Reply is the upstream answer surfaced to the caller on a failed step.
	// It is nil on success and when the failing step never got a reply.
	Reply *upstream.Response
}

func (execution *Execution) enter(state SagaState) {
	execution.State = state
	execution.Trace = append(execution.Trace, state)
}

// # Orchestrator

/*
RegistrationSaga creates an account and its credential as one logical unit.

	PendingUserCreate ──201──▶ PendingCredentialCreate ──201──▶ Committed
	        │                          │
	   non-201 / no reply         non-201 / no reply
	        ▼                          ▼
	      Failed              CompensatingUserDelete ──▶ Failed

A failed first step leaves nothing behind. A failed second step triggers a
DELETE of the account created by the first one. The compensation runs in the
background on a context detached from the inbound request, bounded by its own
timeout, and its outcome is only logged. [RegistrationSaga.Wait] lets the
process drain running compensations before exiting.

There are no retries and no idempotency key: a caller that retries after an
ambiguous failure of the first step may hit a Conflict.
*/
type RegistrationSaga struct {
	users               UserDirectory
	logger              *slog.Logger
	compensationTimeout time.Duration
	inflight            sync.WaitGroup
}

// NewRegistrationSaga creates a saga orchestrator.
func NewRegistrationSaga(users UserDirectory, logger *slog.Logger) *RegistrationSaga {
	return &RegistrationSaga{
		users:               users,
		logger:              logger,
		compensationTimeout: constants.CompensationTimeout,
	}
}

// Run executes one registration.
//
// The returned error is an [apperr.AppError]: 400 when a field is missing (no
// upstream call was made) and 503 when a step got no reply. Otherwise the
// outcome, including the upstream reply of a failed step, is in [Execution].
func (saga *RegistrationSaga) Run(ctx context.Context, input Registration) (*Execution, error) {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldUsername, input.Username).
		Required(FieldPassword, input.Password)
	if validator.HasErrors() {
		return nil, apperr.ValidationError("email, username and password must be provided",
			validator.Details()...)
	}

	logger := saga.logger.With(slog.String("email", input.Email))
	execution := &Execution{}

	// Step 1: account.
	execution.enter(PendingUserCreate)
	reply, err := saga.users.CreateUser(ctx, input.Email, input.Username)
	if err != nil {
		execution.enter(Failed)
		logger.WarnContext(ctx, "saga_user_step_unreachable", slog.Any("error", err))
		return execution, unavailable(err)
	}
	if !reply.Is(http.StatusCreated) {
		execution.enter(Failed)
		execution.Reply = reply
		logger.InfoContext(ctx, "saga_user_step_rejected", slog.Int("status", reply.StatusCode))
		return execution, nil
	}

	// Step 2: credential.
	execution.enter(PendingCredentialCreate)
	reply, err = saga.users.CreateCredential(ctx, input.Email, input.Password)
	if err == nil && reply.Is(http.StatusCreated) {
		execution.enter(Committed)
		logger.InfoContext(ctx, "saga_committed")
		return execution, nil
	}

	execution.enter(CompensatingUserDelete)
	saga.compensate(ctx, input.Email)
	execution.enter(Failed)

	if err != nil {
		logger.WarnContext(ctx, "saga_credential_step_unreachable", slog.Any("error", err))
		return execution, unavailable(err)
	}

	execution.Reply = reply
	logger.InfoContext(ctx, "saga_credential_step_rejected", slog.Int("status", reply.StatusCode))
	return execution, nil
}

// Wait blocks until every started compensation has finished.
//
// Call it after the HTTP server stopped accepting requests, so that no new
// compensation can start concurrently.
func (saga *RegistrationSaga) Wait() {
	saga.inflight.Wait()
}

// compensate deletes the account of a failed registration without blocking the caller.
func (saga *RegistrationSaga) compensate(ctx context.Context, email string) {
	// Keeps request-scoped values (request id, logger) but not the deadline.
	detached := context.WithoutCancel(ctx)

	saga.inflight.Add(1)
	go func() {
		defer saga.inflight.Done()

		ctx, cancel := context.WithTimeout(detached, saga.compensationTimeout)
		defer cancel()

		logger := saga.logger.With(slog.String("email", email))

		reply, err := saga.users.DeleteUser(ctx, email)
		switch {
		case err != nil:
			logger.ErrorContext(ctx, "saga_compensation_failed", slog.Any("error", err))
		case !reply.Is(http.StatusNoContent):
			logger.ErrorContext(ctx, "saga_compensation_rejected", slog.Int("status", reply.StatusCode))
		default:
			logger.InfoContext(ctx, "saga_compensated")
		}
	}()
}

// unavailable keeps an upstream 503 as is and wraps anything else.
func unavailable(err error) error {
	if apperr.StatusOf(err) == http.StatusServiceUnavailable {
		return err
	}
	return apperr.ServiceUnavailable("users service unavailable").WithCause(err)
}

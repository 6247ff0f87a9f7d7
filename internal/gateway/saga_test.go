// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/socialnet/internal/gateway"
	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/upstream"
)

var errUnreachable = errors.New("connection refused")

func reply(status int, body string) func(context.Context) (*upstream.Response, error) {
	return func(context.Context) (*upstream.Response, error) {
		return &upstream.Response{StatusCode: status, Header: http.Header{}, Body: []byte(body)}, nil
	}
}

func unreachable(context.Context) (*upstream.Response, error) {
	return nil, errUnreachable
}

// fakeDirectory scripts the users service answers and records every call.
type fakeDirectory struct {
	createUser       func(ctx context.Context) (*upstream.Response, error)
	createCredential func(ctx context.Context) (*upstream.Response, error)
	deleteUser       func(ctx context.Context) (*upstream.Response, error)

	mu      sync.Mutex
	calls   []string
	deleted []string
	// deleteCtxErr is the state of the compensation context when it ran.
	deleteCtxErr error
}

func (f *fakeDirectory) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeDirectory) CreateUser(ctx context.Context, _, _ string) (*upstream.Response, error) {
	f.record("create_user")
	return f.createUser(ctx)
}

func (f *fakeDirectory) CreateCredential(ctx context.Context, _, _ string) (*upstream.Response, error) {
	f.record("create_credential")
	return f.createCredential(ctx)
}

func (f *fakeDirectory) DeleteUser(ctx context.Context, email string) (*upstream.Response, error) {
	f.record("delete_user")
	f.mu.Lock()
	f.deleted = append(f.deleted, email)
	f.deleteCtxErr = ctx.Err()
	f.mu.Unlock()
	if f.deleteUser == nil {
		return reply(http.StatusNoContent, "")(ctx)
	}
	return f.deleteUser(ctx)
}

func (f *fakeDirectory) snapshot() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...), append([]string(nil), f.deleted...)
}

func newSaga(directory *fakeDirectory) *gateway.RegistrationSaga {
	return gateway.NewRegistrationSaga(directory, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var alice = gateway.Registration{Email: "alice@test.com", Username: "alice", Password: "Password1!"}

func TestRegistrationSaga_Committed(t *testing.T) {
	directory := &fakeDirectory{
		createUser:       reply(http.StatusCreated, `{"data":{}}`),
		createCredential: reply(http.StatusCreated, `{"data":{}}`),
	}
	saga := newSaga(directory)

	execution, err := saga.Run(context.Background(), alice)
	require.NoError(t, err)
	saga.Wait()

	assert.Equal(t, gateway.Committed, execution.State)
	assert.Equal(t, []gateway.SagaState{
		gateway.PendingUserCreate,
		gateway.PendingCredentialCreate,
		gateway.Committed,
	}, execution.Trace)
	assert.Nil(t, execution.Reply)

	calls, deleted := directory.snapshot()
	assert.Equal(t, []string{"create_user", "create_credential"}, calls)
	assert.Empty(t, deleted)
}

func TestRegistrationSaga_MissingField(t *testing.T) {
	tests := []struct {
		name  string
		input gateway.Registration
	}{
		{"NoEmail", gateway.Registration{Username: "alice", Password: "Password1!"}},
		{"NoUsername", gateway.Registration{Email: "alice@test.com", Password: "Password1!"}},
		{"NoPassword", gateway.Registration{Email: "alice@test.com", Username: "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directory := &fakeDirectory{}
			execution, err := newSaga(directory).Run(context.Background(), tt.input)

			assert.Nil(t, execution)
			assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
			calls, _ := directory.snapshot()
			assert.Empty(t, calls, "no upstream call before validation passes")
		})
	}
}

func TestRegistrationSaga_UserStepFails(t *testing.T) {
	t.Run("Rejected", func(t *testing.T) {
		directory := &fakeDirectory{createUser: reply(http.StatusConflict, `{"error":"User already exists"}`)}
		saga := newSaga(directory)

		execution, err := saga.Run(context.Background(), alice)
		require.NoError(t, err)
		saga.Wait()

		assert.Equal(t, gateway.Failed, execution.State)
		assert.Equal(t, []gateway.SagaState{gateway.PendingUserCreate, gateway.Failed}, execution.Trace)
		require.NotNil(t, execution.Reply)
		assert.Equal(t, http.StatusConflict, execution.Reply.StatusCode)

		calls, _ := directory.snapshot()
		assert.Equal(t, []string{"create_user"}, calls, "no compensation when nothing was created")
	})

	t.Run("Unreachable", func(t *testing.T) {
		directory := &fakeDirectory{createUser: unreachable}
		saga := newSaga(directory)

		execution, err := saga.Run(context.Background(), alice)
		saga.Wait()

		assert.Equal(t, http.StatusServiceUnavailable, apperr.StatusOf(err))
		assert.ErrorIs(t, err, errUnreachable)
		assert.Equal(t, gateway.Failed, execution.State)

		calls, _ := directory.snapshot()
		assert.Equal(t, []string{"create_user"}, calls)
	})
}

func TestRegistrationSaga_CredentialStepCompensates(t *testing.T) {
	t.Run("Rejected", func(t *testing.T) {
		directory := &fakeDirectory{
			createUser:       reply(http.StatusCreated, `{}`),
			createCredential: reply(http.StatusBadRequest, `{"error":"password must contain digits"}`),
		}
		saga := newSaga(directory)

		execution, err := saga.Run(context.Background(), alice)
		require.NoError(t, err)
		saga.Wait()

		assert.Equal(t, []gateway.SagaState{
			gateway.PendingUserCreate,
			gateway.PendingCredentialCreate,
			gateway.CompensatingUserDelete,
			gateway.Failed,
		}, execution.Trace)
		require.NotNil(t, execution.Reply)
		assert.Equal(t, http.StatusBadRequest, execution.Reply.StatusCode)
		assert.JSONEq(t, `{"error":"password must contain digits"}`, string(execution.Reply.Body))

		_, deleted := directory.snapshot()
		assert.Equal(t, []string{"alice@test.com"}, deleted)
	})

	t.Run("Unreachable", func(t *testing.T) {
		directory := &fakeDirectory{
			createUser:       reply(http.StatusCreated, `{}`),
			createCredential: unreachable,
		}
		saga := newSaga(directory)

		execution, err := saga.Run(context.Background(), alice)
		saga.Wait()

		assert.Equal(t, http.StatusServiceUnavailable, apperr.StatusOf(err))
		assert.Equal(t, gateway.Failed, execution.State)
		assert.Nil(t, execution.Reply)

		_, deleted := directory.snapshot()
		assert.Equal(t, []string{"alice@test.com"}, deleted)
	})

	t.Run("CompensationFailureIsSwallowed", func(t *testing.T) {
		directory := &fakeDirectory{
			createUser:       reply(http.StatusCreated, `{}`),
			createCredential: reply(http.StatusConflict, `{}`),
			deleteUser:       unreachable,
		}
		saga := newSaga(directory)

		execution, err := saga.Run(context.Background(), alice)
		require.NoError(t, err)
		saga.Wait()

		assert.Equal(t, http.StatusConflict, execution.Reply.StatusCode)
	})
}

func TestRegistrationSaga_CompensationOutlivesRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	directory := &fakeDirectory{
		createUser: reply(http.StatusCreated, `{}`),
		createCredential: func(context.Context) (*upstream.Response, error) {
			// The client gives up while the second step is in flight.
			cancel()
			return nil, context.Canceled
		},
	}
	saga := newSaga(directory)

	_, err := saga.Run(ctx, alice)
	assert.Equal(t, http.StatusServiceUnavailable, apperr.StatusOf(err))
	saga.Wait()

	_, deleted := directory.snapshot()
	require.Equal(t, []string{"alice@test.com"}, deleted)
	assert.NoError(t, directory.deleteCtxErr, "compensation must not inherit the request cancellation")
}

func TestSagaState_String(t *testing.T) {
	assert.Equal(t, "pending_user_create", gateway.PendingUserCreate.String())
	assert.Equal(t, "compensating_user_delete", gateway.CompensatingUserDelete.String())
	assert.Equal(t, "unknown", gateway.SagaState(42).String())
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/constants"
	"github.com/taibuivan/socialnet/internal/platform/events"
	"github.com/taibuivan/socialnet/internal/platform/sec"
	"github.com/taibuivan/socialnet/internal/users/account"
	"github.com/taibuivan/socialnet/internal/users/auth"
)

// memCredentials is an in-memory [auth.Repository] that, like the foreign
// key in Postgres, only accepts credentials of known accounts.
type memCredentials struct {
	mu          sync.Mutex
	accounts    *memAccounts
	credentials map[string]auth.Credential
}

func (m *memCredentials) Create(ctx context.Context, credential *auth.Credential) error {
	if _, err := m.accounts.FindByEmail(ctx, credential.UserID); err != nil {
		return apperr.NotFound("Credential reference")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.credentials[credential.UserID]; ok {
		return apperr.Conflict("Credential already exists")
	}
	m.credentials[credential.UserID] = *credential
	return nil
}

func (m *memCredentials) FindByUserID(_ context.Context, userID string) (*auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	credential, ok := m.credentials[userID]
	if !ok {
		return nil, apperr.NotFound("Credential")
	}
	return &credential, nil
}

func (m *memCredentials) UpdatePassword(_ context.Context, credential *auth.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.credentials[credential.UserID]; !ok {
		return apperr.NotFound("Credential")
	}
	m.credentials[credential.UserID] = *credential
	return nil
}

type memAccounts struct {
	mu    sync.Mutex
	users map[string]account.User
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*account.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return &user, nil
}

func (m *memAccounts) put(user account.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Email] = user
}

type fixture struct {
	service     *auth.Service
	accounts    *memAccounts
	credentials *memCredentials
	bus         *events.MemoryBus
	authority   *sec.KeyAuthority
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authority, err := sec.NewKeyAuthority(constants.AuthIssuer)
	require.NoError(t, err)

	accounts := &memAccounts{users: make(map[string]account.User)}
	credentials := &memCredentials{accounts: accounts, credentials: make(map[string]auth.Credential)}
	bus := events.NewMemoryBus(logger)

	return &fixture{
		service:     auth.NewService(credentials, accounts, authority, bus, logger),
		accounts:    accounts,
		credentials: credentials,
		bus:         bus,
		authority:   authority,
	}
}

// keyring installs the key announced on the bus, as a gateway would.
func (f *fixture) keyring(t *testing.T) *sec.Keyring {
	t.Helper()
	published := f.bus.Published(events.TopicAuthKeyGenerated)
	require.NotEmpty(t, published)

	ring := sec.NewKeyring()
	require.NoError(t, ring.Install(published[len(published)-1].(events.AuthKeyGenerated).PublicKey))
	return ring
}

func TestService_AnnounceKey(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.service.AnnounceKey(context.Background()))

	published := f.bus.Published(events.TopicAuthKeyGenerated)
	require.Len(t, published, 1)

	want, err := f.authority.PublicKeyBase64()
	require.NoError(t, err)
	assert.Equal(t, events.AuthKeyGenerated{PublicKey: want}, published[0])
}

func TestService_RegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.service.AnnounceKey(ctx))

	f.accounts.put(account.User{Email: "bob@test.com", Username: "bob"})
	require.NoError(t, f.service.AddCredentials(ctx, "bob@test.com", "Password1!"))

	stored, err := f.credentials.FindByUserID(ctx, "bob@test.com")
	require.NoError(t, err)
	assert.True(t, stored.Password.IsHashed())

	session, err := f.service.Login(ctx, "bob@test.com", "Password1!")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.Equal(t, 900, session.ExpiresIn)

	claims, err := f.keyring(t).VerifyToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "bob@test.com", claims.Subject)
	assert.Equal(t, sec.RoleUser, claims.Role)
	assert.Equal(t, sec.StateUnblocked, claims.State)
}

func TestService_Login_CarriesRoleAndState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.service.AnnounceKey(ctx))

	f.accounts.put(account.User{Email: "root@test.com", Username: "root", IsAdmin: true, IsBlocked: true})
	require.NoError(t, f.service.AddCredentials(ctx, "root@test.com", "Password1!"))

	session, err := f.service.Login(ctx, "root@test.com", "Password1!")
	require.NoError(t, err)

	claims, err := f.keyring(t).VerifyToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, claims.Role)
	assert.True(t, claims.IsBlocked())
}

func TestService_Login_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.accounts.put(account.User{Email: "bob@test.com", Username: "bob"})
	require.NoError(t, f.service.AddCredentials(ctx, "bob@test.com", "Password1!"))

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"WrongPassword", "bob@test.com", "Password2!"},
		{"WeakGuess", "bob@test.com", "x"},
		{"UnknownAccount", "ghost@test.com", "Password1!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Login(ctx, tt.email, tt.password)
			assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))
		})
	}
}

func TestService_AddCredentials_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.accounts.put(account.User{Email: "bob@test.com", Username: "bob"})

	assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(f.service.AddCredentials(ctx, "bob@test.com", "invalidPassword")))
	assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(f.service.AddCredentials(ctx, "not-an-email", "Password1!")))
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(f.service.AddCredentials(ctx, "ghost@test.com", "Password1!")))

	require.NoError(t, f.service.AddCredentials(ctx, "bob@test.com", "Password1!"))
	assert.Equal(t, http.StatusConflict, apperr.StatusOf(f.service.AddCredentials(ctx, "bob@test.com", "Password1!")))
}

func TestService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.accounts.put(account.User{Email: "bob@test.com", Username: "bob"})
	require.NoError(t, f.service.AddCredentials(ctx, "bob@test.com", "Password1!"))

	err := f.service.ChangePassword(ctx, "bob@test.com", "Wrong1!xx", "Password2!")
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))

	err = f.service.ChangePassword(ctx, "bob@test.com", "Password1!", "weak")
	assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))

	require.NoError(t, f.service.ChangePassword(ctx, "bob@test.com", "Password1!", "Password2!"))

	_, err = f.service.Login(ctx, "bob@test.com", "Password1!")
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))

	_, err = f.service.Login(ctx, "bob@test.com", "Password2!")
	assert.NoError(t, err)
}

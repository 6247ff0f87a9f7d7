// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/socialnet/internal/notification"
	"github.com/taibuivan/socialnet/internal/platform/constants"
	"github.com/taibuivan/socialnet/internal/platform/events"
	"github.com/taibuivan/socialnet/internal/platform/sec"
)

type fixture struct {
	server    *httptest.Server
	hub       *notification.Hub
	router    *events.Router
	authority *sec.KeyAuthority
	ring      *sec.Keyring
}

func newFixture(t *testing.T, installKey bool) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authority, err := sec.NewKeyAuthority(constants.AuthIssuer)
	require.NoError(t, err)

	ring := sec.NewKeyring()
	if installKey {
		key, err := authority.PublicKeyBase64()
		require.NoError(t, err)
		require.NoError(t, ring.Install(key))
	}

	hub := notification.NewHub(logger)
	mux := chi.NewRouter()
	notification.NewHandler(hub, ring, 2*time.Second, logger).RegisterRoutes(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		hub.CloseAll()
		server.Close()
	})

	return &fixture{
		server:    server,
		hub:       hub,
		router:    notification.NewEventRouter(hub, logger),
		authority: authority,
		ring:      ring,
	}
}

func (f *fixture) token(t *testing.T, subject string, state sec.AccountState) string {
	t.Helper()
	token, err := f.authority.Sign(subject, sec.RoleUser, state)
	require.NoError(t, err)
	return token
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/notifications"
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// login dials and authenticates, returning the socket after the ack.
func (f *fixture) login(t *testing.T, subject string) *websocket.Conn {
	t.Helper()
	client := f.dial(t)
	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(f.token(t, subject, sec.StateUnblocked))))
	assert.JSONEq(t, `{"type":"authenticated","userId":"`+subject+`"}`, readText(t, client))
	return client
}

func readText(t *testing.T, client *websocket.Conn) string {
	t.Helper()
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	messageType, payload, err := client.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, messageType)
	return string(payload)
}

func readClose(t *testing.T, client *websocket.Conn) *websocket.CloseError {
	t.Helper()
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := client.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	return closeErr
}

func TestSocket_Authenticates(t *testing.T) {
	f := newFixture(t, true)

	f.login(t, "alice@test.com")
	assert.True(t, f.hub.Connected("alice@test.com"))

	// The Bearer scheme is accepted too.
	client := f.dial(t)
	frame := constants.BearerPrefix + f.token(t, "bob@test.com", sec.StateUnblocked)
	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(frame)))
	assert.JSONEq(t, `{"type":"authenticated","userId":"bob@test.com"}`, readText(t, client))
}

func TestSocket_Rejections(t *testing.T) {
	ready := newFixture(t, true)
	foreign, err := sec.NewKeyAuthority(constants.AuthIssuer)
	require.NoError(t, err)
	forged, err := foreign.Sign("alice@test.com", sec.RoleUser, sec.StateUnblocked)
	require.NoError(t, err)

	tests := []struct {
		name        string
		fixture     *fixture
		messageType int
		payload     string
		code        int
		reason      string
	}{
		{"KeyNotReady", newFixture(t, false), websocket.TextMessage,
			ready.token(t, "alice@test.com", sec.StateUnblocked), websocket.CloseTryAgainLater, notification.ReasonNotReady},
		{"Garbage", ready, websocket.TextMessage, "not-a-token", websocket.ClosePolicyViolation, notification.ReasonBadToken},
		{"ForeignSignature", ready, websocket.TextMessage, forged, websocket.ClosePolicyViolation, notification.ReasonBadToken},
		{"Blocked", ready, websocket.TextMessage,
			ready.token(t, "alice@test.com", sec.StateBlocked), websocket.ClosePolicyViolation, notification.ReasonBlocked},
		{"BinaryFrame", ready, websocket.BinaryMessage, "token", websocket.CloseUnsupportedData, notification.ReasonBadFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := tt.fixture.dial(t)
			require.NoError(t, client.WriteMessage(tt.messageType, []byte(tt.payload)))

			closeErr := readClose(t, client)
			assert.Equal(t, tt.code, closeErr.Code)
			assert.Equal(t, tt.reason, closeErr.Text)
			assert.False(t, tt.fixture.hub.Connected("alice@test.com"))
		})
	}
}

func TestSocket_ForwardsEventsToReceiver(t *testing.T) {
	f := newFixture(t, true)
	alice := f.login(t, "alice@test.com")
	ctx := context.Background()

	// Not connected: dropped without error.
	require.NoError(t, f.router.Handle(ctx, events.FriendshipRequestSent{Sender: "alice@test.com", Receiver: "bob@test.com"}))

	require.NoError(t, f.router.Handle(ctx, events.FriendshipRequestSent{Sender: "bob@test.com", Receiver: "alice@test.com"}))
	assert.JSONEq(t,
		`{"type":"friendship-request-sent","sender":"bob@test.com","receiver":"alice@test.com"}`,
		readText(t, alice))

	require.NoError(t, f.router.Handle(ctx, events.MessageSent{
		ID: "0192", Sender: "bob@test.com", Receiver: "alice@test.com", Message: "hi", Timestamp: "2026-01-02T03:04:05Z",
	}))
	assert.JSONEq(t,
		`{"type":"message-sent","id":"0192","sender":"bob@test.com","receiver":"alice@test.com","message":"hi","timestamp":"2026-01-02T03:04:05Z"}`,
		readText(t, alice))

	require.NoError(t, f.router.Handle(ctx, events.FriendshipRequestRejected{Sender: "bob@test.com", Receiver: "alice@test.com"}))
	assert.Contains(t, readText(t, alice), `"type":"friendship-request-rejected"`)
}

func TestSocket_NewerConnectionSupersedes(t *testing.T) {
	f := newFixture(t, true)
	first := f.login(t, "alice@test.com")
	second := f.login(t, "alice@test.com")

	closeErr := readClose(t, first)
	assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)
	assert.Equal(t, notification.ReasonSuperseded, closeErr.Text)

	// The superseded socket going away must not drop the new entry.
	assert.True(t, f.hub.Connected("alice@test.com"))

	require.NoError(t, f.router.Handle(context.Background(),
		events.FriendshipRequestAccepted{Sender: "bob@test.com", Receiver: "alice@test.com"}))
	assert.Contains(t, readText(t, second), `"type":"friendship-request-accepted"`)
}

func TestSocket_DisconnectUnregisters(t *testing.T) {
	f := newFixture(t, true)
	client := f.login(t, "alice@test.com")

	require.NoError(t, client.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.NoError(t, client.Close())

	require.Eventually(t, func() bool {
		return !f.hub.Connected("alice@test.com")
	}, 2*time.Second, 10*time.Millisecond)

	// A late event for the departed user is a no-op.
	require.NoError(t, f.router.Handle(context.Background(),
		events.MessageSent{ID: "1", Sender: "bob@test.com", Receiver: "alice@test.com", Message: "late"}))
}

func TestEventRouter_Topics(t *testing.T) {
	f := newFixture(t, true)
	assert.Equal(t, []events.Topic{
		events.TopicFriendshipRequestAccepted,
		events.TopicFriendshipRequestRejected,
		events.TopicFriendshipRequestSent,
		events.TopicMessageSent,
	}, f.router.Topics())
}

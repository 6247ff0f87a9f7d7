// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/socialnet/internal/content"
	"github.com/taibuivan/socialnet/internal/platform/events"
)

func TestEventRouter_Topics(t *testing.T) {
	router := content.NewEventRouter(content.NewService(newMemRepository()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ElementsMatch(t,
		[]events.Topic{events.TopicUserCreated, events.TopicFriendshipRequestAccepted}, router.Topics())
}

func TestEventRouter_Handle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repository := newMemRepository()
	router := content.NewEventRouter(content.NewService(repository), logger)
	ctx := context.Background()

	require.NoError(t, router.Handle(ctx, events.UserCreated{Email: "alice@test.com", Username: "alice"}))
	// Malformed events are acknowledged.
	require.NoError(t, router.Handle(ctx, events.UserCreated{Email: "broken", Username: "x"}))
	require.NoError(t, router.Handle(ctx, events.FriendshipRequestAccepted{Sender: "alice@test.com", Receiver: "alice@test.com"}))

	// bob is not known yet: the event must come back.
	accepted := events.FriendshipRequestAccepted{Sender: "bob@test.com", Receiver: "alice@test.com"}
	assert.Error(t, router.Handle(ctx, accepted))

	require.NoError(t, router.Handle(ctx, events.UserCreated{Email: "bob@test.com", Username: "bob"}))
	require.NoError(t, router.Handle(ctx, accepted))
	assert.True(t, repository.friendships[orderedPair("alice@test.com", "bob@test.com")])
}

func TestEventRouter_ConsumesFromBus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repository := newMemRepository()
	router := content.NewEventRouter(content.NewService(repository), logger)
	bus := events.NewMemoryBus(logger)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, events.UserCreated{Email: "alice@test.com", Username: "alice"}))
	require.NoError(t, bus.Publish(ctx, events.UserCreated{Email: "bob@test.com", Username: "bob"}))
	require.NoError(t, bus.Publish(ctx, events.FriendshipRequestAccepted{Sender: "bob@test.com", Receiver: "alice@test.com"}))

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		_ = bus.Consume(consumeCtx, events.Subscription{
			Group:    "content",
			Consumer: "test",
			Topics:   router.Topics(),
			Handler:  router.Handle,
		})
	}()

	// The accepted event may be claimed before its members exist. It is then
	// redelivered until they do.
	require.Eventually(t, func() bool {
		repository.mu.Lock()
		defer repository.mu.Unlock()
		return repository.friendships[orderedPair("alice@test.com", "bob@test.com")]
	}, 2*time.Second, 10*time.Millisecond)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authgate keeps a process's token verification key in sync with the
users service.

Every users process generates its own signing key at boot and announces the
public half on the auth-key-generated topic. Any process that verifies tokens
(the gateway, the notification service) subscribes with a per-instance
consumer group, so each replica receives every announcement, and installs the
key in its [sec.Keyring].

The key topic holds state, not work: a process that restarts under the same
consumer name reattaches to a group that already acknowledged the current
key. [Seed] installs the newest announced key before consuming, so such a
process becomes ready without waiting for a users service to reboot.
*/
package authgate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/socialnet/internal/platform/events"
	"github.com/taibuivan/socialnet/internal/platform/sec"
)

// NewKeyRouter returns a router installing every announced key in ring.
//
// A malformed key is logged and acknowledged: redelivering it would never
// succeed, and the ring keeps its previous key.
func NewKeyRouter(ring *sec.Keyring, logger *slog.Logger) *events.Router {
	router := events.NewRouter()
	events.On(router, func(ctx context.Context, event events.AuthKeyGenerated) error {
		if err := ring.Install(event.PublicKey); err != nil {
			logger.ErrorContext(ctx, "auth_key_rejected", slog.Any("error", err))
			return nil
		}
		logger.InfoContext(ctx, "auth_key_installed")
		return nil
	})
	return router
}

// Seed installs the newest key retained on the bus, if any.
//
// It complements the subscription: entries newer than the seeded key are
// still delivered by the consumer, and last write wins.
func Seed(ctx context.Context, source events.LatestReader, ring *sec.Keyring, logger *slog.Logger) error {
	event, err := source.Latest(ctx, events.TopicAuthKeyGenerated)
	if err != nil {
		return fmt.Errorf("authgate_seed_failed: %w", err)
	}
	if event == nil {
		logger.InfoContext(ctx, "auth_key_not_announced_yet")
		return nil
	}
	return NewKeyRouter(ring, logger).Handle(ctx, event)
}

// Subscription describes the key consumer of one instance.
//
// group must be unique per instance, see [config.Common.KeyConsumerGroup].
func Subscription(ring *sec.Keyring, group, consumer string, logger *slog.Logger) events.Subscription {
	router := NewKeyRouter(ring, logger)
	return events.Subscription{
		Group:    group,
		Consumer: consumer,
		Topics:   router.Topics(),
		Handler:  router.Handle,
	}
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package events

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher appends an event to its topic.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscription describes one consumer loop.
//
// Consumers sharing a Group split the work of a topic between them. A new
// group starts from the oldest retained event, so a service that boots late
// still sees events published before it existed.
type Subscription struct {
	Group    string
	Consumer string
	Topics   []Topic
	Handler  Handler
}

// Bus is the transport shared by every service.
type Bus interface {
	Publisher

	// Consume runs the subscription until ctx is cancelled. It returns nil on
	// cancellation and an error only when the subscription cannot start.
	Consume(ctx context.Context, subscription Subscription) error
}

// LatestReader returns the newest retained event of a topic, or nil when the
// topic is empty. Consumers of latest-value topics use it to catch up on
// state that their group already acknowledged in a previous run.
type LatestReader interface {
	Latest(ctx context.Context, topic Topic) (Event, error)
}

// Start runs subscription on bus in its own goroutine, tracked by wg, until
// ctx is cancelled.
func Start(ctx context.Context, wg *sync.WaitGroup, bus Bus, subscription Subscription, logger *slog.Logger) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := bus.Consume(ctx, subscription); err != nil {
			logger.Error("bus_consumer_stopped",
				slog.String("group", subscription.Group),
				slog.Any("error", err),
			)
		}
	}()
}

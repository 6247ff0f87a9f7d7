// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// MemoryBus is an in-process [Bus] with full history replay.
//
// Every topic keeps all published events and every group keeps its own
// offset per topic, which mirrors the consumer-group semantics of the Redis
// bus closely enough for tests and single-process runs.
type MemoryBus struct {
	logger *slog.Logger
	retry  time.Duration

	mu      sync.Mutex
	history map[Topic][]Event
	offsets map[string]map[Topic]int
	claimed map[string]map[Topic]bool
	notify  chan struct{}
}

// NewMemoryBus returns an empty bus.
func NewMemoryBus(logger *slog.Logger) *MemoryBus {
	return &MemoryBus{
		logger:  logger,
		retry:   50 * time.Millisecond,
		history: make(map[Topic][]Event),
		offsets: make(map[string]map[Topic]int),
		claimed: make(map[string]map[Topic]bool),
		notify:  make(chan struct{}),
	}
}

// Publish implements [Publisher].
func (bus *MemoryBus) Publish(_ context.Context, event Event) error {
	if event == nil {
		return errors.New("events: nil event")
	}

	bus.mu.Lock()
	topic := TopicOf(event)
	bus.history[topic] = append(bus.history[topic], event)
	close(bus.notify)
	bus.notify = make(chan struct{})
	bus.mu.Unlock()

	return nil
}

// Published returns a copy of the events on topic, oldest first.
func (bus *MemoryBus) Published(topic Topic) []Event {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return append([]Event(nil), bus.history[topic]...)
}

// Latest implements [LatestReader].
func (bus *MemoryBus) Latest(_ context.Context, topic Topic) (Event, error) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	history := bus.history[topic]
	if len(history) == 0 {
		return nil, nil
	}
	return history[len(history)-1], nil
}

// Consume implements [Bus].
func (bus *MemoryBus) Consume(ctx context.Context, subscription Subscription) error {
	if subscription.Handler == nil || len(subscription.Topics) == 0 {
		return errors.New("events: subscription needs a handler and at least one topic")
	}

	for {
		event, topic, wait := bus.next(subscription)
		if event == nil {
			select {
			case <-ctx.Done():
				return nil
			case <-wait:
			}
			continue
		}

		if err := subscription.Handler(ctx, event); err != nil {
			bus.logger.WarnContext(ctx, "event_handler_failed",
				slog.String("group", subscription.Group),
				slog.String("kind", string(event.Kind())),
				slog.Any("error", err),
			)
			bus.release(subscription.Group, topic, false)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(bus.retry):
			}
			continue
		}

		bus.release(subscription.Group, topic, true)
	}
}

// next claims the first undelivered event across the subscribed topics, or
// returns a channel closed by the next publish. A claimed topic is skipped by
// other consumers of the group, which keeps per-topic order.
func (bus *MemoryBus) next(subscription Subscription) (Event, Topic, <-chan struct{}) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	offsets, ok := bus.offsets[subscription.Group]
	if !ok {
		offsets = make(map[Topic]int)
		bus.offsets[subscription.Group] = offsets
		bus.claimed[subscription.Group] = make(map[Topic]bool)
	}
	claimed := bus.claimed[subscription.Group]

	for _, topic := range subscription.Topics {
		if claimed[topic] {
			continue
		}
		if offset := offsets[topic]; offset < len(bus.history[topic]) {
			claimed[topic] = true
			return bus.history[topic][offset], topic, nil
		}
	}
	return nil, "", bus.notify
}

// release drops the claim on topic and advances the offset when acked.
func (bus *MemoryBus) release(group string, topic Topic, acked bool) {
	bus.mu.Lock()
	if acked {
		bus.offsets[group][topic]++
	}
	bus.claimed[group][topic] = false
	close(bus.notify)
	bus.notify = make(chan struct{})
	bus.mu.Unlock()
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/socialnet/internal/platform/constants"
)

// payloadField is the stream entry field holding the encoded envelope.
const payloadField = "event"

// RedisBus is a [Bus] on top of Redis Streams consumer groups.
//
// # Delivery
//
// Each topic maps to one stream. Groups are created at the start of the
// stream, so late consumers replay history. Entries are acknowledged only
// after the handler succeeds. Unacknowledged entries stay in the consumer's
// pending list and are retried before any new entry is read, which also
// covers entries left behind by a crash of the same consumer name.
type RedisBus struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisBus wraps a connected client.
func NewRedisBus(client *redis.Client, logger *slog.Logger) *RedisBus {
	return &RedisBus{client: client, logger: logger}
}

// StreamOf returns the Redis key backing topic.
func StreamOf(topic Topic) string {
	return constants.StreamPrefix + string(topic)
}

// Publish implements [Publisher].
func (bus *RedisBus) Publish(ctx context.Context, event Event) error {
	payload, err := Encode(event)
	if err != nil {
		return err
	}

	err = bus.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamOf(TopicOf(event)),
		Values: map[string]any{payloadField: payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("events: publish %s: %w", event.Kind(), err)
	}
	return nil
}

// Latest implements [LatestReader] with XREVRANGE on the topic stream.
func (bus *RedisBus) Latest(ctx context.Context, topic Topic) (Event, error) {
	messages, err := bus.client.XRevRangeN(ctx, StreamOf(topic), "+", "-", 1).Result()
	if err != nil {
		return nil, fmt.Errorf("events: read latest %s: %w", topic, err)
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return decodeMessage(messages[0])
}

// Consume implements [Bus].
func (bus *RedisBus) Consume(ctx context.Context, subscription Subscription) error {
	if subscription.Handler == nil || len(subscription.Topics) == 0 {
		return errors.New("events: subscription needs a handler and at least one topic")
	}

	streams := make([]string, 0, len(subscription.Topics))
	for _, topic := range subscription.Topics {
		stream := StreamOf(topic)
		if err := bus.ensureGroup(ctx, stream, subscription.Group); err != nil {
			return err
		}
		streams = append(streams, stream)
	}

	logger := bus.logger.With(
		slog.String("group", subscription.Group),
		slog.String("consumer", subscription.Consumer),
	)
	logger.Info("bus_consumer_started", slog.Any("streams", streams))

	// Start on our own pending entries, then switch to new ones.
	drainPending := true

	for ctx.Err() == nil {
		cursor := ">"
		if drainPending {
			cursor = "0"
		}

		result, err := bus.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    subscription.Group,
			Consumer: subscription.Consumer,
			Streams:  withCursor(streams, cursor),
			Count:    constants.BusReadCount,
			Block:    constants.BusReadBlock,
		}).Result()

		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, redis.Nil):
			continue
		case err != nil:
			logger.Warn("bus_read_failed", slog.Any("error", err))
			sleep(ctx, constants.BusRetryBackoff)
			continue
		}

		delivered, failed := bus.dispatch(ctx, logger, subscription, result)

		// Pending drain ends once our backlog is empty.
		if drainPending && delivered == 0 {
			drainPending = false
		}
		if failed {
			drainPending = true
			sleep(ctx, constants.BusRetryBackoff)
		}
	}
	return nil
}

// dispatch runs the handler over a read batch and acknowledges successes.
// It stops a stream at its first failure to keep per-topic order.
func (bus *RedisBus) dispatch(ctx context.Context, logger *slog.Logger, subscription Subscription, result []redis.XStream) (int, bool) {
	delivered := 0
	failed := false

	for _, stream := range result {
		for _, message := range stream.Messages {
			delivered++

			event, err := decodeMessage(message)
			if err != nil {
				// A poison entry would block the stream forever.
				logger.Error("bus_entry_dropped",
					slog.String("stream", stream.Stream),
					slog.String("id", message.ID),
					slog.Any("error", err),
				)
				bus.ack(ctx, logger, stream.Stream, subscription.Group, message.ID)
				continue
			}

			if err := subscription.Handler(ctx, event); err != nil {
				logger.Warn("event_handler_failed",
					slog.String("stream", stream.Stream),
					slog.String("id", message.ID),
					slog.String("kind", string(event.Kind())),
					slog.Any("error", err),
				)
				failed = true
				break
			}

			bus.ack(ctx, logger, stream.Stream, subscription.Group, message.ID)
		}
	}
	return delivered, failed
}

func (bus *RedisBus) ack(ctx context.Context, logger *slog.Logger, stream, group, id string) {
	if err := bus.client.XAck(ctx, stream, group, id).Err(); err != nil {
		logger.Warn("bus_ack_failed", slog.String("stream", stream), slog.String("id", id), slog.Any("error", err))
	}
}

// ensureGroup creates the consumer group at the start of the stream.
func (bus *RedisBus) ensureGroup(ctx context.Context, stream, group string) error {
	err := bus.client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("events: create group %s on %s: %w", group, stream, err)
	}
	return nil
}

func decodeMessage(message redis.XMessage) (Event, error) {
	raw, ok := message.Values[payloadField]
	if !ok {
		return nil, fmt.Errorf("events: entry has no %q field", payloadField)
	}

	switch payload := raw.(type) {
	case string:
		return Decode([]byte(payload))
	case []byte:
		return Decode(payload)
	default:
		return nil, fmt.Errorf("events: unexpected payload type %T", raw)
	}
}

// withCursor builds the XREADGROUP stream list: all keys, then one cursor per key.
func withCursor(streams []string, cursor string) []string {
	args := make([]string, 0, len(streams)*2)
	args = append(args, streams...)
	for range streams {
		args = append(args, cursor)
	}
	return args
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package events

import (
	"context"
	"fmt"
	"slices"
)

// Handler processes one delivered event. A non-nil error leaves the event
// unacknowledged so the bus delivers it again.
type Handler func(ctx context.Context, event Event) error

// Router dispatches events to typed handlers by kind.
type Router struct {
	handlers map[Kind]Handler
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{handlers: make(map[Kind]Handler)}
}

// On registers a typed handler for the variant T.
func On[T Event](router *Router, handle func(ctx context.Context, event T) error) {
	var zero T
	router.handlers[zero.Kind()] = func(ctx context.Context, event Event) error {
		typed, ok := event.(T)
		if !ok {
			return fmt.Errorf("events: %s delivered as %T", zero.Kind(), event)
		}
		return handle(ctx, typed)
	}
}

// Topics lists the distinct topics the registered kinds are published on.
func (router *Router) Topics() []Topic {
	seen := make(map[Topic]bool)
	topics := make([]Topic, 0, len(router.handlers))
	for kind := range router.handlers {
		topic := variants[kind].topic
		if !seen[topic] {
			seen[topic] = true
			topics = append(topics, topic)
		}
	}
	slices.Sort(topics)
	return topics
}

// Handle implements [Handler]. Kinds without a handler are skipped, since
// several kinds share a topic and a consumer may only care about some.
func (router *Router) Handle(ctx context.Context, event Event) error {
	handle, ok := router.handlers[event.Kind()]
	if !ok {
		return nil
	}
	return handle(ctx, event)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"
	"log/slog"

	"github.com/taibuivan/socialnet/internal/platform/events"
)

/*
NewEventRouter forwards user-facing events to the socket of their receiver.

Events for users without a socket are dropped: there is no offline inbox.
A frame that cannot be rendered is logged and acknowledged.
*/
func NewEventRouter(hub *Hub, logger *slog.Logger) *events.Router {
	router := events.NewRouter()

	events.On(router, func(ctx context.Context, event events.MessageSent) error {
		forward(ctx, hub, logger, event.Receiver, event)
		return nil
	})
	events.On(router, func(ctx context.Context, event events.FriendshipRequestSent) error {
		forward(ctx, hub, logger, event.Receiver, event)
		return nil
	})
	events.On(router, func(ctx context.Context, event events.FriendshipRequestAccepted) error {
		forward(ctx, hub, logger, event.Receiver, event)
		return nil
	})
	events.On(router, func(ctx context.Context, event events.FriendshipRequestRejected) error {
		forward(ctx, hub, logger, event.Receiver, event)
		return nil
	})

	return router
}

func forward(ctx context.Context, hub *Hub, logger *slog.Logger, receiver string, event events.Event) {
	if !hub.Connected(receiver) {
		logger.DebugContext(ctx, "notification_dropped_offline",
			slog.String("kind", string(event.Kind())),
			slog.String("receiver", receiver),
		)
		return
	}

	frame, err := Frame(event)
	if err != nil {
		logger.ErrorContext(ctx, "notification_frame_failed",
			slog.String("kind", string(event.Kind())), slog.Any("error", err))
		return
	}

	delivered := hub.Send(receiver, frame)
	logger.DebugContext(ctx, "notification_forwarded",
		slog.String("kind", string(event.Kind())),
		slog.String("receiver", receiver),
		slog.Bool("delivered", delivered),
	)
}

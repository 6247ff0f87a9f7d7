// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/events"
)

/*
NewEventRouter keeps the member and friendship tables in sync.

  - user-created adds a member.
  - friendship-request-accepted links the two members.

Invalid events are logged and acknowledged. Any other failure, including a
friendship naming a member not seen yet, is returned so the bus redelivers it.
*/
func NewEventRouter(service *Service, logger *slog.Logger) *events.Router {
	router := events.NewRouter()

	events.On(router, func(ctx context.Context, event events.UserCreated) error {
		err := service.AddMember(ctx, Member{Email: event.Email, Username: event.Username})
		return ackInvalid(ctx, logger, err, slog.String("email", event.Email))
	})

	events.On(router, func(ctx context.Context, event events.FriendshipRequestAccepted) error {
		err := service.AddFriendship(ctx, event.Sender, event.Receiver)
		return ackInvalid(ctx, logger, err,
			slog.String("sender", event.Sender), slog.String("receiver", event.Receiver))
	})

	return router
}

func ackInvalid(ctx context.Context, logger *slog.Logger, err error, attrs ...any) error {
	if apperr.StatusOf(err) != http.StatusBadRequest {
		return err
	}
	logger.WarnContext(ctx, "content_event_rejected", append(attrs, slog.Any("error", err))...)
	return nil
}

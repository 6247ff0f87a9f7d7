// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package friendship

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/events"
)

// NewEventRouter feeds the member table from user-created events.
//
// An event the service rejects as invalid is logged and acknowledged. Store
// failures are returned so the bus delivers the event again.
func NewEventRouter(service *Service, logger *slog.Logger) *events.Router {
	router := events.NewRouter()
	events.On(router, func(ctx context.Context, event events.UserCreated) error {
		err := service.AddMember(ctx, Member{Email: event.Email, Username: event.Username})
		if apperr.StatusOf(err) == http.StatusBadRequest {
			logger.WarnContext(ctx, "friendship_member_event_rejected",
				slog.String("email", event.Email), slog.Any("error", err))
			return nil
		}
		return err
	})
	return router
}

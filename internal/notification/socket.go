// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/constants"
	"github.com/taibuivan/socialnet/internal/platform/middleware"
)

const (
	// pongWait is how long a silent client stays registered.
	pongWait = 60 * time.Second
	// pingPeriod must stay below pongWait.
	pingPeriod = pongWait * 9 / 10
	// maxFrameBytes bounds inbound frames. Only the token frame is meaningful.
	maxFrameBytes = 8 << 10
)

// Close reasons sent to rejected sockets.
const (
	ReasonNotReady   = "unable to authenticate, try again later"
	ReasonBadFrame   = "expected a text frame holding the access token"
	ReasonBadToken   = "invalid token"
	ReasonBlocked    = "account blocked"
	ReasonSuperseded = "superseded by a newer connection"
)

// # Handler

// Handler upgrades GET /notifications and runs the socket handshake.
type Handler struct {
	hub         *Hub
	verifier    middleware.TokenVerifier
	upgrader    websocket.Upgrader
	authTimeout time.Duration
	logger      *slog.Logger
}

// NewHandler creates the socket endpoint. authTimeout bounds the wait for the
// token frame.
func NewHandler(hub *Hub, verifier middleware.TokenVerifier, authTimeout time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The socket carries no cookie: the token frame is the only credential.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		authTimeout: authTimeout,
		logger:      logger,
	}
}

// RegisterRoutes attaches the socket endpoint to the root router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/notifications", handler.ServeHTTP)
}

/*
ServeHTTP handles GET /notifications.

Handshake:
 1. The client sends its access token, with or without the Bearer scheme, as
    the first text frame.
 2. No cached key closes with 1013, a bad token or a blocked account with 1008.
 3. Otherwise the socket is registered under the token subject and receives
    {"type":"authenticated","userId":"<subject>"}.

Later inbound frames are read and discarded until the client goes away.
*/
func (handler *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	ws, err := handler.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		// Upgrade already answered with an HTTP error.
		handler.logger.DebugContext(request.Context(), "notification_upgrade_failed", slog.Any("error", err))
		return
	}
	ws.SetReadLimit(maxFrameBytes)

	ctx := request.Context()
	conn := newConn(ws)

	userID, ok := handler.authenticate(ctx, conn)
	if !ok {
		return
	}

	if previous := handler.hub.Register(userID, conn); previous != nil {
		previous.close(websocket.CloseNormalClosure, ReasonSuperseded)
	}
	defer func() {
		handler.hub.Unregister(userID, conn)
		conn.close(websocket.CloseNormalClosure, "")
		handler.logger.InfoContext(ctx, "notification_socket_closed", slog.String("user_id", userID))
	}()

	ack, _ := json.Marshal(authenticated{Type: TypeAuthenticated, UserID: userID})
	if err := conn.write(websocket.TextMessage, ack); err != nil {
		return
	}
	handler.logger.InfoContext(ctx, "notification_socket_authenticated", slog.String("user_id", userID))

	handler.pump(conn)
}

// authenticate reads the token frame and closes the socket on rejection.
func (handler *Handler) authenticate(ctx context.Context, conn *Conn) (string, bool) {
	_ = conn.ws.SetReadDeadline(time.Now().Add(handler.authTimeout))

	messageType, payload, err := conn.ws.ReadMessage()
	if err != nil {
		conn.close(websocket.ClosePolicyViolation, ReasonBadFrame)
		return "", false
	}
	if messageType != websocket.TextMessage {
		conn.close(websocket.CloseUnsupportedData, ReasonBadFrame)
		return "", false
	}

	token := strings.TrimSpace(string(payload))
	if !strings.HasPrefix(token, constants.BearerPrefix) {
		token = constants.BearerPrefix + token
	}

	claims, err := middleware.ParseBearer(handler.verifier, token)
	switch {
	case apperr.StatusOf(err) == http.StatusServiceUnavailable:
		conn.close(websocket.CloseTryAgainLater, ReasonNotReady)
		return "", false
	case err != nil:
		handler.logger.InfoContext(ctx, "notification_token_rejected", slog.Any("error", err))
		conn.close(websocket.ClosePolicyViolation, ReasonBadToken)
		return "", false
	case claims.IsBlocked():
		conn.close(websocket.ClosePolicyViolation, ReasonBlocked)
		return "", false
	}

	return claims.Subject, true
}

// pump keeps the socket alive until the client leaves or stops answering pings.
func (handler *Handler) pump(conn *Conn) {
	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.write(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notification pushes domain events to connected clients over WebSocket.

A client opens GET /notifications and sends its access token as the first
text frame. Once the token is verified, the socket is registered under the
token subject and every event addressed to that user is written to it.
*/
package notification

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait bounds a single frame write.
const writeWait = 10 * time.Second

// # Connection

// Conn is a registered socket. gorilla/websocket allows one concurrent
// writer, so every write goes through mu.
type Conn struct {
	ws     *websocket.Conn
	mu     sync.Mutex
	closed bool
}

func newConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// write sends one frame. Writing to a closed Conn returns [websocket.ErrCloseSent].
func (conn *Conn) write(messageType int, payload []byte) error {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.closed {
		return websocket.ErrCloseSent
	}
	if err := conn.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.ws.WriteMessage(messageType, payload)
}

// close sends a close frame with code and reason, then drops the connection.
// Only the first call has an effect.
func (conn *Conn) close(code int, reason string) {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.closed {
		return
	}
	conn.closed = true

	message := websocket.FormatCloseMessage(code, reason)
	_ = conn.ws.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
	_ = conn.ws.Close()
}

// # Registry

/*
Hub maps a user to their live socket.

A user holds at most one registered socket: a newer authentication replaces
the older entry. Removal only deletes the entry it was given, so a socket
closing late cannot unregister its replacement. Sending to a user without an
entry, or whose socket just went away, is a no-op.
*/
type Hub struct {
	conns  sync.Map // user id -> *Conn
	logger *slog.Logger
}

// NewHub creates an empty registry.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{logger: logger}
}

// Register binds conn to userID and returns the socket it replaced, if any.
func (hub *Hub) Register(userID string, conn *Conn) *Conn {
	previous, loaded := hub.conns.Swap(userID, conn)
	if !loaded {
		return nil
	}
	return previous.(*Conn)
}

// Unregister removes the entry of userID if it still points at conn.
func (hub *Hub) Unregister(userID string, conn *Conn) bool {
	return hub.conns.CompareAndDelete(userID, conn)
}

// Connected reports whether userID has a registered socket.
func (hub *Hub) Connected(userID string) bool {
	_, ok := hub.conns.Load(userID)
	return ok
}

// Send writes payload to the socket of userID.
//
// It reports whether a frame was written. A failed write closes the socket
// and drops its entry.
func (hub *Hub) Send(userID string, payload []byte) bool {
	value, ok := hub.conns.Load(userID)
	if !ok {
		return false
	}
	conn := value.(*Conn)

	if err := conn.write(websocket.TextMessage, payload); err != nil {
		hub.logger.Warn("notification_send_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		hub.Unregister(userID, conn)
		conn.close(websocket.CloseGoingAway, "")
		return false
	}
	return true
}

// CloseAll closes every registered socket. Used on shutdown.
func (hub *Hub) CloseAll() {
	hub.conns.Range(func(key, value any) bool {
		hub.conns.CompareAndDelete(key, value)
		value.(*Conn).close(websocket.CloseGoingAway, "server shutting down")
		return true
	})
}

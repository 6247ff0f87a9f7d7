// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/socialnet/internal/platform/constants"
	"github.com/taibuivan/socialnet/internal/platform/middleware"
	requestutil "github.com/taibuivan/socialnet/internal/platform/request"
	"github.com/taibuivan/socialnet/internal/platform/respond"
	"github.com/taibuivan/socialnet/internal/platform/sec"
	"github.com/taibuivan/socialnet/internal/platform/upstream"
	"github.com/taibuivan/socialnet/internal/platform/validate"
)

// maxBodyBytes caps every body the gateway buffers before forwarding.
const maxBodyBytes = 1 << 20

const (
	paramEmail = "email"
	paramID    = "id"
	paramUser1 = "user1"
	paramUser2 = "user2"
)

// Upstreams lists the backing service clients.
type Upstreams struct {
	Users      *upstream.Client
	Friendship *upstream.Client
	Content    *upstream.Client
}

// # Handler Implementation

// Handler serves the public API.
type Handler struct {
	saga      *RegistrationSaga
	upstreams Upstreams
	verifier  middleware.TokenVerifier
}

// NewHandler constructs the gateway [Handler].
func NewHandler(saga *RegistrationSaga, upstreams Upstreams, verifier middleware.TokenVerifier) *Handler {
	return &Handler{saga: saga, upstreams: upstreams, verifier: verifier}
}

/*
RegisterRoutes attaches the public API to the root router.

Layout:
  - Public: login and registration.
  - Authenticated: every other route needs a valid token of an unblocked account.
  - Admin: account deletion and blocking additionally need the admin role.
*/
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/login", handler.Login)
	router.Post("/users", handler.Register)

	router.Group(func(authenticated chi.Router) {
		authenticated.Use(middleware.Authenticate(handler.verifier))
		authenticated.Use(middleware.RequireUnblocked)

		// Users
		authenticated.Get("/users/{email}", handler.GetUser)
		authenticated.Put("/users", handler.RenameUser)
		authenticated.Put("/users/credentials", handler.ChangePassword)

		authenticated.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireRole(sec.RoleAdmin))
			admin.Delete("/users/{email}", handler.DeleteUser)
			admin.Post("/users/block/{email}", handler.BlockUser)
			admin.Post("/users/unblock/{email}", handler.UnblockUser)
		})

		// Friendship
		authenticated.Get("/friends/friendships/{email}", handler.GetFriendships)
		authenticated.Get("/friends/requests/{email}", handler.GetFriendshipRequests)
		authenticated.Post("/friends/requests/send", handler.SendFriendshipRequest)
		authenticated.Put("/friends/requests/accept", handler.AcceptFriendshipRequest)
		authenticated.Put("/friends/requests/decline", handler.DeclineFriendshipRequest)

		// Messages
		authenticated.Post("/friends/messages/send", handler.SendMessage)
		authenticated.Get("/friends/messages/chat/{user1}/{user2}", handler.GetChat)
		authenticated.Get("/friends/messages/{id}", handler.GetMessage)

		// Content
		authenticated.Post("/contents/posts", handler.PublishPost)
		authenticated.Get("/contents/posts/{email}", handler.GetPosts)
		authenticated.Get("/contents/posts/feed/{email}", handler.GetFeed)
	})
}

// # Helpers

// forward surfaces an upstream reply verbatim, or the transport failure.
func forward(writer http.ResponseWriter, request *http.Request, reply *upstream.Response, err error) {
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Raw(writer, reply.StatusCode, reply.Header.Get(constants.HeaderContentType), reply.Body)
}

// readBody buffers a JSON object body so it can be inspected and forwarded
// untouched.
func readBody(request *http.Request) ([]byte, map[string]json.RawMessage, error) {
	body, err := io.ReadAll(io.LimitReader(request.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, validate.ErrInvalidJSON
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, nil, validate.ErrInvalidJSON
	}
	return body, fields, nil
}

// stringField reads a top-level string member. Absent or non-string members
// read as empty, which no owner check accepts.
func stringField(fields map[string]json.RawMessage, name string) string {
	var value string
	if raw, ok := fields[name]; ok {
		_ = json.Unmarshal(raw, &value)
	}
	return value
}

// ownedBody buffers the body and checks that its owner member names the caller.
func ownedBody(request *http.Request, owner string) ([]byte, error) {
	body, fields, err := readBody(request)
	if err != nil {
		return nil, err
	}
	if _, err := requestutil.RequireOwner(request, stringField(fields, owner)); err != nil {
		return nil, err
	}
	return body, nil
}

// ownedParam returns the path parameter once it is known to name the caller.
func ownedParam(request *http.Request, name string) (string, error) {
	value := requestutil.Param(request, name)
	if _, err := requestutil.RequireOwner(request, value); err != nil {
		return "", err
	}
	return value, nil
}

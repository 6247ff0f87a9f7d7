// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package friendship

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/socialnet/internal/platform/request"
	"github.com/taibuivan/socialnet/internal/platform/respond"
	"github.com/taibuivan/socialnet/internal/platform/validate"
)

// # Handler Implementation

// Handler exposes the friendship use cases to the gateway, which owns
// authentication and ownership checks.
type Handler struct {
	service *Service
}

// NewHandler constructs a new friendship [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the friendship endpoints to the root router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/friends/friendships", handler.GetFriends)

	router.Get("/friends/requests", handler.GetIncomingRequests)
	router.Post("/friends/requests/send", handler.SendRequest)
	router.Put("/friends/requests/accept", handler.AcceptRequest)
	router.Put("/friends/requests/decline", handler.DeclineRequest)

	router.Post("/friends/messages/send", handler.SendMessage)
	router.Get("/friends/messages/chat", handler.GetChat)
	router.Get("/friends/messages/{id}", handler.GetMessage)
}

// # Request Payloads

type requestPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type messagePayload struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Content  string `json:"content"`
}

// GetFriends handles GET /friends/friendships?email={email}.
func (handler *Handler) GetFriends(writer http.ResponseWriter, request *http.Request) {
	friends, err := handler.service.Friends(request.Context(), request.URL.Query().Get(FieldEmail))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, friends)
}

// GetIncomingRequests handles GET /friends/requests?email={email}.
func (handler *Handler) GetIncomingRequests(writer http.ResponseWriter, request *http.Request) {
	requests, err := handler.service.IncomingRequests(request.Context(), request.URL.Query().Get(FieldEmail))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, requests)
}

/*
POST /friends/requests/send.

Response:
  - 201: Request
  - 400: Invalid payload or self request
  - 404: Unknown member
  - 409: Already pending, or already friends
*/
func (handler *Handler) SendRequest(writer http.ResponseWriter, request *http.Request) {
	var input requestPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.service.SendRequest(request.Context(), input.From, input.To)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
PUT /friends/requests/accept.

Description: The receiver ("to") accepts the request sent by "from".

Response:
  - 200: Friendship
  - 404: No such pending request
*/
func (handler *Handler) AcceptRequest(writer http.ResponseWriter, request *http.Request) {
	var input requestPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	friendship, err := handler.service.AcceptRequest(request.Context(), input.From, input.To)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, friendship)
}

// DeclineRequest handles PUT /friends/requests/decline.
func (handler *Handler) DeclineRequest(writer http.ResponseWriter, request *http.Request) {
	var input requestPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.service.DeclineRequest(request.Context(), input.From, input.To); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /friends/messages/send.

Response:
  - 201: Message
  - 400: Invalid payload
  - 403: Sender and receiver are not friends
*/
func (handler *Handler) SendMessage(writer http.ResponseWriter, request *http.Request) {
	var input messagePayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	message, err := handler.service.SendMessage(request.Context(), input.Sender, input.Receiver, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, message)
}

// GetChat handles GET /friends/messages/chat?user1={email}&user2={email}.
func (handler *Handler) GetChat(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	messages, err := handler.service.Chat(request.Context(), query.Get(FieldUser1), query.Get(FieldUser2))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messages)
}

// GetMessage handles GET /friends/messages/{id}.
func (handler *Handler) GetMessage(writer http.ResponseWriter, request *http.Request) {
	message, err := handler.service.Message(request.Context(), requestutil.Param(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, message)
}

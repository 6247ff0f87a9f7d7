// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	requestutil "github.com/taibuivan/socialnet/internal/platform/request"
	"github.com/taibuivan/socialnet/internal/platform/respond"
	"github.com/taibuivan/socialnet/internal/platform/upstream"
)

// errNotParticipant rejects callers outside a conversation.
var errNotParticipant = apperr.Unauthorized("you are not allowed to access this resource")

// # Friendships

// GetFriendships handles GET /friends/friendships/{email}.
func (handler *Handler) GetFriendships(writer http.ResponseWriter, request *http.Request) {
	email, err := ownedParam(request, paramEmail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.upstreams.Friendship.Get(request.Context(), "/friends/friendships", url.Values{FieldEmail: {email}})
	forward(writer, request, reply, err)
}

// GetFriendshipRequests handles GET /friends/requests/{email}, the caller's pending inbox.
func (handler *Handler) GetFriendshipRequests(writer http.ResponseWriter, request *http.Request) {
	email, err := ownedParam(request, paramEmail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.upstreams.Friendship.Get(request.Context(), "/friends/requests", url.Values{FieldEmail: {email}})
	forward(writer, request, reply, err)
}

/*
POST /friends/requests/send.

Description: Asks "to" for friendship. The body "from" must be the caller.

Response:
  - 201: FriendshipRequest
  - 400: Self request or invalid payload
  - 401: Not the owner
  - 404: Unknown user
  - 409: Already requested or already friends
*/
func (handler *Handler) SendFriendshipRequest(writer http.ResponseWriter, request *http.Request) {
	body, err := ownedBody(request, FieldFrom)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.upstreams.Friendship.Post(request.Context(), "/friends/requests/send", body)
	forward(writer, request, reply, err)
}

// AcceptFriendshipRequest handles PUT /friends/requests/accept. Only the
// receiver of the request ("to") may accept it.
func (handler *Handler) AcceptFriendshipRequest(writer http.ResponseWriter, request *http.Request) {
	body, err := ownedBody(request, FieldTo)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.upstreams.Friendship.Put(request.Context(), "/friends/requests/accept", body)
	forward(writer, request, reply, err)
}

// DeclineFriendshipRequest handles PUT /friends/requests/decline.
func (handler *Handler) DeclineFriendshipRequest(writer http.ResponseWriter, request *http.Request) {
	body, err := ownedBody(request, FieldTo)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.upstreams.Friendship.Put(request.Context(), "/friends/requests/decline", body)
	forward(writer, request, reply, err)
}

// # Messages

// SendMessage handles POST /friends/messages/send. The body "sender" must be the caller.
func (handler *Handler) SendMessage(writer http.ResponseWriter, request *http.Request) {
	body, err := ownedBody(request, FieldSender)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.upstreams.Friendship.Post(request.Context(), "/friends/messages/send", body)
	forward(writer, request, reply, err)
}

// GetChat handles GET /friends/messages/chat/{user1}/{user2}. The caller must
// be one of the two participants.
func (handler *Handler) GetChat(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user1 := requestutil.Param(request, paramUser1)
	user2 := requestutil.Param(request, paramUser2)
	if claims.Subject != user1 && claims.Subject != user2 {
		respond.Error(writer, request, errNotParticipant)
		return
	}

	reply, err := handler.upstreams.Friendship.Get(request.Context(), "/friends/messages/chat",
		url.Values{paramUser1: {user1}, paramUser2: {user2}})
	forward(writer, request, reply, err)
}

/*
GET /friends/messages/{id}.

Description: Returns one message. Its participants are only known once it was
fetched, so the ownership check runs after the upstream call.

Response:
  - 200: Message
  - 401: The caller is neither sender nor receiver
  - any: The upstream reply when it is not a 200
*/
func (handler *Handler) GetMessage(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, paramID)
	reply, err := handler.upstreams.Friendship.Get(request.Context(), "/friends/messages/"+upstream.PathEscape(id), nil)
	if err != nil || !reply.Is(http.StatusOK) {
		forward(writer, request, reply, err)
		return
	}

	var envelope struct {
		Data struct {
			Sender   string `json:"sender"`
			Receiver string `json:"receiver"`
		} `json:"data"`
	}
	if err := reply.Decode(&envelope); err != nil {
		respond.Error(writer, request, apperr.Internal(fmt.Errorf("gateway_message_decode_failed: %w", err)))
		return
	}

	if claims.Subject != envelope.Data.Sender && claims.Subject != envelope.Data.Receiver {
		respond.Error(writer, request, errNotParticipant)
		return
	}

	forward(writer, request, reply, nil)
}

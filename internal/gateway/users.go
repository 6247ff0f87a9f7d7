// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway

import (
	"net/http"
	"net/url"

	requestutil "github.com/taibuivan/socialnet/internal/platform/request"
	"github.com/taibuivan/socialnet/internal/platform/respond"
	"github.com/taibuivan/socialnet/internal/platform/upstream"
	"github.com/taibuivan/socialnet/internal/platform/validate"
)

// # Public

/*
POST /login.

Description: Exchanges an email and a password for a session token. The users
service answers directly.

Response:
  - 200: Session
  - 400: Invalid payload
  - 401: Invalid email or password
*/
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	body, _, err := readBody(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.upstreams.Users.Post(request.Context(), "/login", body)
	forward(writer, request, reply, err)
}

/*
POST /users.

Description: Registers an account through the [RegistrationSaga].

Response:
  - 201: {email, username}
  - 400: A field is missing
  - 503: The users service could not be reached
  - any: The upstream reply of the step that failed
*/
func (handler *Handler) Register(writer http.ResponseWriter, request *http.Request) {
	var input Registration
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	execution, err := handler.saga.Run(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if execution.State != Committed {
		forward(writer, request, execution.Reply, nil)
		return
	}

	respond.Created(writer, map[string]string{
		FieldEmail:    input.Email,
		FieldUsername: input.Username,
	})
}

// # Owner

// GetUser handles GET /users/{email}.
func (handler *Handler) GetUser(writer http.ResponseWriter, request *http.Request) {
	email, err := ownedParam(request, paramEmail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.upstreams.Users.Get(request.Context(), "/users", url.Values{FieldEmail: {email}})
	forward(writer, request, reply, err)
}

// RenameUser handles PUT /users. The body email must be the caller.
func (handler *Handler) RenameUser(writer http.ResponseWriter, request *http.Request) {
	body, err := ownedBody(request, FieldEmail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.upstreams.Users.Put(request.Context(), "/users", body)
	forward(writer, request, reply, err)
}

/*
PUT /users/credentials.

Description: Changes the caller's password. The body carries email,
old_password and new_password.

Response:
  - 204: Changed
  - 400: New password violates the policy
  - 401: Not the owner, or wrong old password
*/
func (handler *Handler) ChangePassword(writer http.ResponseWriter, request *http.Request) {
	body, err := ownedBody(request, FieldEmail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.upstreams.Users.Put(request.Context(), "/users/credentials", body)
	forward(writer, request, reply, err)
}

// # Admin

// DeleteUser handles DELETE /users/{email}.
func (handler *Handler) DeleteUser(writer http.ResponseWriter, request *http.Request) {
	email := requestutil.Param(request, paramEmail)
	reply, err := handler.upstreams.Users.Delete(request.Context(), "/users/"+upstream.PathEscape(email))
	forward(writer, request, reply, err)
}

// BlockUser handles POST /users/block/{email}.
func (handler *Handler) BlockUser(writer http.ResponseWriter, request *http.Request) {
	email := requestutil.Param(request, paramEmail)
	reply, err := handler.upstreams.Users.Post(request.Context(), "/users/block/"+upstream.PathEscape(email), nil)
	forward(writer, request, reply, err)
}

// UnblockUser handles POST /users/unblock/{email}.
func (handler *Handler) UnblockUser(writer http.ResponseWriter, request *http.Request) {
	email := requestutil.Param(request, paramEmail)
	reply, err := handler.upstreams.Users.Post(request.Context(), "/users/unblock/"+upstream.PathEscape(email), nil)
	forward(writer, request, reply, err)
}

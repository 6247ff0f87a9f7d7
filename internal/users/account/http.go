// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/socialnet/internal/platform/request"
	"github.com/taibuivan/socialnet/internal/platform/respond"
	"github.com/taibuivan/socialnet/internal/platform/validate"
)

const (
	FieldCount = "count"

	paramEmail = "email"
)

// # Handler Implementation

// Handler exposes the account use cases to the gateway.
//
// The users service sits behind the gateway, which owns authentication and
// ownership checks. Routes here are therefore not guarded.
type Handler struct {
	service *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the account endpoints to the root router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/users", handler.CreateUser)
	router.Get("/users", handler.GetUser)
	router.Put("/users", handler.RenameUser)
	router.Get("/users/count", handler.CountUsers)
	router.Delete("/users/{email}", handler.DeleteUser)
	router.Post("/users/block/{email}", handler.BlockUser)
	router.Post("/users/unblock/{email}", handler.UnblockUser)
}

// # Request Payloads

type createUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type renameUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

/*
POST /users.

Description: First step of a registration. Stores the account and announces it.

Response:
  - 201: User
  - 400: Missing or invalid email or username
  - 409: Email already registered
*/
func (handler *Handler) CreateUser(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.service.Create(request.Context(), CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
GET /users?email={email}.

Response:
  - 200: User
  - 400: Invalid email
  - 404: Unknown account
*/
func (handler *Handler) GetUser(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.Get(request.Context(), request.URL.Query().Get(paramEmail))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PUT /users.

Description: Changes the username of the account named in the body.

Response:
  - 200: User
  - 400: Invalid payload
  - 404: Unknown account
*/
func (handler *Handler) RenameUser(writer http.ResponseWriter, request *http.Request) {
	var input renameUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.service.Rename(request.Context(), input.Email, input.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// CountUsers handles GET /users/count.
func (handler *Handler) CountUsers(writer http.ResponseWriter, request *http.Request) {
	count, err := handler.service.Count(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{FieldCount: count})
}

/*
DELETE /users/{email}.

Description: Removes the account and its credential. This is the compensation
target of the registration saga.

Response:
  - 204: Deleted
  - 404: Unknown account
*/
func (handler *Handler) DeleteUser(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, paramEmail)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// BlockUser handles POST /users/block/{email}.
func (handler *Handler) BlockUser(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Block(request.Context(), requestutil.Param(request, paramEmail)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// UnblockUser handles POST /users/unblock/{email}.
func (handler *Handler) UnblockUser(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Unblock(request.Context(), requestutil.Param(request, paramEmail)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

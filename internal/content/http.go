// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/socialnet/internal/platform/request"
	"github.com/taibuivan/socialnet/internal/platform/respond"
	"github.com/taibuivan/socialnet/internal/platform/validate"
	"github.com/taibuivan/socialnet/pkg/pagination"
)

// Handler exposes posts and feeds to the gateway.
type Handler struct {
	service *Service
}

// NewHandler constructs a new content [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the content endpoints to the root router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/contents/posts", func(r chi.Router) {
		r.Post("/", handler.PublishPost)
		r.Get("/feed/{email}", handler.GetFeed)
		r.Get("/{email}", handler.GetPosts)
	})
}

type postPayload struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

/*
POST /contents/posts.

Response:
  - 201: Post
  - 400: Invalid payload
  - 404: Unknown author
*/
func (handler *Handler) PublishPost(writer http.ResponseWriter, request *http.Request) {
	var input postPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	post, err := handler.service.Publish(request.Context(), input.Author, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, post)
}

// GetPosts handles GET /contents/posts/{email}?page=&limit=.
func (handler *Handler) GetPosts(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	posts, total, err := handler.service.Posts(request.Context(), requestutil.Param(request, FieldEmail), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(page, total))
}

/*
GET /contents/posts/feed/{email}?keyword=&page=&limit=.

Response:
  - 200: Posts of the member's friends, newest first
  - 404: Unknown member
*/
func (handler *Handler) GetFeed(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	keyword := request.URL.Query().Get(FieldKeyword)

	posts, total, err := handler.service.Feed(request.Context(), requestutil.Param(request, FieldEmail), keyword, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(page, total))
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway

import (
	"net/http"
	"net/url"

	"github.com/taibuivan/socialnet/internal/platform/respond"
	"github.com/taibuivan/socialnet/internal/platform/upstream"
	"github.com/taibuivan/socialnet/pkg/pagination"
)

// PublishPost handles POST /contents/posts. The body "author" must be the caller.
func (handler *Handler) PublishPost(writer http.ResponseWriter, request *http.Request) {
	body, err := ownedBody(request, FieldAuthor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.upstreams.Content.Post(request.Context(), "/contents/posts", body)
	forward(writer, request, reply, err)
}

// GetPosts handles GET /contents/posts/{email}, the caller's own posts.
func (handler *Handler) GetPosts(writer http.ResponseWriter, request *http.Request) {
	email, err := ownedParam(request, paramEmail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.upstreams.Content.Get(request.Context(),
		"/contents/posts/"+upstream.PathEscape(email), pageQuery(request))
	forward(writer, request, reply, err)
}

/*
GET /contents/posts/feed/{email}?keyword={keyword}&page={page}&limit={limit}.

Description: Posts of the caller's friends, newest first, optionally filtered
by keyword.

Response:
  - 200: Paginated posts
  - 401: Not the owner
*/
func (handler *Handler) GetFeed(writer http.ResponseWriter, request *http.Request) {
	email, err := ownedParam(request, paramEmail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := pageQuery(request)
	if keyword := request.URL.Query().Get(FieldKeyword); keyword != "" {
		query.Set(FieldKeyword, keyword)
	}

	reply, err := handler.upstreams.Content.Get(request.Context(),
		"/contents/posts/feed/"+upstream.PathEscape(email), query)
	forward(writer, request, reply, err)
}

// pageQuery normalizes the paging parameters before forwarding them.
func pageQuery(request *http.Request) url.Values {
	query := url.Values{}
	for key, value := range pagination.FromRequest(request).Query() {
		query.Set(key, value)
	}
	return query
}

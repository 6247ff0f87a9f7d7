// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/socialnet/internal/content"
	"github.com/taibuivan/socialnet/pkg/pagination"
)

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	return recorder
}

type pageEnvelope struct {
	Data []content.Post `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

func TestHandler_Flow(t *testing.T) {
	service, _ := newService(t)
	router := chi.NewRouter()
	content.NewHandler(service).RegisterRoutes(router)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/contents/posts", `{`).Code)
	assert.Equal(t, http.StatusBadRequest,
		serve(router, http.MethodPost, "/contents/posts", `{"author":"bob@test.com","content":""}`).Code)
	assert.Equal(t, http.StatusNotFound,
		serve(router, http.MethodPost, "/contents/posts", `{"author":"ghost@test.com","content":"hi"}`).Code)

	for _, text := range []string{"Morning coffee", "Café au lait", "Running late"} {
		created := serve(router, http.MethodPost, "/contents/posts",
			`{"author":"bob@test.com","content":"`+text+`"}`)
		require.Equal(t, http.StatusCreated, created.Code)
	}

	posts := serve(router, http.MethodGet, "/contents/posts/bob@test.com?page=1&limit=2", "")
	require.Equal(t, http.StatusOK, posts.Code)

	var page pageEnvelope
	require.NoError(t, json.Unmarshal(posts.Body.Bytes(), &page))
	assert.Len(t, page.Data, 2)
	assert.Equal(t, pagination.Meta{Page: 1, Limit: 2, Total: 3, TotalPages: 2}, page.Meta)
	assert.Equal(t, "Running late", page.Data[0].Content)
	assert.Equal(t, "bob", page.Data[0].Username)

	feed := serve(router, http.MethodGet, "/contents/posts/feed/alice@test.com?keyword=CAFE", "")
	require.Equal(t, http.StatusOK, feed.Code)

	page = pageEnvelope{}
	require.NoError(t, json.Unmarshal(feed.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Café au lait", page.Data[0].Content)
	assert.Equal(t, pagination.DefaultLimit, page.Meta.Limit)

	empty := serve(router, http.MethodGet, "/contents/posts/feed/carol@test.com", "")
	require.Equal(t, http.StatusOK, empty.Code)
	assert.JSONEq(t, `{"data":[],"meta":{"page":1,"limit":20,"total":0,"total_pages":0}}`, empty.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/contents/posts/feed/ghost@test.com", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/contents/posts/not-an-email", "").Code)
}

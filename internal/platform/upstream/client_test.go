// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upstream_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/constants"
	"github.com/taibuivan/socialnet/internal/platform/ctxutil"
	"github.com/taibuivan/socialnet/internal/platform/upstream"
)

/*
TestClient_Do verifies request forwarding and buffered replies of any status.
*/
func TestClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		body, _ := io.ReadAll(request.Body)

		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/users", request.URL.Path)
		assert.Equal(t, "bob@test.com", request.URL.Query().Get("email"))
		assert.Equal(t, "rid-1", request.Header.Get(constants.HeaderXRequestID))
		assert.JSONEq(t, `{"email":"bob@test.com"}`, string(body))

		writer.WriteHeader(http.StatusConflict)
		_, _ = writer.Write([]byte(`{"error":"exists"}`))
	}))
	defer server.Close()

	client := upstream.NewClient("users", server.URL+"/", time.Second)
	ctx := ctxutil.WithRequestID(context.Background(), "rid-1")

	response, err := client.Do(ctx, http.MethodPost, "/users", url.Values{"email": {"bob@test.com"}}, map[string]string{"email": "bob@test.com"})
	require.NoError(t, err)

	assert.True(t, response.Is(http.StatusConflict))
	assert.JSONEq(t, `{"error":"exists"}`, string(response.Body))
}

/*
TestClient_TransportFailure verifies that unreachable services map to 503.
*/
func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	address := server.URL
	server.Close()

	client := upstream.NewClient("users", address, time.Second)

	_, err := client.Get(context.Background(), "/users", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, apperr.StatusOf(err))
}

/*
TestClient_Timeout verifies that a slow service counts as a transport failure.
*/
func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		select {
		case <-release:
		case <-request.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := upstream.NewClient("users", server.URL, 50*time.Millisecond)

	_, err := client.Post(context.Background(), "/users/credentials", []byte(`{}`))
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, apperr.StatusOf(err))
}

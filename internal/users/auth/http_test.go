// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/socialnet/internal/users/account"
	"github.com/taibuivan/socialnet/internal/users/auth"
)

func TestHandler(t *testing.T) {
	f := newFixture(t)
	f.accounts.put(account.User{Email: "bob@test.com", Username: "bob"})

	router := chi.NewRouter()
	auth.NewHandler(f.service).RegisterRoutes(router)

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
		return recorder
	}

	assert.Equal(t, http.StatusBadRequest,
		serve(http.MethodPost, "/users/credentials", `{"email":"bob@test.com","password":"invalidPassword"}`).Code)
	assert.Equal(t, http.StatusCreated,
		serve(http.MethodPost, "/users/credentials", `{"email":"bob@test.com","password":"Password1!"}`).Code)

	assert.Equal(t, http.StatusBadRequest, serve(http.MethodPost, "/login", `{"email":"bob@test.com"}`).Code)
	assert.Equal(t, http.StatusUnauthorized,
		serve(http.MethodPost, "/login", `{"email":"bob@test.com","password":"Password9!"}`).Code)

	login := serve(http.MethodPost, "/login", `{"email":"bob@test.com","password":"Password1!"}`)
	require.Equal(t, http.StatusOK, login.Code)

	var envelope struct {
		Data auth.Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)

	assert.Equal(t, http.StatusNoContent, serve(http.MethodPut, "/users/credentials",
		`{"email":"bob@test.com","old_password":"Password1!","new_password":"Password2!"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(http.MethodPut, "/users/credentials",
		`{"email":"bob@test.com","old_password":"Password1!","new_password":"Password3!"}`).Code)
}

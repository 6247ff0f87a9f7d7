// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway

import (
	"context"

	"github.com/taibuivan/socialnet/internal/platform/upstream"
)

// UserServiceClient implements [UserDirectory] over HTTP.
type UserServiceClient struct {
	client *upstream.Client
}

// NewUserServiceClient wraps the users service client.
func NewUserServiceClient(client *upstream.Client) *UserServiceClient {
	return &UserServiceClient{client: client}
}

// CreateUser issues POST /users.
func (users *UserServiceClient) CreateUser(ctx context.Context, email, username string) (*upstream.Response, error) {
	return users.client.Post(ctx, "/users", map[string]string{
		FieldEmail:    email,
		FieldUsername: username,
	})
}

// CreateCredential issues POST /users/credentials.
func (users *UserServiceClient) CreateCredential(ctx context.Context, email, password string) (*upstream.Response, error) {
	return users.client.Post(ctx, "/users/credentials", map[string]string{
		FieldEmail:    email,
		FieldPassword: password,
	})
}

// DeleteUser issues DELETE /users/{email}.
func (users *UserServiceClient) DeleteUser(ctx context.Context, email string) (*upstream.Response, error) {
	return users.client.Delete(ctx, "/users/"+upstream.PathEscape(email))
}

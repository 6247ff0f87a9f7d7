// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package content owns posts and the friends feed.

The feed needs to know who is friends with whom, but friendships live in the
friendship service. This package keeps its own member and friendship tables,
fed by user-created and friendship-request-accepted events.
*/
package content

import (
	"context"
	"time"

	"github.com/taibuivan/socialnet/pkg/pagination"
)

// # Field Identifiers
const (
	FieldEmail   = "email"
	FieldAuthor  = "author"
	FieldContent = "content"
	FieldKeyword = "keyword"
)

// MaxPostLength bounds a post, in characters.
const MaxPostLength = 4096

// # Domain Entities

// Member is a known account as seen by this service.
type Member struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Post is a piece of content published by Author.
type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedFilter narrows a feed query.
type FeedFilter struct {
	// Keyword is already folded. Empty matches every post.
	Keyword string
	Page    pagination.Params
}

// # Repository Interface

// Repository defines the persistence operations of the content service.
type Repository interface {
	// SaveMember upserts a member. Redelivered events are harmless.
	SaveMember(ctx context.Context, member *Member) error
	// FindMember returns NotFound for an email never announced.
	FindMember(ctx context.Context, email string) (*Member, error)
	// SaveFriendship links two members. Saving an existing pair is a no-op
	// and an unknown member surfaces as NotFound.
	SaveFriendship(ctx context.Context, a, b string, at time.Time) error

	// CreatePost stores a post. searchText is the folded content.
	CreatePost(ctx context.Context, post *Post, searchText string) error
	// ListByAuthor returns a page of the author's posts, newest first, and
	// the total number of posts.
	ListByAuthor(ctx context.Context, author string, page pagination.Params) ([]*Post, int, error)
	// Feed returns a page of the posts of email's friends, newest first, and
	// the total number of matching posts.
	Feed(ctx context.Context, email string, filter FeedFilter) ([]*Post, int, error)
}

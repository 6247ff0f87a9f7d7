// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/validate"
	"github.com/taibuivan/socialnet/pkg/pagination"
	"github.com/taibuivan/socialnet/pkg/textnorm"
	"github.com/taibuivan/socialnet/pkg/uuid"
)

// # Service Layer

// Service implements publishing and reading posts.
type Service struct {
	repository Repository
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{
		repository: repository,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// # Read Models

// AddMember records an account announced by the users service.
func (service *Service) AddMember(ctx context.Context, member Member) error {
	if err := validateEmail(FieldEmail, member.Email); err != nil {
		return err
	}

	if err := service.repository.SaveMember(ctx, &member); err != nil {
		return fmt.Errorf("content_service_add_member_failed: %w", err)
	}
	return nil
}

// AddFriendship records an accepted friendship between a and b.
func (service *Service) AddFriendship(ctx context.Context, a, b string) error {
	validator := &validate.Validator{}
	validator.Email("sender", a).Email("receiver", b)
	if err := validator.Err(); err != nil {
		return err
	}
	if a == b {
		return apperr.ValidationError("a friendship needs two distinct users")
	}

	if err := service.repository.SaveFriendship(ctx, a, b, service.now()); err != nil {
		return fmt.Errorf("content_service_add_friendship_failed: %w", err)
	}
	return nil
}

// # Posts

/*
Publish stores a new post written by author.

Returns:
  - *Post: The stored post with its generated id
  - error: ValidationError, or NotFound for an unknown author
*/
func (service *Service) Publish(ctx context.Context, author, content string) (*Post, error) {
	validator := &validate.Validator{}
	validator.Email(FieldAuthor, author).
		Required(FieldContent, content).
		MaxLen(FieldContent, content, MaxPostLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	member, err := service.requireMember(ctx, author)
	if err != nil {
		return nil, err
	}

	post := &Post{
		ID:        uuid.New(),
		Author:    author,
		Username:  member,
		Content:   content,
		CreatedAt: service.now(),
	}
	if err := service.repository.CreatePost(ctx, post, textnorm.Fold(content)); err != nil {
		return nil, fmt.Errorf("content_service_publish_failed: %w", err)
	}
	return post, nil
}

// Posts returns one page of the posts written by author, newest first.
func (service *Service) Posts(ctx context.Context, author string, page pagination.Params) ([]*Post, int, error) {
	if err := validateEmail(FieldEmail, author); err != nil {
		return nil, 0, err
	}
	if _, err := service.requireMember(ctx, author); err != nil {
		return nil, 0, err
	}

	posts, total, err := service.repository.ListByAuthor(ctx, author, page)
	if err != nil {
		return nil, 0, fmt.Errorf("content_service_list_posts_failed: %w", err)
	}
	return posts, total, nil
}

/*
Feed returns one page of the posts written by email's friends.

Description: keyword matches regardless of case, accents and whitespace
runs. An empty keyword returns every post of the friends.
*/
func (service *Service) Feed(ctx context.Context, email, keyword string, page pagination.Params) ([]*Post, int, error) {
	if err := validateEmail(FieldEmail, email); err != nil {
		return nil, 0, err
	}
	if _, err := service.requireMember(ctx, email); err != nil {
		return nil, 0, err
	}

	filter := FeedFilter{Keyword: textnorm.Fold(keyword), Page: page}
	posts, total, err := service.repository.Feed(ctx, email, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("content_service_feed_failed: %w", err)
	}
	return posts, total, nil
}

// # Helpers

// requireMember returns the username of a known member.
func (service *Service) requireMember(ctx context.Context, email string) (string, error) {
	member, err := service.repository.FindMember(ctx, email)
	if err != nil {
		return "", fmt.Errorf("content_service_member_lookup_failed: %w", err)
	}
	return member.Username, nil
}

func validateEmail(field, value string) error {
	validator := &validate.Validator{}
	validator.Email(field, value)
	return validator.Err()
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package friendship owns friendship requests, friendships and direct messages.

Accounts live in the users service. This package keeps a local member table
fed by user-created events, so every relation it stores points at a known
account.
*/
package friendship

import (
	"context"
	"time"
)

// # Field Identifiers
const (
	FieldEmail    = "email"
	FieldFrom     = "from"
	FieldTo       = "to"
	FieldSender   = "sender"
	FieldReceiver = "receiver"
	FieldContent  = "content"
	FieldID       = "id"
	FieldUser1    = "user1"
	FieldUser2    = "user2"
)

// MaxMessageLength bounds a direct message, in characters.
const MaxMessageLength = 4096

// # Domain Entities

// Member is a known account as seen by this service.
type Member struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Request is a pending friendship request from From to To.
type Request struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	CreatedAt time.Time `json:"created_at"`
}

// Friendship links two members. UserA is always the smaller email.
type Friendship struct {
	UserA     string    `json:"user_a"`
	UserB     string    `json:"user_b"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFriendship orders the pair so that each friendship has a single form.
func NewFriendship(a, b string, at time.Time) Friendship {
	if b < a {
		a, b = b, a
	}
	return Friendship{UserA: a, UserB: b, CreatedAt: at}
}

// Message is a direct message between two friends.
type Message struct {
	ID       string    `json:"id"`
	Sender   string    `json:"sender"`
	Receiver string    `json:"receiver"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

// # Repository Interface

// Repository defines the persistence operations of the friendship service.
type Repository interface {
	// SaveMember upserts a member. Redelivered events are harmless.
	SaveMember(ctx context.Context, member *Member) error
	MemberExists(ctx context.Context, email string) (bool, error)

	// CreateRequest fails with Conflict when the same request is pending.
	CreateRequest(ctx context.Context, request *Request) error
	ListIncomingRequests(ctx context.Context, email string) ([]*Request, error)
	// AcceptRequest removes the request and stores the friendship atomically.
	// It fails with NotFound when no such request is pending.
	AcceptRequest(ctx context.Context, from, to string, at time.Time) (*Friendship, error)
	// DeleteRequest fails with NotFound when no such request is pending.
	DeleteRequest(ctx context.Context, from, to string) error

	AreFriends(ctx context.Context, a, b string) (bool, error)
	ListFriends(ctx context.Context, email string) ([]*Member, error)

	CreateMessage(ctx context.Context, message *Message) error
	FindMessage(ctx context.Context, id string) (*Message, error)
	// ListMessagesBetween returns the conversation of a and b, oldest first.
	ListMessagesBetween(ctx context.Context, a, b string) ([]*Message, error)
}

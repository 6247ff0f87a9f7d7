// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package friendship

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/database/schema"
	"github.com/taibuivan/socialnet/internal/platform/dberr"
)

const (
	resourceMember     = "User"
	resourceRequest    = "Friendship request"
	resourceFriendship = "Friendship"
	resourceMessage    = "Message"
)

// # Repository Implementation

// PostgresRepository implements [Repository] on the friendship schema.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation of [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Members

// SaveMember inserts the member or refreshes its username.
func (repository *PostgresRepository) SaveMember(ctx context.Context, member *Member) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s`,
		schema.FriendshipMember.Table,
		schema.FriendshipMember.Email, schema.FriendshipMember.Username,
		schema.FriendshipMember.Email,
		schema.FriendshipMember.Username, schema.FriendshipMember.Username,
	)
	if _, err := repository.pool.Exec(ctx, query, member.Email, member.Username); err != nil {
		return dberr.Wrap(err, resourceMember)
	}
	return nil
}

// MemberExists reports whether the email was announced by the users service.
func (repository *PostgresRepository) MemberExists(ctx context.Context, email string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.FriendshipMember.Table, schema.FriendshipMember.Email)

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, resourceMember)
	}
	return exists, nil
}

// # Requests

// CreateRequest inserts a pending request. Unknown members surface as NotFound.
func (repository *PostgresRepository) CreateRequest(ctx context.Context, request *Request) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)`,
		schema.FriendshipRequest.Table,
		schema.FriendshipRequest.Sender, schema.FriendshipRequest.Receiver, schema.FriendshipRequest.CreatedAt,
	)
	if _, err := repository.pool.Exec(ctx, query, request.From, request.To, request.CreatedAt); err != nil {
		return dberr.Wrap(err, resourceRequest)
	}
	return nil
}

// ListIncomingRequests returns the requests addressed to email, oldest first.
func (repository *PostgresRepository) ListIncomingRequests(ctx context.Context, email string) ([]*Request, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC`,
		schema.FriendshipRequest.Sender, schema.FriendshipRequest.Receiver, schema.FriendshipRequest.CreatedAt,
		schema.FriendshipRequest.Table,
		schema.FriendshipRequest.Receiver,
		schema.FriendshipRequest.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, email)
	if err != nil {
		return nil, dberr.Wrap(err, resourceRequest)
	}
	defer rows.Close()

	requests := make([]*Request, 0)
	for rows.Next() {
		request := &Request{}
		if err := rows.Scan(&request.From, &request.To, &request.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, resourceRequest)
		}
		requests = append(requests, request)
	}
	return requests, dberr.Wrap(rows.Err(), resourceRequest)
}

/*
AcceptRequest turns a pending request into a friendship.

Description: Both statements run in one transaction, so a request is never
lost without its friendship. Accepting when the pair is already friends (a
crossed request was accepted first) keeps the existing row.

Returns:
  - *Friendship: The friendship of the pair
  - error: apperr.NotFound when no request from "from" to "to" is pending
*/
func (repository *PostgresRepository) AcceptRequest(ctx context.Context, from, to string, at time.Time) (*Friendship, error) {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return nil, dberr.Wrap(err, resourceRequest)
	}
	defer transaction.Rollback(ctx)

	// Step 1: Consume the request
	if err := deleteRequest(ctx, transaction, from, to); err != nil {
		return nil, err
	}

	// Step 2: Persist the friendship
	friendship := NewFriendship(from, to, at)
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		schema.Friendship.Table,
		schema.Friendship.UserA, schema.Friendship.UserB, schema.Friendship.CreatedAt,
	)
	if _, err := transaction.Exec(ctx, insert, friendship.UserA, friendship.UserB, friendship.CreatedAt); err != nil {
		return nil, dberr.Wrap(err, resourceFriendship)
	}

	if err := transaction.Commit(ctx); err != nil {
		return nil, dberr.Wrap(err, resourceFriendship)
	}
	return &friendship, nil
}

// DeleteRequest removes a pending request.
func (repository *PostgresRepository) DeleteRequest(ctx context.Context, from, to string) error {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, resourceRequest)
	}
	defer transaction.Rollback(ctx)

	if err := deleteRequest(ctx, transaction, from, to); err != nil {
		return err
	}
	return dberr.Wrap(transaction.Commit(ctx), resourceRequest)
}

func deleteRequest(ctx context.Context, transaction pgx.Tx, from, to string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.FriendshipRequest.Table, schema.FriendshipRequest.Sender, schema.FriendshipRequest.Receiver)

	tag, err := transaction.Exec(ctx, query, from, to)
	if err != nil {
		return dberr.Wrap(err, resourceRequest)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceRequest)
	}
	return nil
}

// # Friendships

// AreFriends reports whether a friendship links a and b.
func (repository *PostgresRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	pair := NewFriendship(a, b, time.Time{})
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.Friendship.Table, schema.Friendship.UserA, schema.Friendship.UserB)

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, pair.UserA, pair.UserB).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, resourceFriendship)
	}
	return exists, nil
}

// ListFriends returns the members befriended with email, by email.
func (repository *PostgresRepository) ListFriends(ctx context.Context, email string) ([]*Member, error) {
	query := fmt.Sprintf(`
		SELECT m.%s, m.%s
		FROM %s f
		JOIN %s m ON m.%s = CASE WHEN f.%s = $1 THEN f.%s ELSE f.%s END
		WHERE f.%s = $1 OR f.%s = $1
		ORDER BY m.%s`,
		schema.FriendshipMember.Email, schema.FriendshipMember.Username,
		schema.Friendship.Table,
		schema.FriendshipMember.Table, schema.FriendshipMember.Email,
		schema.Friendship.UserA, schema.Friendship.UserB, schema.Friendship.UserA,
		schema.Friendship.UserA, schema.Friendship.UserB,
		schema.FriendshipMember.Email,
	)

	rows, err := repository.pool.Query(ctx, query, email)
	if err != nil {
		return nil, dberr.Wrap(err, resourceFriendship)
	}
	defer rows.Close()

	friends := make([]*Member, 0)
	for rows.Next() {
		member := &Member{}
		if err := rows.Scan(&member.Email, &member.Username); err != nil {
			return nil, dberr.Wrap(err, resourceFriendship)
		}
		friends = append(friends, member)
	}
	return friends, dberr.Wrap(rows.Err(), resourceFriendship)
}

// # Messages

// CreateMessage stores a message.
func (repository *PostgresRepository) CreateMessage(ctx context.Context, message *Message) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)`,
		schema.FriendshipMessage.Table,
		schema.FriendshipMessage.ID, schema.FriendshipMessage.Sender, schema.FriendshipMessage.Receiver,
		schema.FriendshipMessage.Content, schema.FriendshipMessage.SentAt,
	)
	_, err := repository.pool.Exec(ctx, query,
		message.ID,
		message.Sender,
		message.Receiver,
		message.Content,
		message.SentAt,
	)
	if err != nil {
		return dberr.Wrap(err, resourceMessage)
	}
	return nil
}

// FindMessage retrieves one message by id.
func (repository *PostgresRepository) FindMessage(ctx context.Context, id string) (*Message, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.FriendshipMessage.ID, schema.FriendshipMessage.Sender, schema.FriendshipMessage.Receiver,
		schema.FriendshipMessage.Content, schema.FriendshipMessage.SentAt,
		schema.FriendshipMessage.Table,
		schema.FriendshipMessage.ID,
	)

	message := &Message{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&message.ID,
		&message.Sender,
		&message.Receiver,
		&message.Content,
		&message.SentAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, resourceMessage)
	}
	return message, nil
}

// ListMessagesBetween returns both directions of a conversation, oldest first.
func (repository *PostgresRepository) ListMessagesBetween(ctx context.Context, a, b string) ([]*Message, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE (%s = $1 AND %s = $2) OR (%s = $2 AND %s = $1)
		ORDER BY %s ASC, %s ASC`,
		schema.FriendshipMessage.ID, schema.FriendshipMessage.Sender, schema.FriendshipMessage.Receiver,
		schema.FriendshipMessage.Content, schema.FriendshipMessage.SentAt,
		schema.FriendshipMessage.Table,
		schema.FriendshipMessage.Sender, schema.FriendshipMessage.Receiver,
		schema.FriendshipMessage.Sender, schema.FriendshipMessage.Receiver,
		schema.FriendshipMessage.SentAt, schema.FriendshipMessage.ID,
	)

	rows, err := repository.pool.Query(ctx, query, a, b)
	if err != nil {
		return nil, dberr.Wrap(err, resourceMessage)
	}
	defer rows.Close()

	messages := make([]*Message, 0)
	for rows.Next() {
		message := &Message{}
		if err := rows.Scan(&message.ID, &message.Sender, &message.Receiver, &message.Content, &message.SentAt); err != nil {
			return nil, dberr.Wrap(err, resourceMessage)
		}
		messages = append(messages, message)
	}
	return messages, dberr.Wrap(rows.Err(), resourceMessage)
}

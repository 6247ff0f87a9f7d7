// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/socialnet/internal/platform/database/schema"
	"github.com/taibuivan/socialnet/internal/platform/dberr"
	"github.com/taibuivan/socialnet/pkg/pagination"
)

const (
	resourceMember     = "User"
	resourceFriendship = "Friendship"
	resourcePost       = "Post"
)

// likeEscaper neutralizes LIKE wildcards inside a keyword.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// # Repository Implementation

// PostgresRepository implements [Repository] on the content schema.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation of [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Read Models

// SaveMember inserts the member or refreshes its username.
func (repository *PostgresRepository) SaveMember(ctx context.Context, member *Member) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s`,
		schema.ContentMember.Table,
		schema.ContentMember.Email, schema.ContentMember.Username,
		schema.ContentMember.Email,
		schema.ContentMember.Username, schema.ContentMember.Username,
	)
	if _, err := repository.pool.Exec(ctx, query, member.Email, member.Username); err != nil {
		return dberr.Wrap(err, resourceMember)
	}
	return nil
}

// FindMember fetches a member announced by the users service.
func (repository *PostgresRepository) FindMember(ctx context.Context, email string) (*Member, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`,
		schema.ContentMember.Email, schema.ContentMember.Username,
		schema.ContentMember.Table, schema.ContentMember.Email)

	member := &Member{}
	if err := repository.pool.QueryRow(ctx, query, email).Scan(&member.Email, &member.Username); err != nil {
		return nil, dberr.Wrap(err, resourceMember)
	}
	return member, nil
}

// SaveFriendship stores the pair smaller email first.
func (repository *PostgresRepository) SaveFriendship(ctx context.Context, a, b string, at time.Time) error {
	if b < a {
		a, b = b, a
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		schema.ContentFriendship.Table,
		schema.ContentFriendship.UserA, schema.ContentFriendship.UserB, schema.ContentFriendship.CreatedAt,
	)
	if _, err := repository.pool.Exec(ctx, query, a, b, at); err != nil {
		return dberr.Wrap(err, resourceFriendship)
	}
	return nil
}

// # Posts

// CreatePost inserts a post with its folded search text.
func (repository *PostgresRepository) CreatePost(ctx context.Context, post *Post, searchText string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)`,
		schema.ContentPost.Table,
		schema.ContentPost.ID, schema.ContentPost.Author, schema.ContentPost.Content,
		schema.ContentPost.SearchText, schema.ContentPost.CreatedAt,
	)
	_, err := repository.pool.Exec(ctx, query,
		post.ID,
		post.Author,
		post.Content,
		searchText,
		post.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, resourcePost)
	}
	return nil
}

// ListByAuthor returns one page of the author's posts.
func (repository *PostgresRepository) ListByAuthor(ctx context.Context, author string, page pagination.Params) ([]*Post, int, error) {
	where := fmt.Sprintf(`p.%s = $1`, schema.ContentPost.Author)
	return repository.page(ctx, where, []any{author}, page)
}

/*
Feed returns one page of the posts written by email's friends.

Description: The friend set is derived from the local friendship table. When
a keyword is set, it is matched as a substring of the folded search text.
*/
func (repository *PostgresRepository) Feed(ctx context.Context, email string, filter FeedFilter) ([]*Post, int, error) {
	where := fmt.Sprintf(`p.%s IN (
			SELECT CASE WHEN f.%s = $1 THEN f.%s ELSE f.%s END
			FROM %s f
			WHERE f.%s = $1 OR f.%s = $1
		)`,
		schema.ContentPost.Author,
		schema.ContentFriendship.UserA, schema.ContentFriendship.UserB, schema.ContentFriendship.UserA,
		schema.ContentFriendship.Table,
		schema.ContentFriendship.UserA, schema.ContentFriendship.UserB,
	)
	args := []any{email}

	if filter.Keyword != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Keyword)+"%")
		where += fmt.Sprintf(` AND p.%s LIKE $%d ESCAPE '\'`, schema.ContentPost.SearchText, len(args))
	}

	return repository.page(ctx, where, args, filter.Page)
}

// page runs the count and the page query sharing one WHERE clause.
func (repository *PostgresRepository) page(ctx context.Context, where string, args []any, page pagination.Params) ([]*Post, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s p WHERE %s`, schema.ContentPost.Table, where)

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourcePost)
	}

	limitArg := len(args) + 1
	query := fmt.Sprintf(`
		SELECT p.%s, p.%s, m.%s, p.%s, p.%s
		FROM %s p
		JOIN %s m ON m.%s = p.%s
		WHERE %s
		ORDER BY p.%s DESC, p.%s DESC
		LIMIT $%d OFFSET $%d`,
		schema.ContentPost.ID, schema.ContentPost.Author, schema.ContentMember.Username,
		schema.ContentPost.Content, schema.ContentPost.CreatedAt,
		schema.ContentPost.Table,
		schema.ContentMember.Table, schema.ContentMember.Email, schema.ContentPost.Author,
		where,
		schema.ContentPost.CreatedAt, schema.ContentPost.ID,
		limitArg, limitArg+1,
	)

	rows, err := repository.pool.Query(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourcePost)
	}

	defer rows.Close()

	posts := make([]*Post, 0, page.Limit)
	for rows.Next() {
		post := &Post{}
		if err := rows.Scan(&post.ID, &post.Author, &post.Username, &post.Content, &post.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, resourcePost)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourcePost)
	}
	return posts, total, nil
}

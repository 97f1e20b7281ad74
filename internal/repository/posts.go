package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/advoffer/internal/domain"
)

// PostRepository archives accepted posts in Postgres.
type PostRepository struct {
	db *pgxpool.Pool
}

func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

const insertPost = `
INSERT INTO posts (id, user_id, chat_id, text, description, photo_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *PostRepository) Save(ctx context.Context, post *domain.Post) error {
	_, err := r.db.Exec(ctx, insertPost,
		post.ID,
		post.UserID,
		post.ChatID,
		post.Text,
		post.Description,
		post.PhotoCount,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

const selectRecentPosts = `
SELECT id, user_id, chat_id, text, description, photo_count, created_at
FROM posts
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`

// ListByUser returns the user's most recent posts, newest first.
func (r *PostRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Post, error) {
	rows, err := r.db.Query(ctx, selectRecentPosts, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Post, error) {
		var p domain.Post
		err := row.Scan(&p.ID, &p.UserID, &p.ChatID, &p.Text, &p.Description, &p.PhotoCount, &p.CreatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	return posts, nil
}

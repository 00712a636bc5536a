package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wordstackio/backend/internal/domain/model"
)

var ErrPostNotFound = errors.New("community post not found")

type CommunityPostRepo struct {
	pool *pgxpool.Pool
}

func NewCommunityPostRepo(pool *pgxpool.Pool) *CommunityPostRepo {
	return &CommunityPostRepo{pool: pool}
}

func (r *CommunityPostRepo) Create(ctx context.Context, post model.CommunityPost) (model.CommunityPost, error) {
	if post.AuthorID <= 0 || strings.TrimSpace(post.Body) == "" {
		return model.CommunityPost{}, fmt.Errorf("invalid community post payload")
	}
	if r.pool == nil {
		return model.CommunityPost{}, fmt.Errorf("postgres pool is nil")
	}

	var attachment []byte
	if post.Attachment != nil {
		data, err := json.Marshal(post.Attachment)
		if err != nil {
			return model.CommunityPost{}, fmt.Errorf("marshal attachment: %w", err)
		}
		attachment = data
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO community_posts (author_id, body, likes_count, attachment, created_at, updated_at)
VALUES ($1, $2, 0, $3, NOW(), NOW())
RETURNING id, created_at, updated_at
`, post.AuthorID, post.Body, attachment).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return model.CommunityPost{}, fmt.Errorf("insert community post: %w", err)
	}

	return post, nil
}

func (r *CommunityPostRepo) FindByID(ctx context.Context, postID int64) (model.CommunityPost, error) {
	if postID <= 0 {
		return model.CommunityPost{}, fmt.Errorf("invalid post id")
	}
	if r.pool == nil {
		return model.CommunityPost{}, ErrPostNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT id, author_id, body, likes_count, attachment, created_at, updated_at
FROM community_posts
WHERE id = $1
LIMIT 1
`, postID)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CommunityPost{}, ErrPostNotFound
		}
		return model.CommunityPost{}, fmt.Errorf("get community post: %w", err)
	}

	return post, nil
}

func (r *CommunityPostRepo) ListRecent(ctx context.Context, limit int) ([]model.CommunityPost, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	if r.pool == nil {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, author_id, body, likes_count, attachment, created_at, updated_at
FROM community_posts
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list community posts: %w", err)
	}
	defer rows.Close()

	var out []model.CommunityPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan community post row: %w", err)
		}
		out = append(out, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate community post rows: %w", err)
	}

	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (model.CommunityPost, error) {
	var (
		post       model.CommunityPost
		attachment []byte
	)
	if err := row.Scan(
		&post.ID, &post.AuthorID, &post.Body, &post.LikesCount,
		&attachment, &post.CreatedAt, &post.UpdatedAt,
	); err != nil {
		return model.CommunityPost{}, err
	}

	if len(attachment) > 0 {
		var a model.Attachment
		if err := json.Unmarshal(attachment, &a); err != nil {
			return model.CommunityPost{}, fmt.Errorf("unmarshal attachment: %w", err)
		}
		post.Attachment = &a
	}

	return post, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wordstackio/backend/internal/domain/model"
)

var ErrPoemNotFound = errors.New("poem not found")

type PoemRepo struct {
	pool *pgxpool.Pool
}

func NewPoemRepo(pool *pgxpool.Pool) *PoemRepo {
	return &PoemRepo{pool: pool}
}

func (r *PoemRepo) Create(ctx context.Context, poem model.Poem) (model.Poem, error) {
	if poem.AuthorID <= 0 || strings.TrimSpace(poem.Body) == "" {
		return model.Poem{}, fmt.Errorf("invalid poem payload")
	}
	if r.pool == nil {
		return model.Poem{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO poems (author_id, title, body, ink_received, claps_count, created_at, updated_at)
VALUES ($1, $2, $3, 0, 0, NOW(), NOW())
RETURNING id, created_at, updated_at
`, poem.AuthorID, poem.Title, poem.Body).Scan(&poem.ID, &poem.CreatedAt, &poem.UpdatedAt)
	if err != nil {
		return model.Poem{}, fmt.Errorf("insert poem: %w", err)
	}

	return poem, nil
}

func (r *PoemRepo) FindByID(ctx context.Context, poemID int64) (model.Poem, error) {
	if poemID <= 0 {
		return model.Poem{}, fmt.Errorf("invalid poem id")
	}
	if r.pool == nil {
		return model.Poem{}, ErrPoemNotFound
	}

	var poem model.Poem
	err := r.pool.QueryRow(ctx, `
SELECT id, author_id, title, body, ink_received, claps_count, created_at, updated_at
FROM poems
WHERE id = $1
LIMIT 1
`, poemID).Scan(
		&poem.ID, &poem.AuthorID, &poem.Title, &poem.Body,
		&poem.InkReceived, &poem.ClapsCount, &poem.CreatedAt, &poem.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Poem{}, ErrPoemNotFound
		}
		return model.Poem{}, fmt.Errorf("get poem: %w", err)
	}

	return poem, nil
}

// FindForSupport reads the poem inside the spend transaction so the author
// check and the counter bump see the same row.
func (r *PoemRepo) FindForSupport(ctx context.Context, tx pgx.Tx, poemID int64) (model.Poem, error) {
	if poemID <= 0 {
		return model.Poem{}, fmt.Errorf("invalid poem id")
	}
	if tx == nil {
		return model.Poem{}, fmt.Errorf("transaction is required")
	}

	var poem model.Poem
	err := tx.QueryRow(ctx, `
SELECT id, author_id, title, body, ink_received, claps_count, created_at, updated_at
FROM poems
WHERE id = $1
LIMIT 1
`, poemID).Scan(
		&poem.ID, &poem.AuthorID, &poem.Title, &poem.Body,
		&poem.InkReceived, &poem.ClapsCount, &poem.CreatedAt, &poem.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Poem{}, ErrPoemNotFound
		}
		return model.Poem{}, fmt.Errorf("get poem for support: %w", err)
	}

	return poem, nil
}

func (r *PoemRepo) AddSupport(ctx context.Context, tx pgx.Tx, poemID int64, amount int) error {
	if poemID <= 0 || amount <= 0 {
		return fmt.Errorf("invalid poem support payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	tag, err := tx.Exec(ctx, `
UPDATE poems
SET
	ink_received = ink_received + $2,
	claps_count = claps_count + 1,
	updated_at = NOW()
WHERE id = $1
`, poemID, amount)
	if err != nil {
		return fmt.Errorf("add poem support: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPoemNotFound
	}

	return nil
}

func (r *PoemRepo) ListRecent(ctx context.Context, limit int) ([]model.Poem, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	if r.pool == nil {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, author_id, title, body, ink_received, claps_count, created_at, updated_at
FROM poems
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list poems: %w", err)
	}
	defer rows.Close()

	return scanPoems(rows)
}

func (r *PoemRepo) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]model.Poem, error) {
	if authorID <= 0 {
		return nil, fmt.Errorf("invalid author id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if r.pool == nil {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, author_id, title, body, ink_received, claps_count, created_at, updated_at
FROM poems
WHERE author_id = $1
ORDER BY created_at DESC
LIMIT $2
`, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list poems by author: %w", err)
	}
	defer rows.Close()

	return scanPoems(rows)
}

func scanPoems(rows pgx.Rows) ([]model.Poem, error) {
	var out []model.Poem
	for rows.Next() {
		var p model.Poem
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.Title, &p.Body,
			&p.InkReceived, &p.ClapsCount, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan poem row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate poem rows: %w", err)
	}
	return out, nil
}

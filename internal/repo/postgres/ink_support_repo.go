package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wordstackio/backend/internal/domain/model"
)

type InkSupportRepo struct {
	pool *pgxpool.Pool
}

func NewInkSupportRepo(pool *pgxpool.Pool) *InkSupportRepo {
	return &InkSupportRepo{pool: pool}
}

// Append writes one immutable spend record. Exactly one row per authorized
// spend, for the total amount, regardless of how free and paid sources were
// combined.
func (r *InkSupportRepo) Append(ctx context.Context, tx pgx.Tx, support model.InkSupport) (int64, error) {
	if support.FromUserID <= 0 || support.ToPoetID <= 0 || support.PoemID <= 0 || support.Amount <= 0 {
		return 0, fmt.Errorf("invalid ink support payload")
	}
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}

	var id int64
	err := tx.QueryRow(ctx, `
INSERT INTO ink_supports (from_user_id, to_poet_id, poem_id, amount, created_at)
VALUES ($1, $2, $3, $4, NOW())
RETURNING id
`, support.FromUserID, support.ToPoetID, support.PoemID, support.Amount).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("append ink support: %w", err)
	}

	return id, nil
}

func (r *InkSupportRepo) ListForPoem(ctx context.Context, poemID int64, limit int) ([]model.InkSupport, error) {
	if poemID <= 0 {
		return nil, fmt.Errorf("invalid ink support lookup payload")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if r.pool == nil {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, from_user_id, to_poet_id, poem_id, amount, created_at
FROM ink_supports
WHERE poem_id = $1
ORDER BY created_at DESC
LIMIT $2
`, poemID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ink supports: %w", err)
	}
	defer rows.Close()

	return scanSupports(rows)
}

func (r *InkSupportRepo) TotalForPoet(ctx context.Context, poetID int64) (int, error) {
	if poetID <= 0 {
		return 0, fmt.Errorf("invalid poet id")
	}
	if r.pool == nil {
		return 0, nil
	}

	var total int
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(amount), 0)
FROM ink_supports
WHERE to_poet_id = $1
`, poetID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum poet supports: %w", err)
	}

	return total, nil
}

func scanSupports(rows pgx.Rows) ([]model.InkSupport, error) {
	var out []model.InkSupport
	for rows.Next() {
		var s model.InkSupport
		if err := rows.Scan(&s.ID, &s.FromUserID, &s.ToPoetID, &s.PoemID, &s.Amount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ink support row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ink support rows: %w", err)
	}
	return out, nil
}

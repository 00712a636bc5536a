package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wordstackio/backend/internal/domain/model"
)

type InkUsageRepo struct {
	pool *pgxpool.Pool
}

func NewInkUsageRepo(pool *pgxpool.Pool) *InkUsageRepo {
	return &InkUsageRepo{pool: pool}
}

// Lock returns the user's usage row under a row lock, creating it lazily on
// first access with zeroed counters and both reset clocks set to now. Must be
// called inside the spend transaction so two concurrent spends cannot both
// observe pre-consumption counters.
func (r *InkUsageRepo) Lock(ctx context.Context, tx pgx.Tx, userID int64, now time.Time) (model.InkUsage, error) {
	if userID <= 0 {
		return model.InkUsage{}, fmt.Errorf("invalid ink usage lookup payload")
	}
	if tx == nil {
		return model.InkUsage{}, fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO ink_usage (
	user_id,
	daily_used,
	monthly_used,
	last_daily_reset,
	last_monthly_reset,
	updated_at
) VALUES ($1, 0, 0, $2, $2, $2)
ON CONFLICT (user_id) DO NOTHING
`, userID, now.UTC()); err != nil {
		return model.InkUsage{}, fmt.Errorf("ensure ink usage row: %w", err)
	}

	var usage model.InkUsage
	err := tx.QueryRow(ctx, `
SELECT user_id, daily_used, monthly_used, last_daily_reset, last_monthly_reset, updated_at
FROM ink_usage
WHERE user_id = $1
FOR UPDATE
`, userID).Scan(
		&usage.UserID,
		&usage.DailyUsed,
		&usage.MonthlyUsed,
		&usage.LastDailyReset,
		&usage.LastMonthlyReset,
		&usage.UpdatedAt,
	)
	if err != nil {
		return model.InkUsage{}, fmt.Errorf("lock ink usage row: %w", err)
	}

	return usage, nil
}

// Find is a plain read for snapshot endpoints. A missing row reports ok=false
// so the caller can present pristine counters without writing anything.
func (r *InkUsageRepo) Find(ctx context.Context, userID int64) (model.InkUsage, bool, error) {
	if userID <= 0 {
		return model.InkUsage{}, false, fmt.Errorf("invalid ink usage lookup payload")
	}
	if r.pool == nil {
		return model.InkUsage{}, false, nil
	}

	var usage model.InkUsage
	err := r.pool.QueryRow(ctx, `
SELECT user_id, daily_used, monthly_used, last_daily_reset, last_monthly_reset, updated_at
FROM ink_usage
WHERE user_id = $1
LIMIT 1
`, userID).Scan(
		&usage.UserID,
		&usage.DailyUsed,
		&usage.MonthlyUsed,
		&usage.LastDailyReset,
		&usage.LastMonthlyReset,
		&usage.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.InkUsage{}, false, nil
		}
		return model.InkUsage{}, false, fmt.Errorf("get ink usage: %w", err)
	}

	return usage, true, nil
}

func (r *InkUsageRepo) Save(ctx context.Context, tx pgx.Tx, usage model.InkUsage) error {
	if usage.UserID <= 0 {
		return fmt.Errorf("invalid ink usage payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	tag, err := tx.Exec(ctx, `
UPDATE ink_usage
SET
	daily_used = $2,
	monthly_used = $3,
	last_daily_reset = $4,
	last_monthly_reset = $5,
	updated_at = NOW()
WHERE user_id = $1
`, usage.UserID, usage.DailyUsed, usage.MonthlyUsed,
		usage.LastDailyReset.UTC(), usage.LastMonthlyReset.UTC())
	if err != nil {
		return fmt.Errorf("save ink usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ink usage row vanished for user %d", usage.UserID)
	}

	return nil
}

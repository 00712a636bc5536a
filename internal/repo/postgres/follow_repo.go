package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type FollowRepo struct {
	pool *pgxpool.Pool
}

func NewFollowRepo(pool *pgxpool.Pool) *FollowRepo {
	return &FollowRepo{pool: pool}
}

func (r *FollowRepo) Follow(ctx context.Context, followerID, poetID int64) error {
	if followerID <= 0 || poetID <= 0 || followerID == poetID {
		return fmt.Errorf("invalid follow payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO follows (follower_id, poet_id, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (follower_id, poet_id) DO NOTHING
`, followerID, poetID); err != nil {
		return fmt.Errorf("insert follow: %w", err)
	}

	return nil
}

func (r *FollowRepo) Unfollow(ctx context.Context, followerID, poetID int64) error {
	if followerID <= 0 || poetID <= 0 {
		return fmt.Errorf("invalid unfollow payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
DELETE FROM follows
WHERE follower_id = $1 AND poet_id = $2
`, followerID, poetID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}

	return nil
}

// Set returns the poet ids the user follows, as a membership set for feed
// filtering.
func (r *FollowRepo) Set(ctx context.Context, followerID int64) (map[int64]struct{}, error) {
	if followerID <= 0 {
		return nil, fmt.Errorf("invalid follower id")
	}
	if r.pool == nil {
		return map[int64]struct{}{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT poet_id
FROM follows
WHERE follower_id = $1
`, followerID)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	defer rows.Close()

	follows := make(map[int64]struct{})
	for rows.Next() {
		var poetID int64
		if err := rows.Scan(&poetID); err != nil {
			return nil, fmt.Errorf("scan follow row: %w", err)
		}
		follows[poetID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate follow rows: %w", err)
	}

	return follows, nil
}

func (r *FollowRepo) FollowerCount(ctx context.Context, poetID int64) (int, error) {
	if poetID <= 0 {
		return 0, fmt.Errorf("invalid poet id")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM follows
WHERE poet_id = $1
`, poetID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}

	return count, nil
}

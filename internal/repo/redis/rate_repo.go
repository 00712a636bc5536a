package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateRepo maintains fixed-size counting windows. A window is a plain key
// holding a counter; the TTL set on first increment is the window length.
type RateRepo struct {
	client *goredis.Client
}

func NewRateRepo(client *goredis.Client) *RateRepo {
	return &RateRepo{client: client}
}

// IncrementWindow bumps the counter under key and returns the new count plus
// the time left in the window. INCR and EXPIRE go through one pipeline; the
// NX expire keeps a racing first-increment from extending the window.
func (r *RateRepo) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if r.client == nil {
		return 0, 0, errors.New("redis client is nil")
	}
	if key == "" || window <= 0 {
		return 0, 0, fmt.Errorf("invalid rate window args: key=%q window=%s", key, window)
	}

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("increment rate window %q: %w", key, err)
	}

	return incr.Val(), normalizeTTL(ttl.Val()), nil
}

// WindowState reads the counter without touching it. A missing key reads as
// zero, not as an error.
func (r *RateRepo) WindowState(ctx context.Context, key string) (int64, time.Duration, error) {
	if r.client == nil {
		return 0, 0, errors.New("redis client is nil")
	}
	if key == "" {
		return 0, 0, errors.New("rate key is required")
	}

	count, err := r.client.Get(ctx, key).Int64()
	switch {
	case errors.Is(err, goredis.Nil):
		return 0, 0, nil
	case err != nil:
		return 0, 0, fmt.Errorf("read rate window %q: %w", key, err)
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("read rate window ttl %q: %w", key, err)
	}
	return count, normalizeTTL(ttl), nil
}

func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl < 0 {
		return 0
	}
	return ttl
}

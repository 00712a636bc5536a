package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/wordstackio/backend/internal/repo/redis"
)

func newLimiterForTest(t *testing.T, perMinute, per10Sec int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return NewLimiter(redrepo.NewRateRepo(client), perMinute, per10Sec), mr
}

func mustAllow(t *testing.T, l *Limiter, userID int64) {
	t.Helper()
	retryAfter, allowed, err := l.AllowSupport(context.Background(), userID)
	if err != nil {
		t.Fatalf("allow support: %v", err)
	}
	if !allowed || retryAfter != 0 {
		t.Fatalf("expected allow, got allowed=%v retry_after=%d", allowed, retryAfter)
	}
}

func mustBlock(t *testing.T, l *Limiter, userID int64) int64 {
	t.Helper()
	retryAfter, allowed, err := l.AllowSupport(context.Background(), userID)
	if err != nil {
		t.Fatalf("allow support: %v", err)
	}
	if allowed {
		t.Fatalf("expected block")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}
	return retryAfter
}

func TestBurstWindowBlocksAndDrains(t *testing.T) {
	limiter, mr := newLimiterForTest(t, 100, 2)

	mustAllow(t, limiter, 42)
	mustAllow(t, limiter, 42)
	mustBlock(t, limiter, 42)

	// Peeking must agree with the refusal without consuming an attempt.
	retryAfter, err := limiter.RetryAfterSupport(context.Background(), 42)
	if err != nil {
		t.Fatalf("retry after: %v", err)
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after from peek, got %d", retryAfter)
	}

	mr.FastForward(11 * time.Second)
	mustAllow(t, limiter, 42)
}

func TestMinuteWindowBlocks(t *testing.T) {
	limiter, _ := newLimiterForTest(t, 3, 100)

	for i := 0; i < 3; i++ {
		mustAllow(t, limiter, 7)
	}
	if got := mustBlock(t, limiter, 7); got > 60 {
		t.Fatalf("retry_after exceeds the window: %d", got)
	}
}

func TestWindowsAreScopedPerUser(t *testing.T) {
	limiter, _ := newLimiterForTest(t, 100, 1)

	mustAllow(t, limiter, 1)
	mustBlock(t, limiter, 1)
	mustAllow(t, limiter, 2)
}

func TestZeroCapDisablesWindow(t *testing.T) {
	limiter, _ := newLimiterForTest(t, 0, 0)

	for i := 0; i < 50; i++ {
		mustAllow(t, limiter, 9)
	}
}

package rate

import (
	"context"
	"errors"
	"strconv"
	"time"
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// window is one counting bucket: supports per span per user, at most cap.
type window struct {
	suffix string
	span   time.Duration
	cap    int
}

// Limiter throttles support submissions per user across two windows, a
// short burst window and a per-minute one. A cap of zero disables its
// window.
type Limiter struct {
	store   WindowStore
	windows []window
}

func NewLimiter(store WindowStore, perMinute, per10Sec int) *Limiter {
	l := &Limiter{store: store}
	if perMinute > 0 {
		l.windows = append(l.windows, window{suffix: "min", span: time.Minute, cap: perMinute})
	}
	if per10Sec > 0 {
		l.windows = append(l.windows, window{suffix: "10s", span: 10 * time.Second, cap: per10Sec})
	}
	return l
}

// AllowSupport counts this attempt against every window. When any window
// overflows it returns allowed=false and the seconds until the most distant
// overflowing window drains. Attempts count even when refused, so hammering
// a closed window keeps it closed.
func (l *Limiter) AllowSupport(ctx context.Context, userID int64) (int64, bool, error) {
	if userID <= 0 {
		return 0, false, errors.New("invalid user id")
	}
	if l.store == nil {
		return 0, false, errors.New("rate limiter store is nil")
	}

	var retryAfterSec int64
	for _, win := range l.windows {
		count, ttl, err := l.store.IncrementWindow(ctx, l.key(win, userID), win.span)
		if err != nil {
			return 0, false, err
		}
		if count > int64(win.cap) {
			retryAfterSec = maxInt64(retryAfterSec, ceilSeconds(ttl))
		}
	}

	return retryAfterSec, retryAfterSec == 0, nil
}

// RetryAfterSupport peeks at the windows without consuming an attempt.
func (l *Limiter) RetryAfterSupport(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, errors.New("invalid user id")
	}
	if l.store == nil {
		return 0, errors.New("rate limiter store is nil")
	}

	var retryAfterSec int64
	for _, win := range l.windows {
		count, ttl, err := l.store.WindowState(ctx, l.key(win, userID))
		if err != nil {
			return 0, err
		}
		if count >= int64(win.cap) {
			retryAfterSec = maxInt64(retryAfterSec, ceilSeconds(ttl))
		}
	}
	return retryAfterSec, nil
}

func (l *Limiter) key(win window, userID int64) string {
	return "rate:support:" + win.suffix + ":" + strconv.FormatInt(userID, 10)
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec == 0 {
		sec = 1
	}
	return sec
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

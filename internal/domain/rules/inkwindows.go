package rules

import (
	"fmt"
	"time"

	"github.com/wordstackio/backend/internal/domain/model"
)

const (
	DefaultDailyFreeCap   = 5
	DefaultMonthlyFreeCap = 25
)

// Caps bound the free-Ink counters. Zero values fall back to the defaults.
type Caps struct {
	Daily   int
	Monthly int
}

func (c Caps) normalized() Caps {
	if c.Daily <= 0 {
		c.Daily = DefaultDailyFreeCap
	}
	if c.Monthly <= 0 {
		c.Monthly = DefaultMonthlyFreeCap
	}
	return c
}

// DailyElapsed reports whether now falls on a different calendar day than
// lastReset. Day boundaries, not rolling 24h windows.
func DailyElapsed(lastReset, now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	a := lastReset.In(loc)
	b := now.In(loc)
	return a.Year() != b.Year() || a.YearDay() != b.YearDay()
}

// MonthlyElapsed reports whether now falls in a different calendar month (or
// year) than lastReset.
func MonthlyElapsed(lastReset, now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	a := lastReset.In(loc)
	b := now.In(loc)
	return a.Year() != b.Year() || a.Month() != b.Month()
}

// Reconcile applies any due resets to the usage record. The daily and monthly
// checks run independently, so a long-dormant user gets exactly one reset per
// elapsed boundary. Calling it twice with the same now is a no-op the second
// time. Returns true if anything changed.
func Reconcile(u *model.InkUsage, now time.Time, loc *time.Location) bool {
	changed := false
	if DailyElapsed(u.LastDailyReset, now, loc) {
		u.DailyUsed = 0
		u.LastDailyReset = now
		changed = true
	}
	if MonthlyElapsed(u.LastMonthlyReset, now, loc) {
		u.MonthlyUsed = 0
		u.LastMonthlyReset = now
		changed = true
	}
	return changed
}

// ConsumeFree grants min(amount, daily headroom, monthly headroom), floored
// at zero, and advances both counters by the grant. A zero grant is a valid
// outcome, not an error; the caller decides what it means.
func ConsumeFree(u *model.InkUsage, amount int, caps Caps) int {
	caps = caps.normalized()

	grant := amount
	if grant < 0 {
		grant = 0
	}
	if headroom := caps.Daily - u.DailyUsed; grant > headroom {
		grant = headroom
	}
	if headroom := caps.Monthly - u.MonthlyUsed; grant > headroom {
		grant = headroom
	}
	if grant < 0 {
		grant = 0
	}

	u.DailyUsed += grant
	u.MonthlyUsed += grant
	return grant
}

// NextDailyReset returns the upcoming local-midnight boundary, in UTC.
func NextDailyReset(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return next.UTC()
}

// NextMonthlyReset returns the first instant of the next calendar month, in
// UTC.
func NextMonthlyReset(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month()+1, 1, 0, 0, 0, 0, loc)
	return next.UTC()
}

// UntilReset renders the remaining wait as a compact human string, e.g.
// "4h 12m". Sub-minute waits round up to "1m".
func UntilReset(now, resetAt time.Time) string {
	d := resetAt.Sub(now)
	if d <= 0 {
		return "0m"
	}

	d = d.Round(time.Minute)
	if d < time.Minute {
		return "1m"
	}

	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	if hours >= 24 {
		days := hours / 24
		hours %= 24
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

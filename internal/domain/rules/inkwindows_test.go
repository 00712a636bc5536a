package rules

import (
	"testing"
	"time"

	"github.com/wordstackio/backend/internal/domain/model"
)

func TestDailyElapsedUsesCalendarDays(t *testing.T) {
	last := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	now := time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)
	if !DailyElapsed(last, now, nil) {
		t.Fatalf("expected daily boundary at midnight to count as elapsed")
	}

	sameDay := time.Date(2026, 3, 10, 0, 5, 0, 0, time.UTC)
	later := time.Date(2026, 3, 10, 23, 55, 0, 0, time.UTC)
	if DailyElapsed(sameDay, later, nil) {
		t.Fatalf("same calendar day must not count as elapsed")
	}
}

func TestDailyElapsedRespectsTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Lisbon")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 23:30 and 00:30 next day in Lisbon, both the same UTC day in summer.
	last := time.Date(2026, 6, 10, 22, 30, 0, 0, time.UTC)
	now := time.Date(2026, 6, 10, 23, 30, 0, 0, time.UTC)
	if !DailyElapsed(last, now, loc) {
		t.Fatalf("local midnight crossing must count as elapsed")
	}
	if DailyElapsed(last, now, time.UTC) {
		t.Fatalf("same UTC day must not count as elapsed in UTC")
	}
}

func TestMonthlyElapsedAcrossYears(t *testing.T) {
	last := time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if !MonthlyElapsed(last, now, nil) {
		t.Fatalf("year boundary must count as a monthly reset")
	}

	// Same month one year apart.
	if !MonthlyElapsed(last, last.AddDate(1, 0, 0), nil) {
		t.Fatalf("same month of a different year must count as elapsed")
	}
}

func TestReconcileResetsOncePerElapsedBoundary(t *testing.T) {
	usage := model.InkUsage{
		UserID:           7,
		DailyUsed:        4,
		MonthlyUsed:      19,
		LastDailyReset:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		LastMonthlyReset: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	// Dormant for many skipped days and one month boundary.
	now := time.Date(2026, 4, 15, 20, 0, 0, 0, time.UTC)
	if !Reconcile(&usage, now, nil) {
		t.Fatalf("expected reconcile to report a change")
	}

	if usage.DailyUsed != 0 || usage.MonthlyUsed != 0 {
		t.Fatalf("expected both counters reset, got %d/%d", usage.DailyUsed, usage.MonthlyUsed)
	}
	if !usage.LastDailyReset.Equal(now) || !usage.LastMonthlyReset.Equal(now) {
		t.Fatalf("reset timestamps must advance to now")
	}

	// Second reconcile at the same instant is a no-op.
	if Reconcile(&usage, now, nil) {
		t.Fatalf("reconcile must be idempotent for the same now")
	}
}

func TestReconcileDailyWithoutMonthly(t *testing.T) {
	usage := model.InkUsage{
		DailyUsed:        5,
		MonthlyUsed:      12,
		LastDailyReset:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		LastMonthlyReset: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	Reconcile(&usage, now, nil)

	if usage.DailyUsed != 0 {
		t.Fatalf("daily counter must reset, got %d", usage.DailyUsed)
	}
	if usage.MonthlyUsed != 12 {
		t.Fatalf("monthly counter must survive a daily reset, got %d", usage.MonthlyUsed)
	}
}

func TestConsumeFreeIsBoundedByBothCaps(t *testing.T) {
	usage := model.InkUsage{DailyUsed: 4, MonthlyUsed: 20}

	granted := ConsumeFree(&usage, 3, Caps{Daily: 5, Monthly: 25})
	if granted != 1 {
		t.Fatalf("unexpected grant: got %d want 1", granted)
	}
	if usage.DailyUsed != 5 || usage.MonthlyUsed != 21 {
		t.Fatalf("unexpected counters after grant: %d/%d", usage.DailyUsed, usage.MonthlyUsed)
	}

	// Exhausted daily headroom yields a silent zero grant.
	granted = ConsumeFree(&usage, 2, Caps{Daily: 5, Monthly: 25})
	if granted != 0 {
		t.Fatalf("expected zero grant at the daily cap, got %d", granted)
	}
	if usage.DailyUsed != 5 || usage.MonthlyUsed != 21 {
		t.Fatalf("zero grant must not move counters: %d/%d", usage.DailyUsed, usage.MonthlyUsed)
	}
}

func TestConsumeFreeNeverGrantsNegative(t *testing.T) {
	usage := model.InkUsage{DailyUsed: 2, MonthlyUsed: 3}
	if granted := ConsumeFree(&usage, -4, Caps{}); granted != 0 {
		t.Fatalf("negative request must grant zero, got %d", granted)
	}
	if usage.DailyUsed != 2 || usage.MonthlyUsed != 3 {
		t.Fatalf("counters must be untouched: %d/%d", usage.DailyUsed, usage.MonthlyUsed)
	}
}

func TestCapInvariantsHoldAfterAnySequence(t *testing.T) {
	usage := model.InkUsage{
		LastDailyReset:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		LastMonthlyReset: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	caps := Caps{Daily: 5, Monthly: 25}

	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 40; i++ {
		Reconcile(&usage, now, nil)
		ConsumeFree(&usage, 3, caps)

		if usage.DailyUsed < 0 || usage.DailyUsed > caps.Daily {
			t.Fatalf("daily invariant violated at step %d: %d", i, usage.DailyUsed)
		}
		if usage.MonthlyUsed < 0 || usage.MonthlyUsed > caps.Monthly {
			t.Fatalf("monthly invariant violated at step %d: %d", i, usage.MonthlyUsed)
		}

		now = now.Add(7 * time.Hour)
	}
}

func TestNextResetBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 10, 21, 30, 0, 0, time.UTC)

	daily := NextDailyReset(now, nil)
	if want := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC); !daily.Equal(want) {
		t.Fatalf("unexpected daily reset: got %s want %s", daily, want)
	}

	monthly := NextMonthlyReset(now, nil)
	if want := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC); !monthly.Equal(want) {
		t.Fatalf("unexpected monthly reset: got %s want %s", monthly, want)
	}
}

func TestUntilResetFormatting(t *testing.T) {
	now := time.Date(2026, 3, 10, 21, 30, 0, 0, time.UTC)

	cases := []struct {
		resetAt time.Time
		want    string
	}{
		{now.Add(2*time.Hour + 31*time.Minute), "2h 31m"},
		{now.Add(12 * time.Minute), "12m"},
		{now.Add(30 * time.Second), "1m"},
		{now.Add(26 * time.Hour), "1d 2h"},
		{now.Add(-time.Minute), "0m"},
	}
	for _, tc := range cases {
		if got := UntilReset(now, tc.resetAt); got != tc.want {
			t.Fatalf("unexpected countdown for %s: got %q want %q", tc.resetAt, got, tc.want)
		}
	}
}

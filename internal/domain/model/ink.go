package model

import "time"

// InkUsage tracks free-Ink consumption for one user. The daily and monthly
// counters are independent accumulators, each bounded by its own cap and
// reset on its own calendar boundary.
type InkUsage struct {
	UserID           int64     `json:"user_id"`
	DailyUsed        int       `json:"daily_used"`
	MonthlyUsed      int       `json:"monthly_used"`
	LastDailyReset   time.Time `json:"last_daily_reset"`
	LastMonthlyReset time.Time `json:"last_monthly_reset"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// InkSupport is one authorized transfer of Ink from a reader to a poet for a
// specific poem. Append-only, immutable once written.
type InkSupport struct {
	ID         int64     `json:"id"`
	FromUserID int64     `json:"from_user_id"`
	ToPoetID   int64     `json:"to_poet_id"`
	PoemID     int64     `json:"poem_id"`
	Amount     int       `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

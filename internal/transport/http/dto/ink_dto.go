package dto

import "time"

type InkSnapshotResponse struct {
	DailyUsed             int       `json:"daily_used"`
	DailyCap              int       `json:"daily_cap"`
	MonthlyUsed           int       `json:"monthly_used"`
	MonthlyCap            int       `json:"monthly_cap"`
	Balance               int       `json:"balance"`
	NextDailyReset        time.Time `json:"next_daily_reset"`
	NextMonthlyReset      time.Time `json:"next_monthly_reset"`
	TimeUntilDailyReset   string    `json:"time_until_daily_reset"`
	TimeUntilMonthlyReset string    `json:"time_until_monthly_reset"`
}

type SupportRequest struct {
	PoemID int64 `json:"poem_id"`
	Amount int   `json:"amount"`
}

type SupportResponse struct {
	SupportID int64               `json:"support_id"`
	PoemID    int64               `json:"poem_id"`
	ToPoetID  int64               `json:"to_poet_id"`
	Amount    int                 `json:"amount"`
	FreeUsed  int                 `json:"free_used"`
	PaidUsed  int                 `json:"paid_used"`
	Ink       InkSnapshotResponse `json:"ink"`
}

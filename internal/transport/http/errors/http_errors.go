package errors

import (
	"encoding/json"
	"net/http"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RateLimitError struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	RetryAfterSec int64  `json:"retry_after_sec"`
}

// OutOfInkError is the denial payload for an unaffordable spend: the full
// position plus when each free window comes back.
type OutOfInkError struct {
	Code                  string `json:"code"`
	Message               string `json:"message"`
	Required              int    `json:"required"`
	DailyUsed             int    `json:"daily_used"`
	DailyCap              int    `json:"daily_cap"`
	MonthlyUsed           int    `json:"monthly_used"`
	MonthlyCap            int    `json:"monthly_cap"`
	Balance               int    `json:"balance"`
	TimeUntilDailyReset   string `json:"time_until_daily_reset"`
	TimeUntilMonthlyReset string `json:"time_until_monthly_reset"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

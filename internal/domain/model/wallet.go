package model

import "time"

// Wallet holds a user's purchased Ink balance. The balance never goes
// negative; debits are conditional at the storage layer.
type Wallet struct {
	UserID    int64     `json:"user_id"`
	Balance   int       `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

package model

import (
	"time"

	"github.com/wordstackio/backend/internal/domain/enums"
)

type Purchase struct {
	ID           int64             `json:"id"`
	UserID       int64             `json:"user_id"`
	SKU          enums.PurchaseSKU `json:"sku"`
	Provider     string            `json:"provider"`
	ProviderTxID string            `json:"provider_tx_id"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	ConfirmedAt  *time.Time        `json:"confirmed_at,omitempty"`
}

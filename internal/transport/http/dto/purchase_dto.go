package dto

type CreatePurchaseRequest struct {
	SKU      string `json:"sku"`
	Provider string `json:"provider,omitempty"`
}

type CreatePurchaseResponse struct {
	PurchaseID  int64  `json:"purchase_id"`
	SKU         string `json:"sku"`
	InkAmount   int    `json:"ink_amount"`
	Provider    string `json:"provider"`
	Status      string `json:"status"`
	CheckoutRef string `json:"checkout_ref"`
}

type PurchaseWebhookRequest struct {
	PurchaseID   int64  `json:"purchase_id"`
	Provider     string `json:"provider"`
	ProviderTxID string `json:"provider_tx_id"`
	Status       string `json:"status"`
}

type PurchaseWebhookResponse struct {
	PurchaseID       int64  `json:"purchase_id"`
	Status           string `json:"status"`
	InkCredited      int    `json:"ink_credited"`
	Balance          int    `json:"balance"`
	AlreadyProcessed bool   `json:"already_processed"`
}

type WalletResponse struct {
	Balance int `json:"balance"`
}

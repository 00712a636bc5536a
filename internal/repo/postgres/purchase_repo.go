package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wordstackio/backend/internal/domain/enums"
	"github.com/wordstackio/backend/internal/domain/model"
)

var ErrPurchaseNotFound = errors.New("purchase not found")

type PurchaseRepo struct {
	pool *pgxpool.Pool
}

func NewPurchaseRepo(pool *pgxpool.Pool) *PurchaseRepo {
	return &PurchaseRepo{pool: pool}
}

func (r *PurchaseRepo) CreatePending(ctx context.Context, userID int64, sku enums.PurchaseSKU, provider string) (model.Purchase, error) {
	if userID <= 0 || sku == "" || strings.TrimSpace(provider) == "" {
		return model.Purchase{}, fmt.Errorf("invalid purchase payload")
	}
	if r.pool == nil {
		return model.Purchase{}, fmt.Errorf("postgres pool is nil")
	}

	purchase := model.Purchase{
		UserID:   userID,
		SKU:      sku,
		Provider: provider,
		Status:   "pending",
	}
	err := r.pool.QueryRow(ctx, `
INSERT INTO purchases (user_id, sku, provider, status, created_at)
VALUES ($1, $2, $3, 'pending', NOW())
RETURNING id, created_at
`, userID, string(sku), provider).Scan(&purchase.ID, &purchase.CreatedAt)
	if err != nil {
		return model.Purchase{}, fmt.Errorf("insert purchase: %w", err)
	}

	return purchase, nil
}

func (r *PurchaseRepo) FindByProviderTx(ctx context.Context, provider, providerTxID string) (model.Purchase, error) {
	if strings.TrimSpace(provider) == "" || strings.TrimSpace(providerTxID) == "" {
		return model.Purchase{}, fmt.Errorf("invalid provider tx lookup payload")
	}
	if r.pool == nil {
		return model.Purchase{}, ErrPurchaseNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT id, user_id, sku, provider, COALESCE(provider_tx_id, ''), status, created_at, confirmed_at
FROM purchases
WHERE provider = $1 AND provider_tx_id = $2
LIMIT 1
`, provider, providerTxID)

	return scanPurchase(row)
}

// MarkConfirmed flips a pending purchase to confirmed inside the crediting
// transaction. The second return reports whether the purchase was already
// confirmed, so webhook retries stay idempotent.
func (r *PurchaseRepo) MarkConfirmed(ctx context.Context, tx pgx.Tx, purchaseID int64, provider, providerTxID string) (model.Purchase, bool, error) {
	if purchaseID <= 0 || strings.TrimSpace(provider) == "" || strings.TrimSpace(providerTxID) == "" {
		return model.Purchase{}, false, fmt.Errorf("invalid purchase confirm payload")
	}
	if tx == nil {
		return model.Purchase{}, false, fmt.Errorf("transaction is required")
	}

	row := tx.QueryRow(ctx, `
SELECT id, user_id, sku, provider, COALESCE(provider_tx_id, ''), status, created_at, confirmed_at
FROM purchases
WHERE id = $1
FOR UPDATE
`, purchaseID)
	purchase, err := scanPurchase(row)
	if err != nil {
		return model.Purchase{}, false, err
	}

	if strings.EqualFold(purchase.Status, "confirmed") {
		return purchase, true, nil
	}

	err = tx.QueryRow(ctx, `
UPDATE purchases
SET
	status = 'confirmed',
	provider_tx_id = $2,
	confirmed_at = NOW()
WHERE id = $1
RETURNING status, COALESCE(provider_tx_id, ''), confirmed_at
`, purchaseID, providerTxID).Scan(&purchase.Status, &purchase.ProviderTxID, &purchase.ConfirmedAt)
	if err != nil {
		return model.Purchase{}, false, fmt.Errorf("confirm purchase: %w", err)
	}

	return purchase, false, nil
}

func scanPurchase(row rowScanner) (model.Purchase, error) {
	var (
		purchase model.Purchase
		sku      string
	)
	err := row.Scan(
		&purchase.ID, &purchase.UserID, &sku, &purchase.Provider,
		&purchase.ProviderTxID, &purchase.Status, &purchase.CreatedAt, &purchase.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Purchase{}, ErrPurchaseNotFound
		}
		return model.Purchase{}, fmt.Errorf("scan purchase row: %w", err)
	}
	purchase.SKU = enums.PurchaseSKU(sku)

	return purchase, nil
}

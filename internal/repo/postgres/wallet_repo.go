package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wordstackio/backend/internal/domain/model"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type WalletRepo struct {
	pool *pgxpool.Pool
}

func NewWalletRepo(pool *pgxpool.Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

func (r *WalletRepo) Find(ctx context.Context, userID int64) (model.Wallet, error) {
	if userID <= 0 {
		return model.Wallet{}, fmt.Errorf("invalid wallet lookup payload")
	}
	if r.pool == nil {
		return model.Wallet{UserID: userID}, nil
	}

	var wallet model.Wallet
	err := r.pool.QueryRow(ctx, `
SELECT user_id, balance, updated_at
FROM wallets
WHERE user_id = $1
LIMIT 1
`, userID).Scan(&wallet.UserID, &wallet.Balance, &wallet.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Wallet{UserID: userID}, nil
		}
		return model.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}

	return wallet, nil
}

// Debit withdraws amount iff the balance covers it, returning the remaining
// balance. The conditional update is what keeps the balance non-negative
// under concurrent spends.
func (r *WalletRepo) Debit(ctx context.Context, tx pgx.Tx, userID int64, amount int) (int, error) {
	if userID <= 0 || amount <= 0 {
		return 0, fmt.Errorf("invalid wallet debit payload")
	}
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}

	var balance int
	err := tx.QueryRow(ctx, `
UPDATE wallets
SET
	balance = balance - $2,
	updated_at = NOW()
WHERE user_id = $1 AND balance >= $2
RETURNING balance
`, userID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrInsufficientBalance
		}
		return 0, fmt.Errorf("debit wallet: %w", err)
	}

	return balance, nil
}

func (r *WalletRepo) Credit(ctx context.Context, tx pgx.Tx, userID int64, amount int) (int, error) {
	if userID <= 0 || amount <= 0 {
		return 0, fmt.Errorf("invalid wallet credit payload")
	}
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}

	var balance int
	err := tx.QueryRow(ctx, `
INSERT INTO wallets (user_id, balance, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	balance = wallets.balance + EXCLUDED.balance,
	updated_at = NOW()
RETURNING balance
`, userID, amount).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("credit wallet: %w", err)
	}

	return balance, nil
}

package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wordstackio/backend/internal/domain/enums"
	"github.com/wordstackio/backend/internal/domain/model"
	pgrepo "github.com/wordstackio/backend/internal/repo/postgres"
)

const (
	statusPending   = "pending"
	statusConfirmed = "confirmed"

	providerDev = "dev"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrUnsupportedSKU   = errors.New("unsupported sku")
	ErrPurchaseNotFound = errors.New("purchase not found")
)

type PurchaseStore interface {
	CreatePending(ctx context.Context, userID int64, sku enums.PurchaseSKU, provider string) (model.Purchase, error)
	FindByProviderTx(ctx context.Context, provider, providerTxID string) (model.Purchase, error)
	MarkConfirmed(ctx context.Context, tx pgx.Tx, purchaseID int64, provider, providerTxID string) (model.Purchase, bool, error)
}

type WalletStore interface {
	Credit(ctx context.Context, tx pgx.Tx, userID int64, amount int) (int, error)
}

type Service struct {
	purchases PurchaseStore
	wallets   WalletStore
	now       func() time.Time
	runTx     func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool      *pgxpool.Pool
	Purchases PurchaseStore
	Wallets   WalletStore
}

type CreateInput struct {
	SKU      string
	Provider string
}

type CreateResult struct {
	PurchaseID  int64
	SKU         enums.PurchaseSKU
	InkAmount   int
	Provider    string
	Status      string
	CheckoutRef string
}

type WebhookInput struct {
	PurchaseID   int64
	Provider     string
	ProviderTxID string
	Status       string
}

type WebhookResult struct {
	PurchaseID       int64
	UserID           int64
	SKU              enums.PurchaseSKU
	InkCredited      int
	Balance          int
	Status           string
	AlreadyProcessed bool
}

func NewService(deps Dependencies) *Service {
	pool := deps.Pool
	return &Service{
		purchases: deps.Purchases,
		wallets:   deps.Wallets,
		now:       time.Now,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
	}
}

// Create opens a pending purchase for an Ink pack. The checkout reference
// is what the dev provider echoes back as its transaction id.
func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (CreateResult, error) {
	if userID <= 0 {
		return CreateResult{}, ErrValidation
	}
	if s.purchases == nil {
		return CreateResult{}, fmt.Errorf("purchase store is nil")
	}

	sku, err := enums.ParsePurchaseSKU(in.SKU)
	if err != nil {
		return CreateResult{}, ErrUnsupportedSKU
	}
	provider := normalizeProvider(in.Provider)
	if provider == "" {
		return CreateResult{}, ErrValidation
	}

	record, err := s.purchases.CreatePending(ctx, userID, sku, provider)
	if err != nil {
		return CreateResult{}, err
	}

	return CreateResult{
		PurchaseID:  record.ID,
		SKU:         record.SKU,
		InkAmount:   record.SKU.InkAmount(),
		Provider:    record.Provider,
		Status:      record.Status,
		CheckoutRef: uuid.NewString(),
	}, nil
}

// ConfirmWebhook applies a provider confirmation exactly once. A repeated
// delivery for the same provider transaction id is acknowledged without
// crediting the wallet again.
func (s *Service) ConfirmWebhook(ctx context.Context, in WebhookInput) (WebhookResult, error) {
	if s.purchases == nil || s.wallets == nil || s.runTx == nil {
		return WebhookResult{}, fmt.Errorf("payments dependencies are not configured")
	}

	provider := normalizeProvider(in.Provider)
	providerTxID := strings.TrimSpace(in.ProviderTxID)
	if provider == "" || providerTxID == "" {
		return WebhookResult{}, ErrValidation
	}
	if !isConfirmationStatus(in.Status) {
		return WebhookResult{}, ErrValidation
	}

	existing, err := s.purchases.FindByProviderTx(ctx, provider, providerTxID)
	if err == nil {
		return WebhookResult{
			PurchaseID:       existing.ID,
			UserID:           existing.UserID,
			SKU:              existing.SKU,
			Status:           existing.Status,
			AlreadyProcessed: strings.EqualFold(existing.Status, statusConfirmed),
		}, nil
	}
	if !errors.Is(err, pgrepo.ErrPurchaseNotFound) {
		return WebhookResult{}, err
	}

	if in.PurchaseID <= 0 {
		return WebhookResult{}, ErrValidation
	}

	var result WebhookResult
	err = s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		purchase, already, err := s.purchases.MarkConfirmed(txCtx, tx, in.PurchaseID, provider, providerTxID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrPurchaseNotFound) {
				return ErrPurchaseNotFound
			}
			return err
		}
		if already {
			result = WebhookResult{
				PurchaseID:       purchase.ID,
				UserID:           purchase.UserID,
				SKU:              purchase.SKU,
				Status:           purchase.Status,
				AlreadyProcessed: true,
			}
			return nil
		}

		amount := purchase.SKU.InkAmount()
		if amount <= 0 {
			return ErrUnsupportedSKU
		}

		balance, err := s.wallets.Credit(txCtx, tx, purchase.UserID, amount)
		if err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}

		result = WebhookResult{
			PurchaseID:  purchase.ID,
			UserID:      purchase.UserID,
			SKU:         purchase.SKU,
			InkCredited: amount,
			Balance:     balance,
			Status:      purchase.Status,
		}
		return nil
	})
	if err != nil {
		return WebhookResult{}, err
	}

	return result, nil
}

func normalizeProvider(raw string) string {
	provider := strings.ToLower(strings.TrimSpace(raw))
	if provider == "" {
		return providerDev
	}
	if provider != providerDev {
		return ""
	}
	return provider
}

func isConfirmationStatus(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paid", "confirmed", "succeeded":
		return true
	default:
		return false
	}
}

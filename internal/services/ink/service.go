package ink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wordstackio/backend/internal/domain/model"
	"github.com/wordstackio/backend/internal/domain/rules"
	pgrepo "github.com/wordstackio/backend/internal/repo/postgres"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrSelfSupport  = errors.New("cannot support your own poem")
	ErrPoemNotFound = errors.New("poem not found")
)

// OutOfInkError carries the reconciled usage state so the caller can tell
// the reader exactly where they stand and when the allowance comes back.
type OutOfInkError struct {
	Required int
	Snapshot Snapshot
}

func (e OutOfInkError) Error() string {
	return "out of ink"
}

func IsOutOfInk(err error) (*OutOfInkError, bool) {
	var oi OutOfInkError
	if errors.As(err, &oi) {
		return &oi, true
	}
	return nil, false
}

type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type UsageStore interface {
	Lock(ctx context.Context, tx pgx.Tx, userID int64, now time.Time) (model.InkUsage, error)
	Find(ctx context.Context, userID int64) (model.InkUsage, bool, error)
	Save(ctx context.Context, tx pgx.Tx, usage model.InkUsage) error
}

type WalletStore interface {
	Find(ctx context.Context, userID int64) (model.Wallet, error)
	Debit(ctx context.Context, tx pgx.Tx, userID int64, amount int) (int, error)
}

type SupportStore interface {
	Append(ctx context.Context, tx pgx.Tx, support model.InkSupport) (int64, error)
	ListForPoem(ctx context.Context, poemID int64, limit int) ([]model.InkSupport, error)
}

type PoemStore interface {
	FindForSupport(ctx context.Context, tx pgx.Tx, poemID int64) (model.Poem, error)
	AddSupport(ctx context.Context, tx pgx.Tx, poemID int64, amount int) error
}

type RateLimiter interface {
	AllowSupport(ctx context.Context, userID int64) (int64, bool, error)
}

type Config struct {
	DailyFreeCap     int
	MonthlyFreeCap   int
	MaxSupportAmount int
	Timezone         string
}

// Snapshot is the reader-facing view of one user's Ink position: free
// allowance used in each window, the paid balance, and when each window
// resets.
type Snapshot struct {
	DailyUsed             int
	DailyCap              int
	MonthlyUsed           int
	MonthlyCap            int
	Balance               int
	NextDailyReset        time.Time
	NextMonthlyReset      time.Time
	TimeUntilDailyReset   string
	TimeUntilMonthlyReset string
}

// Receipt describes one authorized support: how the amount was funded and
// the resulting Ink position.
type Receipt struct {
	SupportID int64
	PoemID    int64
	ToPoetID  int64
	Amount    int
	FreeUsed  int
	PaidUsed  int
	Snapshot  Snapshot
}

type Service struct {
	usage       UsageStore
	wallets     WalletStore
	supports    SupportStore
	poems       PoemStore
	rateLimiter RateLimiter
	cfg         Config
	caps        rules.Caps
	loc         *time.Location
	now         func() time.Time
	runTx       func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool        *pgxpool.Pool
	Usage       UsageStore
	Wallets     WalletStore
	Supports    SupportStore
	Poems       PoemStore
	RateLimiter RateLimiter
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.MaxSupportAmount <= 0 {
		cfg.MaxSupportAmount = 500
	}

	loc := time.UTC
	if cfg.Timezone != "" {
		if parsed, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = parsed
		}
	}

	pool := deps.Pool
	return &Service{
		usage:       deps.Usage,
		wallets:     deps.Wallets,
		supports:    deps.Supports,
		poems:       deps.Poems,
		rateLimiter: deps.RateLimiter,
		cfg:         cfg,
		caps:        rules.Caps{Daily: cfg.DailyFreeCap, Monthly: cfg.MonthlyFreeCap},
		loc:         loc,
		now:         time.Now,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
	}
}

// Support authorizes one all-or-nothing spend of amount Ink from the reader
// to the poem's author. Free allowance is consumed first, then the paid
// balance covers any shortfall. If the combined funds cannot cover the full
// amount, nothing is spent.
func (s *Service) Support(ctx context.Context, fromUserID, poemID int64, amount int) (Receipt, error) {
	if fromUserID <= 0 || poemID <= 0 {
		return Receipt{}, ErrValidation
	}
	if amount <= 0 || amount > s.cfg.MaxSupportAmount {
		return Receipt{}, ErrValidation
	}
	if s.runTx == nil || s.usage == nil || s.wallets == nil || s.supports == nil || s.poems == nil {
		return Receipt{}, fmt.Errorf("ink dependencies are not configured")
	}

	if s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowSupport(ctx, fromUserID)
		if err != nil {
			return Receipt{}, fmt.Errorf("apply support rate limiter: %w", err)
		}
		if !allowed {
			return Receipt{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	now := s.now().UTC()

	var (
		receipt Receipt
		balance int
	)
	err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		poem, err := s.poems.FindForSupport(txCtx, tx, poemID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrPoemNotFound) {
				return ErrPoemNotFound
			}
			return err
		}
		if poem.AuthorID == fromUserID {
			return ErrSelfSupport
		}

		usage, err := s.usage.Lock(txCtx, tx, fromUserID, now)
		if err != nil {
			return err
		}
		rules.Reconcile(&usage, now, s.loc)

		reconciled := usage
		freeUsed := rules.ConsumeFree(&usage, amount, s.caps)
		paidUsed := amount - freeUsed

		balance = 0
		if paidUsed > 0 {
			remaining, err := s.wallets.Debit(txCtx, tx, fromUserID, paidUsed)
			if err != nil {
				if errors.Is(err, pgrepo.ErrInsufficientBalance) {
					return OutOfInkError{
						Required: amount,
						Snapshot: s.buildSnapshot(reconciled, 0, now),
					}
				}
				return fmt.Errorf("debit wallet: %w", err)
			}
			balance = remaining
		}

		usage.UpdatedAt = now
		if err := s.usage.Save(txCtx, tx, usage); err != nil {
			return err
		}

		supportID, err := s.supports.Append(txCtx, tx, model.InkSupport{
			FromUserID: fromUserID,
			ToPoetID:   poem.AuthorID,
			PoemID:     poemID,
			Amount:     amount,
			CreatedAt:  now,
		})
		if err != nil {
			return err
		}

		if err := s.poems.AddSupport(txCtx, tx, poemID, amount); err != nil {
			return err
		}

		receipt = Receipt{
			SupportID: supportID,
			PoemID:    poemID,
			ToPoetID:  poem.AuthorID,
			Amount:    amount,
			FreeUsed:  freeUsed,
			PaidUsed:  paidUsed,
			Snapshot:  s.buildSnapshot(usage, balance, now),
		}
		return nil
	})
	if err != nil {
		if oi, ok := IsOutOfInk(err); ok {
			// Fill in the untouched paid balance for the denial payload.
			if wallet, werr := s.wallets.Find(ctx, fromUserID); werr == nil {
				oi.Snapshot.Balance = wallet.Balance
			}
			return Receipt{}, *oi
		}
		return Receipt{}, err
	}

	if receipt.PaidUsed == 0 {
		if wallet, werr := s.wallets.Find(ctx, fromUserID); werr == nil {
			receipt.Snapshot.Balance = wallet.Balance
		}
	}

	return receipt, nil
}

// GetSnapshot reports the user's current Ink position. Stale windows are
// reconciled in memory only; the stored row is rewritten on the next spend.
func (s *Service) GetSnapshot(ctx context.Context, userID int64) (Snapshot, error) {
	if userID <= 0 {
		return Snapshot{}, ErrValidation
	}
	if s.usage == nil || s.wallets == nil {
		return Snapshot{}, fmt.Errorf("ink dependencies are not configured")
	}

	now := s.now().UTC()

	usage, ok, err := s.usage.Find(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("find ink usage: %w", err)
	}
	if !ok {
		usage = model.InkUsage{
			UserID:           userID,
			LastDailyReset:   now,
			LastMonthlyReset: now,
		}
	}
	rules.Reconcile(&usage, now, s.loc)

	wallet, err := s.wallets.Find(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("find wallet: %w", err)
	}

	return s.buildSnapshot(usage, wallet.Balance, now), nil
}

func (s *Service) ListSupports(ctx context.Context, poemID int64, limit int) ([]model.InkSupport, error) {
	if poemID <= 0 {
		return nil, ErrValidation
	}
	if s.supports == nil {
		return nil, fmt.Errorf("ink dependencies are not configured")
	}
	return s.supports.ListForPoem(ctx, poemID, limit)
}

func (s *Service) buildSnapshot(usage model.InkUsage, balance int, now time.Time) Snapshot {
	caps := s.caps
	if caps.Daily <= 0 {
		caps.Daily = rules.DefaultDailyFreeCap
	}
	if caps.Monthly <= 0 {
		caps.Monthly = rules.DefaultMonthlyFreeCap
	}

	nextDaily := rules.NextDailyReset(now, s.loc)
	nextMonthly := rules.NextMonthlyReset(now, s.loc)

	return Snapshot{
		DailyUsed:             usage.DailyUsed,
		DailyCap:              caps.Daily,
		MonthlyUsed:           usage.MonthlyUsed,
		MonthlyCap:            caps.Monthly,
		Balance:               balance,
		NextDailyReset:        nextDaily,
		NextMonthlyReset:      nextMonthly,
		TimeUntilDailyReset:   rules.UntilReset(now, nextDaily),
		TimeUntilMonthlyReset: rules.UntilReset(now, nextMonthly),
	}
}

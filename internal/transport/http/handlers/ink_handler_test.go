package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	goredis "github.com/redis/go-redis/v9"

	"github.com/wordstackio/backend/internal/domain/model"
	redrepo "github.com/wordstackio/backend/internal/repo/redis"
	authsvc "github.com/wordstackio/backend/internal/services/auth"
	inksvc "github.com/wordstackio/backend/internal/services/ink"
	ratesvc "github.com/wordstackio/backend/internal/services/rate"
)

type usageReaderStub struct {
	usage model.InkUsage
	found bool
}

func (s *usageReaderStub) Lock(_ context.Context, _ pgx.Tx, userID int64, now time.Time) (model.InkUsage, error) {
	if s.found {
		return s.usage, nil
	}
	return model.InkUsage{UserID: userID, LastDailyReset: now, LastMonthlyReset: now}, nil
}

func (s *usageReaderStub) Find(_ context.Context, _ int64) (model.InkUsage, bool, error) {
	return s.usage, s.found, nil
}

func (s *usageReaderStub) Save(_ context.Context, _ pgx.Tx, usage model.InkUsage) error {
	s.usage = usage
	s.found = true
	return nil
}

type walletReaderStub struct {
	wallet model.Wallet
}

func (s *walletReaderStub) Find(_ context.Context, _ int64) (model.Wallet, error) {
	return s.wallet, nil
}

func (s *walletReaderStub) Debit(_ context.Context, _ pgx.Tx, _ int64, _ int) (int, error) {
	return s.wallet.Balance, nil
}

type supportSinkStub struct{}

func (supportSinkStub) Append(_ context.Context, _ pgx.Tx, _ model.InkSupport) (int64, error) {
	return 1, nil
}

func (supportSinkStub) ListForPoem(_ context.Context, _ int64, _ int) ([]model.InkSupport, error) {
	return nil, nil
}

type poemSinkStub struct{}

func (poemSinkStub) FindForSupport(_ context.Context, _ pgx.Tx, poemID int64) (model.Poem, error) {
	return model.Poem{ID: poemID, AuthorID: 42}, nil
}

func (poemSinkStub) AddSupport(_ context.Context, _ pgx.Tx, _ int64, _ int) error {
	return nil
}

func newInkHandlerForTest(t *testing.T, perMinute, per10Sec int) *InkHandler {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	rateLimiter := ratesvc.NewLimiter(redrepo.NewRateRepo(client), perMinute, per10Sec)
	now := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

	svc := inksvc.NewService(inksvc.Dependencies{
		Usage: &usageReaderStub{
			usage: model.InkUsage{
				UserID:           101,
				DailyUsed:        4,
				MonthlyUsed:      20,
				LastDailyReset:   now,
				LastMonthlyReset: now,
			},
			found: true,
		},
		Wallets:     &walletReaderStub{wallet: model.Wallet{UserID: 101, Balance: 8}},
		Supports:    supportSinkStub{},
		Poems:       poemSinkStub{},
		RateLimiter: rateLimiter,
	}, inksvc.Config{
		DailyFreeCap:   5,
		MonthlyFreeCap: 25,
	})

	return NewInkHandler(svc)
}

func TestInkSnapshotHandler(t *testing.T) {
	h := newInkHandlerForTest(t, 30, 10)

	req := httptest.NewRequest(http.MethodGet, "/v1/ink", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: 101,
		SID:    "sid-101",
	}))
	rec := httptest.NewRecorder()
	h.Snapshot(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}

	var payload struct {
		DailyUsed           int    `json:"daily_used"`
		DailyCap            int    `json:"daily_cap"`
		MonthlyUsed         int    `json:"monthly_used"`
		MonthlyCap          int    `json:"monthly_cap"`
		Balance             int    `json:"balance"`
		TimeUntilDailyReset string `json:"time_until_daily_reset"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if payload.DailyUsed != 4 || payload.DailyCap != 5 {
		t.Fatalf("unexpected daily window: used=%d cap=%d", payload.DailyUsed, payload.DailyCap)
	}
	if payload.MonthlyUsed != 20 || payload.MonthlyCap != 25 {
		t.Fatalf("unexpected monthly window: used=%d cap=%d", payload.MonthlyUsed, payload.MonthlyCap)
	}
	if payload.Balance != 8 {
		t.Fatalf("unexpected balance: got %d want 8", payload.Balance)
	}
	if payload.TimeUntilDailyReset == "" {
		t.Fatalf("expected time_until_daily_reset hint")
	}
}

func TestInkSupportHandlerReturnsTooFastOnBurst(t *testing.T) {
	h := newInkHandlerForTest(t, 30, 2)

	// The stores behind the service are stubs, so only the pre-commit gates
	// matter here: the third request in a 10-second window must be refused
	// before any spend is attempted.
	for i := 0; i < 2; i++ {
		rec := performSupportRequest(t, h, 7, 1)
		if rec.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d must not be rate limited", i+1)
		}
	}

	rec := performSupportRequest(t, h, 7, 1)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status on third support: got %d want %d", rec.Code, http.StatusTooManyRequests)
	}

	var payload struct {
		Code          string `json:"code"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "TOO_FAST" {
		t.Fatalf("unexpected error code: got %q want %q", payload.Code, "TOO_FAST")
	}
	if payload.RetryAfterSec <= 0 {
		t.Fatalf("expected positive retry_after_sec, got %d", payload.RetryAfterSec)
	}
}

func TestInkSupportHandlerRejectsBadAmount(t *testing.T) {
	h := newInkHandlerForTest(t, 30, 10)

	rec := performSupportRequest(t, h, 7, 0)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}

func performSupportRequest(t *testing.T, h *InkHandler, poemID int64, amount int) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"poem_id": poemID,
		"amount":  amount,
	})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/ink/support", bytes.NewReader(body))
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: 101,
		SID:    "sid-101",
	}))
	rec := httptest.NewRecorder()
	h.Support(rec, req)
	return rec
}

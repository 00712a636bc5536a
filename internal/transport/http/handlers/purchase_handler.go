package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/wordstackio/backend/internal/domain/model"
	authsvc "github.com/wordstackio/backend/internal/services/auth"
	paymentsvc "github.com/wordstackio/backend/internal/services/payments"
	"github.com/wordstackio/backend/internal/transport/http/dto"
	httperrors "github.com/wordstackio/backend/internal/transport/http/errors"
)

type WalletReader interface {
	Find(ctx context.Context, userID int64) (model.Wallet, error)
}

type PurchaseHandler struct {
	service *paymentsvc.Service
	wallets WalletReader
}

func NewPurchaseHandler(service *paymentsvc.Service, wallets WalletReader) *PurchaseHandler {
	return &PurchaseHandler{service: service, wallets: wallets}
}

func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAYMENTS_UNAVAILABLE", "payments service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.CreatePurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.service.Create(r.Context(), identity.UserID, paymentsvc.CreateInput{
		SKU:      req.SKU,
		Provider: req.Provider,
	})
	if err != nil {
		handlePurchaseError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.CreatePurchaseResponse{
		PurchaseID:  res.PurchaseID,
		SKU:         string(res.SKU),
		InkAmount:   res.InkAmount,
		Provider:    res.Provider,
		Status:      res.Status,
		CheckoutRef: res.CheckoutRef,
	})
}

// Webhook is called by the payment provider, not the user, so it carries no
// bearer token.
func (h *PurchaseHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PAYMENTS_UNAVAILABLE", "payments service is unavailable")
		return
	}

	var req dto.PurchaseWebhookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.service.ConfirmWebhook(r.Context(), paymentsvc.WebhookInput{
		PurchaseID:   req.PurchaseID,
		Provider:     req.Provider,
		ProviderTxID: req.ProviderTxID,
		Status:       req.Status,
	})
	if err != nil {
		handlePurchaseError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PurchaseWebhookResponse{
		PurchaseID:       res.PurchaseID,
		Status:           res.Status,
		InkCredited:      res.InkCredited,
		Balance:          res.Balance,
		AlreadyProcessed: res.AlreadyProcessed,
	})
}

func (h *PurchaseHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	if h.wallets == nil {
		writeInternal(w, "PAYMENTS_UNAVAILABLE", "wallet store is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	wallet, err := h.wallets.Find(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.WalletResponse{Balance: wallet.Balance})
}

func handlePurchaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, paymentsvc.ErrUnsupportedSKU):
		writeBadRequest(w, "UNSUPPORTED_SKU", "unknown ink pack")
	case errors.Is(err, paymentsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, paymentsvc.ErrPurchaseNotFound):
		writeNotFound(w, "PURCHASE_NOT_FOUND", "purchase not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

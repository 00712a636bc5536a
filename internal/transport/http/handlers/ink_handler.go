package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/wordstackio/backend/internal/services/auth"
	inksvc "github.com/wordstackio/backend/internal/services/ink"
	"github.com/wordstackio/backend/internal/transport/http/dto"
	httperrors "github.com/wordstackio/backend/internal/transport/http/errors"
)

type InkHandler struct {
	service *inksvc.Service
}

func NewInkHandler(service *inksvc.Service) *InkHandler {
	return &InkHandler{service: service}
}

func (h *InkHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "INK_SERVICE_UNAVAILABLE", "ink service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	snapshot, err := h.service.GetSnapshot(r.Context(), identity.UserID)
	if err != nil {
		handleInkError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, inkSnapshotResponse(snapshot))
}

func (h *InkHandler) Support(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "INK_SERVICE_UNAVAILABLE", "ink service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.SupportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	receipt, err := h.service.Support(r.Context(), identity.UserID, req.PoemID, req.Amount)
	if err != nil {
		handleInkError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SupportResponse{
		SupportID: receipt.SupportID,
		PoemID:    receipt.PoemID,
		ToPoetID:  receipt.ToPoetID,
		Amount:    receipt.Amount,
		FreeUsed:  receipt.FreeUsed,
		PaidUsed:  receipt.PaidUsed,
		Ink:       inkSnapshotResponse(receipt.Snapshot),
	})
}

func handleInkError(w http.ResponseWriter, err error) {
	if oi, ok := inksvc.IsOutOfInk(err); ok {
		httperrors.Write(w, http.StatusConflict, httperrors.OutOfInkError{
			Code:                  "OUT_OF_INK",
			Message:               "not enough ink to cover this support",
			Required:              oi.Required,
			DailyUsed:             oi.Snapshot.DailyUsed,
			DailyCap:              oi.Snapshot.DailyCap,
			MonthlyUsed:           oi.Snapshot.MonthlyUsed,
			MonthlyCap:            oi.Snapshot.MonthlyCap,
			Balance:               oi.Snapshot.Balance,
			TimeUntilDailyReset:   oi.Snapshot.TimeUntilDailyReset,
			TimeUntilMonthlyReset: oi.Snapshot.TimeUntilMonthlyReset,
		})
		return
	}
	if tf, ok := inksvc.IsTooFast(err); ok {
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
			Code:          "TOO_FAST",
			Message:       "slow down",
			RetryAfterSec: tf.RetryAfter(),
		})
		return
	}

	switch {
	case errors.Is(err, inksvc.ErrSelfSupport):
		writeBadRequest(w, "SELF_SUPPORT", "cannot support your own poem")
	case errors.Is(err, inksvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, inksvc.ErrPoemNotFound):
		writeNotFound(w, "POEM_NOT_FOUND", "poem not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func inkSnapshotResponse(snapshot inksvc.Snapshot) dto.InkSnapshotResponse {
	return dto.InkSnapshotResponse{
		DailyUsed:             snapshot.DailyUsed,
		DailyCap:              snapshot.DailyCap,
		MonthlyUsed:           snapshot.MonthlyUsed,
		MonthlyCap:            snapshot.MonthlyCap,
		Balance:               snapshot.Balance,
		NextDailyReset:        snapshot.NextDailyReset,
		NextMonthlyReset:      snapshot.NextMonthlyReset,
		TimeUntilDailyReset:   snapshot.TimeUntilDailyReset,
		TimeUntilMonthlyReset: snapshot.TimeUntilMonthlyReset,
	}
}

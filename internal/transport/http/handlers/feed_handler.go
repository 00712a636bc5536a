package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	authsvc "github.com/wordstackio/backend/internal/services/auth"
	feedsvc "github.com/wordstackio/backend/internal/services/feed"
	"github.com/wordstackio/backend/internal/transport/http/dto"
	httperrors "github.com/wordstackio/backend/internal/transport/http/errors"
)

type FeedHandler struct {
	service *feedsvc.Service
}

func NewFeedHandler(service *feedsvc.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	query := feedsvc.Query{
		Mode:   strings.TrimSpace(r.URL.Query().Get("mode")),
		Limit:  parseIntOrDefault(r.URL.Query().Get("limit"), 0),
		Offset: parseIntOrDefault(r.URL.Query().Get("offset"), 0),
	}

	res, err := h.service.Get(r.Context(), identity.UserID, query)
	if err != nil {
		switch {
		case errors.Is(err, feedsvc.ErrBadMode), errors.Is(err, feedsvc.ErrValidation):
			writeBadRequest(w, "INVALID_REQUEST", "invalid feed query")
		default:
			writeInternal(w, "INTERNAL_ERROR", "internal server error")
		}
		return
	}

	entries := make([]dto.FeedEntryResponse, 0, len(res.Entries))
	for _, entry := range res.Entries {
		entries = append(entries, dto.FeedEntryResponse{
			Kind:      string(entry.Kind),
			ID:        entry.ID,
			AuthorID:  entry.AuthorID,
			Title:     entry.Title,
			Body:      entry.Body,
			Supports:  entry.Supports,
			CreatedAt: entry.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.FeedResponse{
		Mode:    string(res.Mode),
		Entries: entries,
		HasMore: res.HasMore,
	})
}

func parseIntOrDefault(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wordstackio/backend/internal/domain/model"
	authsvc "github.com/wordstackio/backend/internal/services/auth"
	poemsvc "github.com/wordstackio/backend/internal/services/poems"
	"github.com/wordstackio/backend/internal/transport/http/dto"
	httperrors "github.com/wordstackio/backend/internal/transport/http/errors"
)

type PoemHandler struct {
	service *poemsvc.Service
}

func NewPoemHandler(service *poemsvc.Service) *PoemHandler {
	return &PoemHandler{service: service}
}

func (h *PoemHandler) Publish(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POEM_SERVICE_UNAVAILABLE", "poem service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.PublishPoemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	poem, err := h.service.Publish(r.Context(), identity.UserID, poemsvc.PublishInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		handlePoemError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, poemResponse(poem))
}

func (h *PoemHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POEM_SERVICE_UNAVAILABLE", "poem service is unavailable")
		return
	}

	poemID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "invalid poem id")
		return
	}

	poem, err := h.service.Get(r.Context(), poemID)
	if err != nil {
		handlePoemError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, poemResponse(poem))
}

func (h *PoemHandler) ListByPoet(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POEM_SERVICE_UNAVAILABLE", "poem service is unavailable")
		return
	}

	poetID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "invalid poet id")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 50)
	poems, err := h.service.ListByAuthor(r.Context(), poetID, limit)
	if err != nil {
		handlePoemError(w, err)
		return
	}

	items := make([]dto.PoemResponse, 0, len(poems))
	for _, poem := range poems {
		items = append(items, poemResponse(poem))
	}
	httperrors.Write(w, http.StatusOK, dto.PoemListResponse{Poems: items})
}

func handlePoemError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, poemsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "poem validation failed")
	case errors.Is(err, poemsvc.ErrNotFound):
		writeNotFound(w, "POEM_NOT_FOUND", "poem not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func poemResponse(poem model.Poem) dto.PoemResponse {
	return dto.PoemResponse{
		ID:          poem.ID,
		AuthorID:    poem.AuthorID,
		Title:       poem.Title,
		Body:        poem.Body,
		InkReceived: poem.InkReceived,
		ClapsCount:  poem.ClapsCount,
		CreatedAt:   poem.CreatedAt,
	}
}

func urlParamID(r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

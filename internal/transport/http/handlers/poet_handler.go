package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/wordstackio/backend/internal/services/auth"
	poetsvc "github.com/wordstackio/backend/internal/services/poets"
	"github.com/wordstackio/backend/internal/transport/http/dto"
	httperrors "github.com/wordstackio/backend/internal/transport/http/errors"
)

type PoetHandler struct {
	service *poetsvc.Service
}

func NewPoetHandler(service *poetsvc.Service) *PoetHandler {
	return &PoetHandler{service: service}
}

func (h *PoetHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POET_SERVICE_UNAVAILABLE", "poet service is unavailable")
		return
	}

	poetID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "invalid poet id")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), poetID)
	if err != nil {
		handlePoetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PoetProfileResponse{
		ID:               profile.ID,
		PenName:          profile.PenName,
		Bio:              profile.Bio,
		Followers:        profile.Followers,
		TotalInkReceived: profile.TotalInkReceived,
		JoinedAt:         profile.JoinedAt,
	})
}

func (h *PoetHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POET_SERVICE_UNAVAILABLE", "poet service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	err := h.service.UpdateProfile(r.Context(), identity.UserID, poetsvc.UpdateProfileInput{
		PenName:  req.PenName,
		Bio:      req.Bio,
		Timezone: req.Timezone,
	})
	if err != nil {
		handlePoetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.FollowResponse{OK: true})
}

func (h *PoetHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, true)
}

func (h *PoetHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, false)
}

func (h *PoetHandler) changeFollow(w http.ResponseWriter, r *http.Request, follow bool) {
	if h.service == nil {
		writeInternal(w, "POET_SERVICE_UNAVAILABLE", "poet service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	poetID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "invalid poet id")
		return
	}

	var err error
	if follow {
		err = h.service.Follow(r.Context(), identity.UserID, poetID)
	} else {
		err = h.service.Unfollow(r.Context(), identity.UserID, poetID)
	}
	if err != nil {
		handlePoetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.FollowResponse{OK: true})
}

func (h *PoetHandler) Following(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POET_SERVICE_UNAVAILABLE", "poet service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	ids, err := h.service.Following(r.Context(), identity.UserID)
	if err != nil {
		handlePoetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.FollowingResponse{PoetIDs: ids})
}

func handlePoetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, poetsvc.ErrSelfFollow):
		writeBadRequest(w, "SELF_FOLLOW", "cannot follow yourself")
	case errors.Is(err, poetsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, poetsvc.ErrNotFound):
		writeNotFound(w, "POET_NOT_FOUND", "poet not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

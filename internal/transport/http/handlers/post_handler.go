package handlers

import (
	"errors"
	"net/http"

	"github.com/wordstackio/backend/internal/domain/enums"
	"github.com/wordstackio/backend/internal/domain/model"
	authsvc "github.com/wordstackio/backend/internal/services/auth"
	postsvc "github.com/wordstackio/backend/internal/services/posts"
	"github.com/wordstackio/backend/internal/transport/http/dto"
	httperrors "github.com/wordstackio/backend/internal/transport/http/errors"
)

type PostHandler struct {
	service *postsvc.Service
}

func NewPostHandler(service *postsvc.Service) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) Publish(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POST_SERVICE_UNAVAILABLE", "post service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.PublishPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	attachment, err := attachmentFromPayload(req.Attachment)
	if err != nil {
		writeBadRequest(w, "INVALID_ATTACHMENT", "invalid attachment")
		return
	}

	post, err := h.service.Publish(r.Context(), identity.UserID, postsvc.PublishInput{
		Body:       req.Body,
		Attachment: attachment,
	})
	if err != nil {
		handlePostError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, postResponse(post))
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POST_SERVICE_UNAVAILABLE", "post service is unavailable")
		return
	}

	postID, ok := urlParamID(r, "id")
	if !ok {
		writeBadRequest(w, "INVALID_REQUEST", "invalid post id")
		return
	}

	post, err := h.service.Get(r.Context(), postID)
	if err != nil {
		handlePostError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, postResponse(post))
}

func handlePostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, postsvc.ErrBadAttachment):
		writeBadRequest(w, "INVALID_ATTACHMENT", "invalid attachment")
	case errors.Is(err, postsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "post validation failed")
	case errors.Is(err, postsvc.ErrNotFound):
		writeNotFound(w, "POST_NOT_FOUND", "post not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func attachmentFromPayload(payload *dto.AttachmentPayload) (*model.Attachment, error) {
	if payload == nil {
		return nil, nil
	}

	kind, ok := enums.ParseAttachmentKind(payload.Kind)
	if !ok {
		return nil, errors.New("unknown attachment kind")
	}

	attachment := &model.Attachment{Kind: kind}
	if payload.Poll != nil {
		attachment.Poll = &model.PollAttachment{
			Question: payload.Poll.Question,
			Options:  payload.Poll.Options,
		}
	}
	if payload.Quote != nil {
		attachment.Quote = &model.QuoteAttachment{
			Text:   payload.Quote.Text,
			Source: payload.Quote.Source,
		}
	}
	if payload.Link != nil {
		attachment.Link = &model.LinkAttachment{URL: payload.Link.URL}
	}
	return attachment, nil
}

func postResponse(post model.CommunityPost) dto.PostResponse {
	res := dto.PostResponse{
		ID:         post.ID,
		AuthorID:   post.AuthorID,
		Body:       post.Body,
		LikesCount: post.LikesCount,
		CreatedAt:  post.CreatedAt,
	}
	if post.Attachment != nil {
		payload := &dto.AttachmentPayload{Kind: string(post.Attachment.Kind)}
		if post.Attachment.Poll != nil {
			payload.Poll = &dto.PollPayload{
				Question: post.Attachment.Poll.Question,
				Options:  post.Attachment.Poll.Options,
			}
		}
		if post.Attachment.Quote != nil {
			payload.Quote = &dto.QuotePayload{
				Text:   post.Attachment.Quote.Text,
				Source: post.Attachment.Quote.Source,
			}
		}
		if post.Attachment.Link != nil {
			payload.Link = &dto.LinkPayload{URL: post.Attachment.Link.URL}
		}
		res.Attachment = payload
	}
	return res
}

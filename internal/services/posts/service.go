package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wordstackio/backend/internal/domain/enums"
	"github.com/wordstackio/backend/internal/domain/model"
	"github.com/wordstackio/backend/internal/pkg/validate"
	pgrepo "github.com/wordstackio/backend/internal/repo/postgres"
)

const (
	maxBodyLen      = 5000
	maxQuoteLen     = 1000
	maxPollQuestion = 300
	minPollOptions  = 2
	maxPollOptions  = 4
	maxPollOption   = 100
)

var (
	ErrValidation    = errors.New("validation error")
	ErrBadAttachment = errors.New("invalid attachment")
	ErrNotFound      = errors.New("post not found")
)

type Store interface {
	Create(ctx context.Context, post model.CommunityPost) (model.CommunityPost, error)
	FindByID(ctx context.Context, postID int64) (model.CommunityPost, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

type PublishInput struct {
	Body       string
	Attachment *model.Attachment
}

func (s *Service) Publish(ctx context.Context, authorID int64, in PublishInput) (model.CommunityPost, error) {
	if authorID <= 0 {
		return model.CommunityPost{}, ErrValidation
	}
	if s.store == nil {
		return model.CommunityPost{}, fmt.Errorf("post store is nil")
	}

	body := strings.TrimSpace(in.Body)
	if !validate.Required(body) || !validate.MaxLen(body, maxBodyLen) {
		return model.CommunityPost{}, ErrValidation
	}

	if in.Attachment != nil {
		if err := validateAttachment(in.Attachment); err != nil {
			return model.CommunityPost{}, err
		}
	}

	return s.store.Create(ctx, model.CommunityPost{
		AuthorID:   authorID,
		Body:       body,
		Attachment: in.Attachment,
	})
}

func (s *Service) Get(ctx context.Context, postID int64) (model.CommunityPost, error) {
	if postID <= 0 {
		return model.CommunityPost{}, ErrValidation
	}
	if s.store == nil {
		return model.CommunityPost{}, fmt.Errorf("post store is nil")
	}

	post, err := s.store.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPostNotFound) {
			return model.CommunityPost{}, ErrNotFound
		}
		return model.CommunityPost{}, err
	}
	return post, nil
}

// validateAttachment enforces the tagged-variant shape: exactly one payload,
// and it must match Kind.
func validateAttachment(att *model.Attachment) error {
	set := 0
	if att.Poll != nil {
		set++
	}
	if att.Quote != nil {
		set++
	}
	if att.Link != nil {
		set++
	}
	if set != 1 {
		return ErrBadAttachment
	}

	switch {
	case att.Kind == enums.AttachmentKindPoll && att.Poll != nil:
		return validatePoll(att.Poll)
	case att.Kind == enums.AttachmentKindQuote && att.Quote != nil:
		return validateQuote(att.Quote)
	case att.Kind == enums.AttachmentKindLink && att.Link != nil:
		return validateLink(att.Link)
	default:
		return ErrBadAttachment
	}
}

func validatePoll(poll *model.PollAttachment) error {
	if !validate.Required(poll.Question) || !validate.MaxLen(poll.Question, maxPollQuestion) {
		return ErrBadAttachment
	}
	if len(poll.Options) < minPollOptions || len(poll.Options) > maxPollOptions {
		return ErrBadAttachment
	}
	for _, option := range poll.Options {
		if !validate.Required(option) || !validate.MaxLen(option, maxPollOption) {
			return ErrBadAttachment
		}
	}
	return nil
}

func validateQuote(quote *model.QuoteAttachment) error {
	if !validate.Required(quote.Text) || !validate.MaxLen(quote.Text, maxQuoteLen) {
		return ErrBadAttachment
	}
	return nil
}

func validateLink(link *model.LinkAttachment) error {
	if !validate.HTTPURL(link.URL) {
		return ErrBadAttachment
	}
	return nil
}

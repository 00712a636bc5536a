package poems

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wordstackio/backend/internal/domain/model"
	"github.com/wordstackio/backend/internal/pkg/validate"
	pgrepo "github.com/wordstackio/backend/internal/repo/postgres"
)

const (
	maxTitleLen = 200
	maxBodyLen  = 20000
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("poem not found")
)

type Store interface {
	Create(ctx context.Context, poem model.Poem) (model.Poem, error)
	FindByID(ctx context.Context, poemID int64) (model.Poem, error)
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]model.Poem, error)
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
	Title string
	Body  string
}

func (s *Service) Publish(ctx context.Context, authorID int64, in PublishInput) (model.Poem, error) {
	if authorID <= 0 {
		return model.Poem{}, ErrValidation
	}
	if s.store == nil {
		return model.Poem{}, fmt.Errorf("poem store is nil")
	}

	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	if !validate.Required(title) || !validate.Required(body) {
		return model.Poem{}, ErrValidation
	}
	if !validate.MaxLen(title, maxTitleLen) || !validate.MaxLen(body, maxBodyLen) {
		return model.Poem{}, ErrValidation
	}

	return s.store.Create(ctx, model.Poem{
		AuthorID: authorID,
		Title:    title,
		Body:     body,
	})
}

func (s *Service) Get(ctx context.Context, poemID int64) (model.Poem, error) {
	if poemID <= 0 {
		return model.Poem{}, ErrValidation
	}
	if s.store == nil {
		return model.Poem{}, fmt.Errorf("poem store is nil")
	}

	poem, err := s.store.FindByID(ctx, poemID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPoemNotFound) {
			return model.Poem{}, ErrNotFound
		}
		return model.Poem{}, err
	}
	return poem, nil
}

func (s *Service) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]model.Poem, error) {
	if authorID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("poem store is nil")
	}
	return s.store.ListByAuthor(ctx, authorID, limit)
}

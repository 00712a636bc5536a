package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wordstackio/backend/internal/domain/enums"
	"github.com/wordstackio/backend/internal/domain/model"
	"github.com/wordstackio/backend/internal/domain/rules"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50

	// How many recent items of each kind feed the ranking pass. Large
	// enough that a page never runs dry after dedupe and filtering.
	candidatePoolSize = 200
)

var (
	ErrValidation = errors.New("validation error")
	ErrBadMode    = errors.New("unknown feed mode")
)

type PoemStore interface {
	ListRecent(ctx context.Context, limit int) ([]model.Poem, error)
}

type PostStore interface {
	ListRecent(ctx context.Context, limit int) ([]model.CommunityPost, error)
}

type FollowStore interface {
	Set(ctx context.Context, followerID int64) (map[int64]struct{}, error)
}

type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

type Query struct {
	Mode   string
	Limit  int
	Offset int
}

type Result struct {
	Mode    enums.FeedMode
	Entries []model.FeedEntry
	HasMore bool
}

type Service struct {
	poems   PoemStore
	posts   PostStore
	follows FollowStore
	cfg     Config
	now     func() time.Time
}

func NewService(poems PoemStore, posts PostStore, follows FollowStore, cfg Config) *Service {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = defaultPageSize
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = maxPageSize
	}

	return &Service{
		poems:   poems,
		posts:   posts,
		follows: follows,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Get unions recent poems and community posts, ranks them in the requested
// mode, and pages through the ranked list.
func (s *Service) Get(ctx context.Context, viewerID int64, q Query) (Result, error) {
	if s.poems == nil || s.posts == nil {
		return Result{}, fmt.Errorf("feed dependencies are not configured")
	}

	mode, ok := enums.ParseFeedMode(q.Mode)
	if !ok {
		return Result{}, ErrBadMode
	}

	limit := q.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	var follows map[int64]struct{}
	if mode == enums.FeedModeFollowing {
		if viewerID <= 0 {
			return Result{}, ErrValidation
		}
		if s.follows == nil {
			return Result{}, fmt.Errorf("feed dependencies are not configured")
		}
		set, err := s.follows.Set(ctx, viewerID)
		if err != nil {
			return Result{}, fmt.Errorf("load follow set: %w", err)
		}
		follows = set
	}

	poems, err := s.poems.ListRecent(ctx, candidatePoolSize)
	if err != nil {
		return Result{}, fmt.Errorf("list recent poems: %w", err)
	}
	posts, err := s.posts.ListRecent(ctx, candidatePoolSize)
	if err != nil {
		return Result{}, fmt.Errorf("list recent posts: %w", err)
	}

	entries := make([]model.FeedEntry, 0, len(poems)+len(posts))
	for _, poem := range poems {
		entries = append(entries, model.FeedEntry{
			Kind:      enums.ContentKindPoem,
			ID:        poem.ID,
			AuthorID:  poem.AuthorID,
			Title:     poem.Title,
			Body:      poem.Body,
			Supports:  poem.InkReceived,
			CreatedAt: poem.CreatedAt,
			UpdatedAt: poem.UpdatedAt,
		})
	}
	for _, post := range posts {
		entries = append(entries, model.FeedEntry{
			Kind:      enums.ContentKindPost,
			ID:        post.ID,
			AuthorID:  post.AuthorID,
			Body:      post.Body,
			Supports:  post.LikesCount,
			CreatedAt: post.CreatedAt,
			UpdatedAt: post.UpdatedAt,
		})
	}

	ranked := rules.Rank(entries, mode, follows)

	if offset >= len(ranked) {
		return Result{Mode: mode, Entries: []model.FeedEntry{}}, nil
	}

	end := offset + limit
	if end > len(ranked) {
		end = len(ranked)
	}

	return Result{
		Mode:    mode,
		Entries: ranked[offset:end],
		HasMore: end < len(ranked),
	}, nil
}

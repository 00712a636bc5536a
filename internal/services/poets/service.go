package poets

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
	maxPenNameLen = 80
	maxBioLen     = 1000
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("poet not found")
	ErrSelfFollow = errors.New("cannot follow yourself")
)

type UserStore interface {
	FindByID(ctx context.Context, userID int64) (model.User, error)
	UpdateProfile(ctx context.Context, userID int64, penName, bio, timezone string) error
}

type FollowStore interface {
	Follow(ctx context.Context, followerID, poetID int64) error
	Unfollow(ctx context.Context, followerID, poetID int64) error
	Set(ctx context.Context, followerID int64) (map[int64]struct{}, error)
	FollowerCount(ctx context.Context, poetID int64) (int, error)
}

type SupportStore interface {
	TotalForPoet(ctx context.Context, poetID int64) (int, error)
}

// Profile is the public view of a poet: pen name and bio plus the counters
// readers care about.
type Profile struct {
	ID               int64
	PenName          string
	Bio              string
	Followers        int
	TotalInkReceived int
	JoinedAt         time.Time
}

type Service struct {
	users    UserStore
	follows  FollowStore
	supports SupportStore
}

func NewService(users UserStore, follows FollowStore, supports SupportStore) *Service {
	return &Service{
		users:    users,
		follows:  follows,
		supports: supports,
	}
}

func (s *Service) GetProfile(ctx context.Context, poetID int64) (Profile, error) {
	if poetID <= 0 {
		return Profile{}, ErrValidation
	}
	if s.users == nil || s.follows == nil || s.supports == nil {
		return Profile{}, fmt.Errorf("poet dependencies are not configured")
	}

	user, err := s.users.FindByID(ctx, poetID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}

	followers, err := s.follows.FollowerCount(ctx, poetID)
	if err != nil {
		return Profile{}, fmt.Errorf("count followers: %w", err)
	}
	totalInk, err := s.supports.TotalForPoet(ctx, poetID)
	if err != nil {
		return Profile{}, fmt.Errorf("sum poet ink: %w", err)
	}

	return Profile{
		ID:               user.ID,
		PenName:          user.PenName,
		Bio:              user.Bio,
		Followers:        followers,
		TotalInkReceived: totalInk,
		JoinedAt:         user.CreatedAt,
	}, nil
}

type UpdateProfileInput struct {
	PenName  string
	Bio      string
	Timezone string
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) error {
	if userID <= 0 {
		return ErrValidation
	}
	if s.users == nil {
		return fmt.Errorf("poet dependencies are not configured")
	}

	penName := strings.TrimSpace(in.PenName)
	if !validate.Required(penName) || !validate.MaxLen(penName, maxPenNameLen) {
		return ErrValidation
	}
	if !validate.MaxLen(in.Bio, maxBioLen) {
		return ErrValidation
	}
	timezone := strings.TrimSpace(in.Timezone)
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return ErrValidation
		}
	}

	if err := s.users.UpdateProfile(ctx, userID, penName, strings.TrimSpace(in.Bio), timezone); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) Follow(ctx context.Context, followerID, poetID int64) error {
	if followerID <= 0 || poetID <= 0 {
		return ErrValidation
	}
	if followerID == poetID {
		return ErrSelfFollow
	}
	if s.users == nil || s.follows == nil {
		return fmt.Errorf("poet dependencies are not configured")
	}

	if _, err := s.users.FindByID(ctx, poetID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.follows.Follow(ctx, followerID, poetID)
}

func (s *Service) Unfollow(ctx context.Context, followerID, poetID int64) error {
	if followerID <= 0 || poetID <= 0 {
		return ErrValidation
	}
	if s.follows == nil {
		return fmt.Errorf("poet dependencies are not configured")
	}
	return s.follows.Unfollow(ctx, followerID, poetID)
}

func (s *Service) Following(ctx context.Context, followerID int64) ([]int64, error) {
	if followerID <= 0 {
		return nil, ErrValidation
	}
	if s.follows == nil {
		return nil, fmt.Errorf("poet dependencies are not configured")
	}

	set, err := s.follows.Set(ctx, followerID)
	if err != nil {
		return nil, fmt.Errorf("load follow set: %w", err)
	}

	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids, nil
}

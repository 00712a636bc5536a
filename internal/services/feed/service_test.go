package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wordstackio/backend/internal/domain/enums"
	"github.com/wordstackio/backend/internal/domain/model"
)

type poemStoreStub struct {
	poems []model.Poem
}

func (s poemStoreStub) ListRecent(context.Context, int) ([]model.Poem, error) {
	return s.poems, nil
}

type postStoreStub struct {
	posts []model.CommunityPost
}

func (s postStoreStub) ListRecent(context.Context, int) ([]model.CommunityPost, error) {
	return s.posts, nil
}

type followStoreStub struct {
	set map[int64]struct{}
}

func (s followStoreStub) Set(context.Context, int64) (map[int64]struct{}, error) {
	return s.set, nil
}

func feedFixture() *Service {
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	poems := []model.Poem{
		{ID: 1, AuthorID: 10, Title: "Dawn", InkReceived: 50, CreatedAt: base.Add(-3 * time.Hour), UpdatedAt: base.Add(-3 * time.Hour)},
		{ID: 2, AuthorID: 11, Title: "Dusk", InkReceived: 5, CreatedAt: base.Add(-1 * time.Hour), UpdatedAt: base.Add(-1 * time.Hour)},
	}
	posts := []model.CommunityPost{
		{ID: 3, AuthorID: 12, Body: "open mic friday", LikesCount: 80, CreatedAt: base.Add(-2 * time.Hour), UpdatedAt: base.Add(-2 * time.Hour)},
	}
	follows := map[int64]struct{}{11: {}}

	return NewService(poemStoreStub{poems}, postStoreStub{posts}, followStoreStub{follows}, Config{})
}

func TestFeedRecencyIsDefault(t *testing.T) {
	svc := feedFixture()

	res, err := svc.Get(context.Background(), 1, Query{})
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if res.Mode != enums.FeedModeRecency {
		t.Fatalf("default mode should be recency, got %q", res.Mode)
	}
	if got := idsOf(res.Entries); !equalIDs(got, []int64{2, 3, 1}) {
		t.Fatalf("recency order wrong: %v", got)
	}
}

func TestFeedPopularityOrder(t *testing.T) {
	svc := feedFixture()

	res, err := svc.Get(context.Background(), 1, Query{Mode: "popularity"})
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if got := idsOf(res.Entries); !equalIDs(got, []int64{3, 1, 2}) {
		t.Fatalf("popularity order wrong: %v", got)
	}
}

func TestFeedFollowingFilters(t *testing.T) {
	svc := feedFixture()

	res, err := svc.Get(context.Background(), 1, Query{Mode: "following"})
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if got := idsOf(res.Entries); !equalIDs(got, []int64{2}) {
		t.Fatalf("following feed wrong: %v", got)
	}

	if _, err := svc.Get(context.Background(), 0, Query{Mode: "following"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("following without a viewer should fail validation, got err=%v", err)
	}
}

func TestFeedRejectsUnknownMode(t *testing.T) {
	svc := feedFixture()

	if _, err := svc.Get(context.Background(), 1, Query{Mode: "trending"}); !errors.Is(err, ErrBadMode) {
		t.Fatalf("unknown mode should be rejected, got err=%v", err)
	}
}

func TestFeedPaging(t *testing.T) {
	svc := feedFixture()

	first, err := svc.Get(context.Background(), 1, Query{Limit: 2})
	if err != nil {
		t.Fatalf("get page 1: %v", err)
	}
	if len(first.Entries) != 2 || !first.HasMore {
		t.Fatalf("unexpected first page: len=%d has_more=%v", len(first.Entries), first.HasMore)
	}

	second, err := svc.Get(context.Background(), 1, Query{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("get page 2: %v", err)
	}
	if len(second.Entries) != 1 || second.HasMore {
		t.Fatalf("unexpected second page: len=%d has_more=%v", len(second.Entries), second.HasMore)
	}

	empty, err := svc.Get(context.Background(), 1, Query{Offset: 100})
	if err != nil {
		t.Fatalf("get past the end: %v", err)
	}
	if len(empty.Entries) != 0 || empty.HasMore {
		t.Fatalf("page past the end should be empty: len=%d has_more=%v", len(empty.Entries), empty.HasMore)
	}
}

func idsOf(entries []model.FeedEntry) []int64 {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package rules

import (
	"testing"
	"time"

	"github.com/wordstackio/backend/internal/domain/enums"
	"github.com/wordstackio/backend/internal/domain/model"
)

func TestRankPopularityDedupesAndOrders(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	entries := []model.FeedEntry{
		{Kind: enums.ContentKindPoem, ID: 1, Supports: 3, CreatedAt: t1, UpdatedAt: t1},
		{Kind: enums.ContentKindPoem, ID: 2, Supports: 5, CreatedAt: t2, UpdatedAt: t2},
		{Kind: enums.ContentKindPoem, ID: 1, Supports: 3, CreatedAt: t1, UpdatedAt: t1},
	}

	out := Rank(entries, enums.FeedModePopularity, nil)
	if len(out) != 2 {
		t.Fatalf("expected duplicate collapsed to 2 items, got %d", len(out))
	}
	if out[0].ID != 2 || out[1].ID != 1 {
		t.Fatalf("unexpected order: got [%d %d] want [2 1]", out[0].ID, out[1].ID)
	}
}

func TestRankDedupePrefersMostRecentlyUpdated(t *testing.T) {
	old := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fresh := old.Add(time.Hour)

	entries := []model.FeedEntry{
		{Kind: enums.ContentKindPoem, ID: 1, Body: "stale", Supports: 2, CreatedAt: old, UpdatedAt: old},
		{Kind: enums.ContentKindPoem, ID: 1, Body: "edited", Supports: 4, CreatedAt: old, UpdatedAt: fresh},
	}

	out := Rank(entries, enums.FeedModeRecency, nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 item, got %d", len(out))
	}
	if out[0].Body != "edited" || out[0].Supports != 4 {
		t.Fatalf("expected the fresher copy to win, got %+v", out[0])
	}
}

func TestRankDoesNotCollapseSameIDAcrossKinds(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []model.FeedEntry{
		{Kind: enums.ContentKindPoem, ID: 9, CreatedAt: now, UpdatedAt: now},
		{Kind: enums.ContentKindPost, ID: 9, CreatedAt: now.Add(time.Minute), UpdatedAt: now},
	}

	out := Rank(entries, enums.FeedModeRecency, nil)
	if len(out) != 2 {
		t.Fatalf("poem 9 and post 9 are distinct items, got %d", len(out))
	}
}

func TestRankPopularityTieBreaksByNewest(t *testing.T) {
	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(2 * time.Hour)

	entries := []model.FeedEntry{
		{Kind: enums.ContentKindPoem, ID: 1, Supports: 4, CreatedAt: older},
		{Kind: enums.ContentKindPoem, ID: 2, Supports: 4, CreatedAt: newer},
	}

	out := Rank(entries, enums.FeedModePopularity, nil)
	if out[0].ID != 2 {
		t.Fatalf("equal supports must order newest first, got id %d", out[0].ID)
	}
}

func TestRankFollowingFiltersToFollowedAuthors(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []model.FeedEntry{
		{Kind: enums.ContentKindPoem, ID: 1, AuthorID: 10, CreatedAt: now},
		{Kind: enums.ContentKindPoem, ID: 2, AuthorID: 20, CreatedAt: now.Add(time.Hour)},
		{Kind: enums.ContentKindPost, ID: 3, AuthorID: 10, CreatedAt: now.Add(2 * time.Hour)},
	}
	follows := map[int64]struct{}{10: {}}

	out := Rank(entries, enums.FeedModeFollowing, follows)
	if len(out) != 2 {
		t.Fatalf("expected 2 followed items, got %d", len(out))
	}
	if out[0].ID != 3 || out[1].ID != 1 {
		t.Fatalf("unexpected order: [%d %d]", out[0].ID, out[1].ID)
	}
}

func TestRankEmptyInputsNeverPanic(t *testing.T) {
	if out := Rank(nil, enums.FeedModeFollowing, nil); len(out) != 0 {
		t.Fatalf("nil corpus must rank to empty, got %d items", len(out))
	}
	if out := Rank([]model.FeedEntry{}, enums.FeedModePopularity, map[int64]struct{}{}); len(out) != 0 {
		t.Fatalf("empty corpus must rank to empty, got %d items", len(out))
	}
}

func TestRankIsStableForEqualKeys(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []model.FeedEntry{
		{Kind: enums.ContentKindPoem, ID: 1, Supports: 2, CreatedAt: at},
		{Kind: enums.ContentKindPoem, ID: 2, Supports: 2, CreatedAt: at},
		{Kind: enums.ContentKindPoem, ID: 3, Supports: 2, CreatedAt: at},
	}

	out := Rank(entries, enums.FeedModePopularity, nil)
	for i, want := range []int64{1, 2, 3} {
		if out[i].ID != want {
			t.Fatalf("ties must preserve input order, got %d at %d", out[i].ID, i)
		}
	}
}

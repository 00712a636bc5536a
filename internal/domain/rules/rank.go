package rules

import (
	"sort"

	"github.com/wordstackio/backend/internal/domain/enums"
	"github.com/wordstackio/backend/internal/domain/model"
)

type contentKey struct {
	kind enums.ContentKind
	id   int64
}

// Rank orders a content corpus for one feed view. The input may union several
// source collections; entries sharing a (kind, id) are collapsed to the most
// recently updated copy before sorting. All sorts are stable so repeated
// renders do not reshuffle ties.
func Rank(entries []model.FeedEntry, mode enums.FeedMode, follows map[int64]struct{}) []model.FeedEntry {
	out := dedupe(entries)

	switch mode {
	case enums.FeedModePopularity:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Supports != out[j].Supports {
				return out[i].Supports > out[j].Supports
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	case enums.FeedModeFollowing:
		filtered := out[:0]
		for _, e := range out {
			if _, ok := follows[e.AuthorID]; ok {
				filtered = append(filtered, e)
			}
		}
		out = filtered
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default: // recency
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	return out
}

func dedupe(entries []model.FeedEntry) []model.FeedEntry {
	out := make([]model.FeedEntry, 0, len(entries))
	seen := make(map[contentKey]int, len(entries))

	for _, e := range entries {
		key := contentKey{kind: e.Kind, id: e.ID}
		if idx, ok := seen[key]; ok {
			if e.UpdatedAt.After(out[idx].UpdatedAt) {
				out[idx] = e
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, e)
	}

	return out
}

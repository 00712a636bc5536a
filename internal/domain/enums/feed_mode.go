package enums

import "strings"

type FeedMode string

const (
	FeedModePopularity FeedMode = "popularity"
	FeedModeFollowing  FeedMode = "following"
	FeedModeRecency    FeedMode = "recency"
)

func ParseFeedMode(raw string) (FeedMode, bool) {
	switch FeedMode(strings.ToLower(strings.TrimSpace(raw))) {
	case FeedModePopularity:
		return FeedModePopularity, true
	case FeedModeFollowing:
		return FeedModeFollowing, true
	case FeedModeRecency, "":
		return FeedModeRecency, true
	default:
		return "", false
	}
}

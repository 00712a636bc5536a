package model

import (
	"time"

	"github.com/wordstackio/backend/internal/domain/enums"
)

// FeedEntry is the ranking view of one content item, poem or community post.
// Supports carries ink_received for poems and likes_count for posts.
type FeedEntry struct {
	Kind      enums.ContentKind `json:"kind"`
	ID        int64             `json:"id"`
	AuthorID  int64             `json:"author_id"`
	Title     string            `json:"title,omitempty"`
	Body      string            `json:"body"`
	Supports  int               `json:"supports"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

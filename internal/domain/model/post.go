package model

import (
	"time"

	"github.com/wordstackio/backend/internal/domain/enums"
)

type CommunityPost struct {
	ID         int64       `json:"id"`
	AuthorID   int64       `json:"author_id"`
	Body       string      `json:"body"`
	LikesCount int         `json:"likes_count"`
	Attachment *Attachment `json:"attachment,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Attachment is a tagged variant: exactly one of the payload pointers is set,
// matching Kind. Validated before it ever reaches storage or ranking.
type Attachment struct {
	Kind  enums.AttachmentKind `json:"kind"`
	Poll  *PollAttachment      `json:"poll,omitempty"`
	Quote *QuoteAttachment     `json:"quote,omitempty"`
	Link  *LinkAttachment      `json:"link,omitempty"`
}

type PollAttachment struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type QuoteAttachment struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

type LinkAttachment struct {
	URL string `json:"url"`
}

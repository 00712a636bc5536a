package dto

import "time"

type AttachmentPayload struct {
	Kind  string        `json:"kind"`
	Poll  *PollPayload  `json:"poll,omitempty"`
	Quote *QuotePayload `json:"quote,omitempty"`
	Link  *LinkPayload  `json:"link,omitempty"`
}

type PollPayload struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type QuotePayload struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

type LinkPayload struct {
	URL string `json:"url"`
}

type PublishPostRequest struct {
	Body       string             `json:"body"`
	Attachment *AttachmentPayload `json:"attachment,omitempty"`
}

type PostResponse struct {
	ID         int64              `json:"id"`
	AuthorID   int64              `json:"author_id"`
	Body       string             `json:"body"`
	LikesCount int                `json:"likes_count"`
	Attachment *AttachmentPayload `json:"attachment,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

package dto

import "time"

type FeedEntryResponse struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body"`
	Supports  int       `json:"supports"`
	CreatedAt time.Time `json:"created_at"`
}

type FeedResponse struct {
	Mode    string              `json:"mode"`
	Entries []FeedEntryResponse `json:"entries"`
	HasMore bool                `json:"has_more"`
}

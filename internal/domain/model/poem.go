package model

import "time"

type Poem struct {
	ID          int64     `json:"id"`
	AuthorID    int64     `json:"author_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	InkReceived int       `json:"ink_received"`
	ClapsCount  int       `json:"claps_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package dto

import "time"

type PoetProfileResponse struct {
	ID               int64     `json:"id"`
	PenName          string    `json:"pen_name"`
	Bio              string    `json:"bio,omitempty"`
	Followers        int       `json:"followers"`
	TotalInkReceived int       `json:"total_ink_received"`
	JoinedAt         time.Time `json:"joined_at"`
}

type UpdateProfileRequest struct {
	PenName  string `json:"pen_name"`
	Bio      string `json:"bio"`
	Timezone string `json:"timezone"`
}

type FollowResponse struct {
	OK bool `json:"ok"`
}

type FollowingResponse struct {
	PoetIDs []int64 `json:"poet_ids"`
}

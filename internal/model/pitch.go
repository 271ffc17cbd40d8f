package model

import "time"

// Pitch is a user-authored project proposal, the primary content entity.
//
// LookingFor is a set of free-form values ("developer", "investor", ...).
// It lives in its own join table rather than a delimiter-joined column.
type Pitch struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Body        string    `json:"body"`
	Category    string    `json:"category"`
	Tags        string    `json:"tags"`
	Image       string    `json:"image,omitempty"`
	FundingGoal string    `json:"fundingGoal"`
	Stage       string    `json:"stage"`
	TeamSize    string    `json:"teamSize"`
	Location    string    `json:"location"`
	Website     string    `json:"website"`
	DemoURL     string    `json:"demoUrl"`
	LookingFor  []string  `json:"lookingFor"`
	AuthorID    int64     `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PitchView is a pitch as shown to a specific viewer: live counts plus
// whether the viewer has liked it. Counts are aggregated at read time.
type PitchView struct {
	Pitch
	LikeCount    int  `json:"likeCount"`
	CommentCount int  `json:"commentCount"`
	LikedByMe    bool `json:"likedByMe"`
}

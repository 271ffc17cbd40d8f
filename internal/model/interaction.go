package model

import "time"

// LikeResult is returned by a like toggle. LikeCount is always a fresh
// COUNT(*) over the likes table, never an incremented counter.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// Comment is a text reply attached to a pitch.
type Comment struct {
	ID         int64     `json:"id"`
	PitchID    int64     `json:"pitchId"`
	UserID     int64     `json:"userId"`
	AuthorName string    `json:"authorName"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

package model

import "time"

// NotificationType is extensible; these are the events the fan-out emits today.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationMessage NotificationType = "message"
)

// RelatedKind names the entity a notification deep-links to.
type RelatedKind string

const (
	RelatedPitch   RelatedKind = "pitch"
	RelatedUser    RelatedKind = "user"
	RelatedMessage RelatedKind = "message"
)

// Notification is a derived event targeted at one user. RelatedID and
// RelatedType are optional (nil / "") and stored as NULL when absent.
type Notification struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"userId"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Body        string           `json:"body"`
	RelatedID   *int64           `json:"relatedId,omitempty"`
	RelatedType RelatedKind      `json:"relatedType,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// UnreadCounts is the per-request read model shown in the site header.
type UnreadCounts struct {
	Messages      int `json:"messages"`
	Notifications int `json:"notifications"`
}

// Stats holds site-wide totals for the admin dashboard.
type Stats struct {
	Users         int `json:"users"`
	Pitches       int `json:"pitches"`
	Likes         int `json:"likes"`
	Comments      int `json:"comments"`
	Messages      int `json:"messages"`
	Notifications int `json:"notifications"`
}

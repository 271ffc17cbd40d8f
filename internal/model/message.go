package model

import "time"

// Message is a directed edge between two users. Only the receiver may flip
// Read, and only from false to true.
type Message struct {
	ID           int64     `json:"id"`
	SenderID     int64     `json:"senderId"`
	SenderName   string    `json:"senderName"`
	ReceiverID   int64     `json:"receiverId"`
	ReceiverName string    `json:"receiverName"`
	Subject      string    `json:"subject,omitempty"`
	Body         string    `json:"body"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Mailbox is the two directional views over the messages a user takes part in.
// Both slices are ordered newest first.
type Mailbox struct {
	Received []Message `json:"received"`
	Sent     []Message `json:"sent"`
}

package model

import "time"

// Message is one chat message between two users. Rows are the durable
// record of all communication; only IsRead is ever mutated.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"senderId"`
	ReceiverID int64     `json:"receiverId"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"isRead"`
	SentAt     time.Time `json:"sentAt"`
}

// NewMessage is the insert shape for a message; id and sentAt are
// assigned by the store.
type NewMessage struct {
	SenderID   int64  `json:"senderId"`
	ReceiverID int64  `json:"receiverId"`
	Content    string `json:"content"`
}

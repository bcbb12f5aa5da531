package model

// Conversation is the derived view of all messages between the current
// user and one counterpart. It is recomputed on every fetch and never
// persisted.
type Conversation struct {
	CounterpartID int64     `json:"counterpartId"`
	Messages      []Message `json:"messages"`    // transcript, sentAt ascending
	LastMessage   Message   `json:"lastMessage"` // preview line
	UnreadCount   int       `json:"unreadCount"` // incoming, isRead=false
}

// ConversationSummary is the contact-list entry: the preview without
// the full transcript.
type ConversationSummary struct {
	CounterpartID int64   `json:"counterpartId"`
	LastMessage   Message `json:"lastMessage"`
	UnreadCount   int     `json:"unreadCount"`
}

func (c Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		CounterpartID: c.CounterpartID,
		LastMessage:   c.LastMessage,
		UnreadCount:   c.UnreadCount,
	}
}

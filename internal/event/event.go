package event

import (
	"encoding/json"
	"errors"

	"wanderwise/internal/model"
)

// Wire event types. The "type" field discriminates every frame in both
// directions.
const (
	// client to server
	TypeAuth    = "auth"
	TypeMessage = "message"

	// server to client
	TypeAuthSuccess = "auth_success"
	TypeMessageSent = "message_sent"
	TypeNewMessage  = "new_message"
	TypeError       = "error"
)

var (
	ErrMalformed   = errors.New("malformed event payload")
	ErrUnknownType = errors.New("unknown event type")
)

// Inbound is any client-to-server event.
type Inbound interface {
	inbound()
}

// Auth must be the first event a channel sends; until accepted the
// channel is inert.
type Auth struct {
	UserID int64 `json:"userId"`
}

// ChatMessage asks the hub to relay one message.
type ChatMessage struct {
	SenderID   int64  `json:"senderId"`
	ReceiverID int64  `json:"receiverId"`
	Content    string `json:"content"`
}

func (Auth) inbound()        {}
func (ChatMessage) inbound() {}

// envelope carries the discriminator plus the union of all inbound
// fields; Decode narrows it to a concrete variant.
type envelope struct {
	Type       string `json:"type"`
	UserID     int64  `json:"userId"`
	SenderID   int64  `json:"senderId"`
	ReceiverID int64  `json:"receiverId"`
	Content    string `json:"content"`
}

// Decode parses a raw frame into its typed variant. Unknown types and
// invalid JSON are reported as errors, never as zero-valued events.
func Decode(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrMalformed
	}

	switch env.Type {
	case TypeAuth:
		return Auth{UserID: env.UserID}, nil
	case TypeMessage:
		return ChatMessage{
			SenderID:   env.SenderID,
			ReceiverID: env.ReceiverID,
			Content:    env.Content,
		}, nil
	default:
		return nil, ErrUnknownType
	}
}

// Outbound is any server-to-client frame. All constructors below set
// the discriminator so handlers never build frames by hand.
type Outbound struct {
	Type      string         `json:"type"`
	Message   string         `json:"message,omitempty"`
	MessageID int64          `json:"messageId,omitempty"`
	Payload   *model.Message `json:"-"`
}

// MarshalJSON inlines the relayed message under the "message" key for
// new_message frames, matching the wire contract where "message" is a
// string on error frames and an object on new_message frames.
func (o Outbound) MarshalJSON() ([]byte, error) {
	if o.Type == TypeNewMessage {
		return json.Marshal(struct {
			Type    string         `json:"type"`
			Message *model.Message `json:"message"`
		}{Type: o.Type, Message: o.Payload})
	}

	type alias struct {
		Type      string `json:"type"`
		Message   string `json:"message,omitempty"`
		MessageID int64  `json:"messageId,omitempty"`
	}
	return json.Marshal(alias{Type: o.Type, Message: o.Message, MessageID: o.MessageID})
}

func AuthSuccess() Outbound {
	return Outbound{Type: TypeAuthSuccess, Message: "Authentication successful"}
}

func MessageSent(id int64) Outbound {
	return Outbound{Type: TypeMessageSent, MessageID: id}
}

func NewMessage(msg *model.Message) Outbound {
	return Outbound{Type: TypeNewMessage, Payload: msg}
}

func Error(msg string) Outbound {
	return Outbound{Type: TypeError, Message: msg}
}

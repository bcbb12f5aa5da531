package event

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"wanderwise/internal/model"
)

func TestDecodeAuth(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"auth","userId":42}`))
	if err != nil {
		t.Fatal(err)
	}
	auth, ok := ev.(Auth)
	if !ok {
		t.Fatalf("expected Auth, got %T", ev)
	}
	if auth.UserID != 42 {
		t.Fatalf("expected userId 42, got %d", auth.UserID)
	}
}

func TestDecodeChatMessage(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"message","senderId":1,"receiverId":2,"content":"hi"}`))
	if err != nil {
		t.Fatal(err)
	}
	msg, ok := ev.(ChatMessage)
	if !ok {
		t.Fatalf("expected ChatMessage, got %T", ev)
	}
	if msg.SenderID != 1 || msg.ReceiverID != 2 || msg.Content != "hi" {
		t.Fatalf("unexpected fields: %+v", msg)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"subscribe"}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{`{`, `not json`, `[1,2,3`} {
		if _, err := Decode([]byte(raw)); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q): expected ErrMalformed, got %v", raw, err)
		}
	}
}

func TestDecodeMissingType(t *testing.T) {
	_, err := Decode([]byte(`{"senderId":1,"receiverId":2,"content":"hi"}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestMarshalErrorFrame(t *testing.T) {
	data, err := json.Marshal(Error("boom"))
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["type"] != "error" || got["message"] != "boom" {
		t.Fatalf("unexpected frame: %s", data)
	}
	if _, present := got["messageId"]; present {
		t.Fatalf("error frame should omit messageId: %s", data)
	}
}

func TestMarshalMessageSentFrame(t *testing.T) {
	data, err := json.Marshal(MessageSent(7))
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Type      string `json:"type"`
		MessageID int64  `json:"messageId"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != TypeMessageSent || got.MessageID != 7 {
		t.Fatalf("unexpected frame: %s", data)
	}
}

func TestMarshalNewMessageFrame(t *testing.T) {
	sent := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(NewMessage(&model.Message{
		ID:         9,
		SenderID:   1,
		ReceiverID: 2,
		Content:    "hello",
		SentAt:     sent,
	}))
	if err != nil {
		t.Fatal(err)
	}

	// "message" must be an object here, not a string.
	var got struct {
		Type    string        `json:"type"`
		Message model.Message `json:"message"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("new_message payload not an object: %s", data)
	}
	if got.Type != TypeNewMessage {
		t.Fatalf("expected type new_message, got %q", got.Type)
	}
	if got.Message.ID != 9 || got.Message.Content != "hello" || !got.Message.SentAt.Equal(sent) {
		t.Fatalf("unexpected payload: %+v", got.Message)
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"wanderwise/internal/model"
)

func msg(id, sender, receiver int64, content string, sentAt time.Time, read bool) model.Message {
	return model.Message{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
		SentAt:     sentAt,
		IsRead:     read,
	}
}

func TestBuildConversationsPartitioning(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	msgs := []model.Message{
		msg(1, 1, 2, "to bob", base, true),
		msg(2, 3, 1, "from carol", base.Add(time.Minute), false),
		msg(3, 2, 1, "from bob", base.Add(2*time.Minute), false),
	}

	convs := BuildConversations(1, msgs)
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}

	// Bob's conversation has the latest activity, so it sorts first.
	if convs[0].CounterpartID != 2 {
		t.Fatalf("expected counterpart 2 first, got %d", convs[0].CounterpartID)
	}
	if convs[1].CounterpartID != 3 {
		t.Fatalf("expected counterpart 3 second, got %d", convs[1].CounterpartID)
	}
	if len(convs[0].Messages) != 2 {
		t.Fatalf("expected 2 messages with counterpart 2, got %d", len(convs[0].Messages))
	}
}

func TestBuildConversationsTranscriptOrder(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	msgs := []model.Message{
		msg(3, 2, 1, "third", base.Add(2*time.Hour), false),
		msg(1, 1, 2, "first", base, true),
		msg(2, 2, 1, "second", base.Add(time.Hour), true),
	}

	convs := BuildConversations(1, msgs)
	if len(convs) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(convs))
	}

	got := convs[0].Messages
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Content != want {
			t.Errorf("position %d: expected %q, got %q", i, want, got[i].Content)
		}
	}
	if convs[0].LastMessage.Content != "third" {
		t.Fatalf("expected preview 'third', got %q", convs[0].LastMessage.Content)
	}
}

func TestBuildConversationsZeroTimestampSortsEarliest(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	msgs := []model.Message{
		msg(5, 1, 2, "dated", base, true),
		msg(6, 2, 1, "undated", time.Time{}, true),
	}

	convs := BuildConversations(1, msgs)
	if convs[0].Messages[0].Content != "undated" {
		t.Fatalf("expected zero-timestamp message first, got %q", convs[0].Messages[0].Content)
	}
	if convs[0].LastMessage.Content != "dated" {
		t.Fatalf("expected dated message as preview, got %q", convs[0].LastMessage.Content)
	}
}

func TestBuildConversationsUnreadCount(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	msgs := []model.Message{
		msg(1, 2, 1, "unread a", base, false),
		msg(2, 2, 1, "unread b", base.Add(time.Minute), false),
		msg(3, 2, 1, "read", base.Add(2*time.Minute), true),
		// Outgoing unread messages never count against the viewer.
		msg(4, 1, 2, "mine", base.Add(3*time.Minute), false),
	}

	convs := BuildConversations(1, msgs)
	if convs[0].UnreadCount != 2 {
		t.Fatalf("expected 2 unread, got %d", convs[0].UnreadCount)
	}
}

func TestBuildConversationsListOrderIsRecencyDesc(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	msgs := []model.Message{
		msg(1, 1, 2, "old thread", base, true),
		msg(2, 1, 3, "middle thread", base.Add(time.Hour), true),
		msg(3, 4, 1, "new thread", base.Add(2*time.Hour), false),
	}

	convs := BuildConversations(1, msgs)
	var order []int64
	for _, c := range convs {
		order = append(order, c.CounterpartID)
	}
	want := []int64{4, 3, 2}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestBuildConversationsEmptyInput(t *testing.T) {
	convs := BuildConversations(1, nil)
	if len(convs) != 0 {
		t.Fatalf("expected no conversations, got %d", len(convs))
	}
}

// fakeMessageRepo backs the conversation service in tests.
type fakeMessageRepo struct {
	messages []model.Message
	marked   int
}

func (f *fakeMessageRepo) InsertMessage(ctx context.Context, m model.NewMessage) (*model.Message, error) {
	stored := model.Message{
		ID:         int64(len(f.messages) + 1),
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		SentAt:     time.Now(),
	}
	f.messages = append(f.messages, stored)
	return &stored, nil
}

func (f *fakeMessageRepo) GetMessagesByUserID(ctx context.Context, userID, counterpartID int64) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.messages {
		if m.SenderID != userID && m.ReceiverID != userID {
			continue
		}
		if counterpartID != 0 && m.SenderID != counterpartID && m.ReceiverID != counterpartID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkConversationRead(ctx context.Context, userID, counterpartID int64) (int64, error) {
	f.marked++
	var changed int64
	for i := range f.messages {
		m := &f.messages[i]
		if m.ReceiverID == userID && m.SenderID == counterpartID && !m.IsRead {
			m.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func TestMarkReadIsIdempotent(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := &fakeMessageRepo{messages: []model.Message{
		msg(1, 2, 1, "a", base, false),
		msg(2, 2, 1, "b", base.Add(time.Minute), false),
	}}
	svc := NewConversationService(repo, testLogger())

	ctx := context.Background()
	if err := svc.MarkRead(ctx, 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := svc.MarkRead(ctx, 1, 2); err != nil {
		t.Fatal(err)
	}

	convs, err := svc.ListConversations(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 1 || convs[0].UnreadCount != 0 {
		t.Fatalf("expected conversation with 0 unread, got %+v", convs)
	}
}

func TestGetTranscriptUnknownCounterpart(t *testing.T) {
	svc := NewConversationService(&fakeMessageRepo{}, testLogger())

	conv, err := svc.GetTranscript(context.Background(), 1, 99)
	if err != nil {
		t.Fatal(err)
	}
	if conv.CounterpartID != 99 || len(conv.Messages) != 0 {
		t.Fatalf("expected empty conversation for counterpart 99, got %+v", conv)
	}
}

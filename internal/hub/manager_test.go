package hub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wanderwise/internal/event"
	"wanderwise/internal/model"
)

type fakeStore struct {
	mu       sync.Mutex
	inserted []model.Message
	failNext bool
}

func (s *fakeStore) InsertMessage(ctx context.Context, msg model.NewMessage) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return nil, errors.New("store unavailable")
	}
	stored := model.Message{
		ID:         int64(len(s.inserted) + 1),
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
		SentAt:     time.Now(),
	}
	s.inserted = append(s.inserted, stored)
	return &stored, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inserted)
}

// newTestClient builds a client without a websocket connection. No
// pumps run, so frames accumulate in egress for inspection.
func newTestClient() *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		ID:         uuid.New().String(),
		egress:     make(chan event.Outbound, sendBufSize),
		ctx:        ctx,
		cancel:     cancel,
		connClosed: make(chan struct{}),
	}
}

func newTestHub(t *testing.T, store MessageStore) *Hub {
	t.Helper()
	h := NewHub(store, zap.NewNop(), nil)
	t.Cleanup(h.Stop)
	return h
}

func recvFrame(t *testing.T, c *Client) event.Outbound {
	t.Helper()
	select {
	case ev := <-c.egress:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return event.Outbound{}
	}
}

func expectNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case ev := <-c.egress:
		t.Fatalf("unexpected frame: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never met")
}

func authClient(t *testing.T, h *Hub, c *Client, userID int64) {
	t.Helper()
	h.handleAuth(event.Auth{UserID: userID}, c)
	waitFor(t, func() bool { return h.lookup(userID) == c })
	if ev := recvFrame(t, c); ev.Type != event.TypeAuthSuccess {
		t.Fatalf("expected auth_success, got %+v", ev)
	}
}

func TestAuthRegistersClient(t *testing.T) {
	h := newTestHub(t, &fakeStore{})
	c := newTestClient()

	authClient(t, h, c, 7)

	if !c.Authenticated() || c.UserID() != 7 {
		t.Fatalf("client not authenticated as 7: userID=%d", c.UserID())
	}
}

func TestAuthRejectsInvalidUserID(t *testing.T) {
	h := newTestHub(t, &fakeStore{})
	c := newTestClient()

	h.handleAuth(event.Auth{UserID: 0}, c)

	if ev := recvFrame(t, c); ev.Type != event.TypeError {
		t.Fatalf("expected error frame, got %+v", ev)
	}
	if c.Authenticated() {
		t.Fatal("client must not be authenticated")
	}
}

func TestRelayRequiresAuth(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(t, store)
	c := newTestClient()

	h.relay(event.ChatMessage{SenderID: 1, ReceiverID: 2, Content: "hi"}, c)

	if ev := recvFrame(t, c); ev.Type != event.TypeError {
		t.Fatalf("expected error frame, got %+v", ev)
	}
	if store.count() != 0 {
		t.Fatal("unauthenticated message must not be persisted")
	}
}

func TestRelayValidatesFields(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(t, store)
	sender := newTestClient()
	authClient(t, h, sender, 1)

	for _, ev := range []event.ChatMessage{
		{SenderID: 0, ReceiverID: 2, Content: "hi"},
		{SenderID: 1, ReceiverID: 0, Content: "hi"},
		{SenderID: 1, ReceiverID: 2, Content: ""},
	} {
		h.relay(ev, sender)
		if frame := recvFrame(t, sender); frame.Type != event.TypeError {
			t.Fatalf("expected error frame for %+v, got %+v", ev, frame)
		}
	}
	if store.count() != 0 {
		t.Fatal("invalid messages must not be persisted")
	}
}

func TestRelayDeliversToConnectedReceiver(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(t, store)
	sender := newTestClient()
	receiver := newTestClient()
	authClient(t, h, sender, 1)
	authClient(t, h, receiver, 2)

	h.relay(event.ChatMessage{SenderID: 1, ReceiverID: 2, Content: "hello"}, sender)

	push := recvFrame(t, receiver)
	if push.Type != event.TypeNewMessage {
		t.Fatalf("expected new_message, got %+v", push)
	}
	if push.Payload == nil || push.Payload.Content != "hello" || push.Payload.ID == 0 {
		t.Fatalf("unexpected payload: %+v", push.Payload)
	}
	expectNoFrame(t, receiver)

	ack := recvFrame(t, sender)
	if ack.Type != event.TypeMessageSent || ack.MessageID != push.Payload.ID {
		t.Fatalf("expected message_sent ack for id %d, got %+v", push.Payload.ID, ack)
	}

	if store.count() != 1 {
		t.Fatalf("expected 1 persisted message, got %d", store.count())
	}
}

func TestRelayDefersWhenReceiverAbsent(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(t, store)
	sender := newTestClient()
	authClient(t, h, sender, 1)

	h.relay(event.ChatMessage{SenderID: 1, ReceiverID: 99, Content: "later"}, sender)

	ack := recvFrame(t, sender)
	if ack.Type != event.TypeMessageSent {
		t.Fatalf("expected message_sent, got %+v", ack)
	}
	if store.count() != 1 {
		t.Fatalf("message must be persisted even without a receiver, got %d", store.count())
	}
}

func TestRelayDoesNotPushWhenPersistFails(t *testing.T) {
	store := &fakeStore{failNext: true}
	h := newTestHub(t, store)
	sender := newTestClient()
	receiver := newTestClient()
	authClient(t, h, sender, 1)
	authClient(t, h, receiver, 2)

	h.relay(event.ChatMessage{SenderID: 1, ReceiverID: 2, Content: "lost"}, sender)

	if ev := recvFrame(t, sender); ev.Type != event.TypeError {
		t.Fatalf("expected error frame, got %+v", ev)
	}
	expectNoFrame(t, receiver)
	if store.count() != 0 {
		t.Fatal("failed insert must leave no record")
	}
}

func TestLastRegistrationWins(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(t, store)
	first := newTestClient()
	second := newTestClient()
	sender := newTestClient()
	authClient(t, h, sender, 1)
	authClient(t, h, first, 2)

	// Re-register user 2 on a new connection.
	h.handleAuth(event.Auth{UserID: 2}, second)
	waitFor(t, func() bool { return h.lookup(2) == second })
	if ev := recvFrame(t, second); ev.Type != event.TypeAuthSuccess {
		t.Fatalf("expected auth_success, got %+v", ev)
	}

	// The superseded connection is closed.
	select {
	case <-first.ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("superseded client was never closed")
	}

	h.relay(event.ChatMessage{SenderID: 1, ReceiverID: 2, Content: "ping"}, sender)

	if push := recvFrame(t, second); push.Type != event.TypeNewMessage {
		t.Fatalf("expected new_message on new connection, got %+v", push)
	}
}

func TestSupersededCloseDoesNotEvictSuccessor(t *testing.T) {
	h := newTestHub(t, &fakeStore{})
	first := newTestClient()
	second := newTestClient()
	authClient(t, h, first, 5)

	h.handleAuth(event.Auth{UserID: 5}, second)
	waitFor(t, func() bool { return h.lookup(5) == second })

	// The old connection's read pump fails and unregisters it.
	h.unregister <- first
	waitFor(t, func() bool {
		select {
		case <-first.ctx.Done():
			return true
		default:
			return false
		}
	})

	if h.lookup(5) != second {
		t.Fatal("successor was evicted by the superseded client's unregister")
	}
}

func TestReauthenticatedClientLeavesNoStaleRegistrations(t *testing.T) {
	h := newTestHub(t, &fakeStore{})
	c := newTestClient()

	// The same channel authenticates as user 1, then again as user 2.
	authClient(t, h, c, 1)
	h.handleAuth(event.Auth{UserID: 2}, c)
	waitFor(t, func() bool { return h.lookup(2) == c })
	if ev := recvFrame(t, c); ev.Type != event.TypeAuthSuccess {
		t.Fatalf("expected auth_success, got %+v", ev)
	}

	h.unregister <- c
	waitFor(t, func() bool { return h.lookup(2) == nil })

	if stale := h.lookup(1); stale != nil {
		t.Fatalf("registry still holds closed client %s under the earlier user id", stale.ID)
	}
}

func TestHandleEventRejectsGarbage(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(t, store)
	c := newTestClient()

	h.handleEvent([]byte(`{{not json`), c)
	if ev := recvFrame(t, c); ev.Type != event.TypeError {
		t.Fatalf("expected error frame, got %+v", ev)
	}

	h.handleEvent([]byte(`{"type":"presence"}`), c)
	if ev := recvFrame(t, c); ev.Type != event.TypeError {
		t.Fatalf("expected error frame for unknown type, got %+v", ev)
	}
	if store.count() != 0 {
		t.Fatal("garbage frames must not reach the store")
	}
}

func TestHandleEventDispatch(t *testing.T) {
	store := &fakeStore{}
	h := newTestHub(t, store)
	c := newTestClient()

	h.handleEvent([]byte(`{"type":"auth","userId":3}`), c)
	waitFor(t, func() bool { return h.lookup(3) == c })
	if ev := recvFrame(t, c); ev.Type != event.TypeAuthSuccess {
		t.Fatalf("expected auth_success, got %+v", ev)
	}

	h.handleEvent([]byte(`{"type":"message","senderId":3,"receiverId":4,"content":"via wire"}`), c)
	if ev := recvFrame(t, c); ev.Type != event.TypeMessageSent {
		t.Fatalf("expected message_sent, got %+v", ev)
	}
	if store.count() != 1 {
		t.Fatalf("expected 1 persisted message, got %d", store.count())
	}
}

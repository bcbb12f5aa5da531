package hub

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"wanderwise/internal/event"
	"wanderwise/internal/metrics"
	"wanderwise/internal/model"
)

// MessageStore is the slice of the message repository the relay needs:
// the durable write that must precede any realtime push.
type MessageStore interface {
	InsertMessage(ctx context.Context, msg model.NewMessage) (*model.Message, error)
}

type registration struct {
	userID int64
	client *Client
}

// Hub owns the user-to-connection registry and relays chat messages.
// At most one client per user id is authoritative; a new registration
// supersedes and closes the old one.
type Hub struct {
	store  MessageStore
	logger *zap.Logger

	mu       sync.RWMutex
	registry map[int64]*Client

	register   chan registration
	unregister chan *Client

	allowedOrigins map[string]struct{}

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(store MessageStore, logger *zap.Logger, allowedOrigins []string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		store:          store,
		logger:         logger,
		registry:       make(map[int64]*Client),
		register:       make(chan registration, 256),
		unregister:     make(chan *Client, 256),
		allowedOrigins: make(map[string]struct{}, len(allowedOrigins)),
		ctx:            ctx,
		cancel:         cancel,
	}
	for _, origin := range allowedOrigins {
		h.allowedOrigins[origin] = struct{}{}
	}

	h.wg.Add(1)
	go h.run()

	return h
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.ctx.Done():
			return
		case reg := <-h.register:
			h.bind(reg.userID, reg.client)
		case c := <-h.unregister:
			h.removeClient(c)
		}
	}
}

// bind makes c the authoritative connection for userID. A superseded
// connection is closed, not silently abandoned.
func (h *Hub) bind(userID int64, c *Client) {
	h.mu.Lock()
	old := h.registry[userID]
	h.registry[userID] = c
	metrics.ConnectedClients.Set(float64(len(h.registry)))
	h.mu.Unlock()

	if old != nil && old != c {
		h.logger.Info("superseding existing connection",
			zap.Int64("user_id", userID),
			zap.String("old_client_id", old.ID),
			zap.String("client_id", c.ID),
		)
		old.Close()
	}

	h.logger.Info("client registered", zap.Int64("user_id", userID), zap.String("client_id", c.ID))
}

// removeClient drops every registry entry held by c. A channel that
// re-authenticated under a new user id can hold entries beyond its
// current one, so this scans rather than deleting by id. The identity
// check keeps a superseded connection's close from evicting its
// successor.
func (h *Hub) removeClient(c *Client) {
	userID := c.UserID()

	h.mu.Lock()
	for id, registered := range h.registry {
		if registered == c {
			delete(h.registry, id)
		}
	}
	metrics.ConnectedClients.Set(float64(len(h.registry)))
	h.mu.Unlock()

	c.Close()
	h.logger.Info("client removed", zap.Int64("user_id", userID), zap.String("client_id", c.ID))
}

func (h *Hub) lookup(userID int64) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.registry[userID]
}

// handleEvent processes one decoded frame from c. It runs on the
// client's read goroutine, so a single sender's messages are persisted
// and delivered in the order they arrive.
func (h *Hub) handleEvent(data []byte, c *Client) {
	ev, err := event.Decode(data)
	if err != nil {
		h.logger.Debug("rejecting frame", zap.String("client_id", c.ID), zap.Error(err))
		c.SafeSend(event.Error("Invalid message format"), sendTimeout)
		return
	}

	switch ev := ev.(type) {
	case event.Auth:
		h.handleAuth(ev, c)
	case event.ChatMessage:
		h.relay(ev, c)
	}
}

func (h *Hub) handleAuth(ev event.Auth, c *Client) {
	if ev.UserID <= 0 {
		c.SafeSend(event.Error("Invalid user id"), sendTimeout)
		return
	}

	c.setUserID(ev.UserID)

	select {
	case h.register <- registration{userID: ev.UserID, client: c}:
	case <-time.After(registerTimeout):
		h.logger.Warn("registration queue full", zap.String("client_id", c.ID))
		c.Close()
		return
	}

	c.SafeSend(event.AuthSuccess(), sendTimeout)
}

// relay persists the message, then pushes it to the receiver if one is
// connected, then acks the sender. The durable write always happens
// first; a receiver must never see a message that could still vanish
// from history.
func (h *Hub) relay(ev event.ChatMessage, c *Client) {
	if !c.Authenticated() {
		c.SafeSend(event.Error("Authenticate before sending messages"), sendTimeout)
		return
	}

	if ev.SenderID <= 0 || ev.ReceiverID <= 0 || ev.Content == "" {
		c.SafeSend(event.Error("Invalid message format"), sendTimeout)
		return
	}

	ctx, cancel := context.WithTimeout(h.ctx, persistTimeout)
	defer cancel()

	stored, err := h.store.InsertMessage(ctx, model.NewMessage{
		SenderID:   ev.SenderID,
		ReceiverID: ev.ReceiverID,
		Content:    ev.Content,
	})
	if err != nil {
		h.logger.Error("relay persistence failed",
			zap.Int64("sender_id", ev.SenderID),
			zap.Int64("receiver_id", ev.ReceiverID),
			zap.Error(err),
		)
		c.SafeSend(event.Error("Failed to process message"), sendTimeout)
		return
	}

	metrics.MessagesRelayed.Inc()

	if receiver := h.lookup(ev.ReceiverID); receiver != nil && receiver.SafeSend(event.NewMessage(stored), sendTimeout) {
		metrics.RealtimeDeliveries.Inc()
		h.logger.Debug("message delivered realtime", zap.Int64("message_id", stored.ID))
	} else {
		// Deferred delivery: the receiver picks it up on the next
		// list fetch.
		metrics.DeferredDeliveries.Inc()
		h.logger.Debug("delivery deferred", zap.Int64("message_id", stored.ID))
	}

	c.SafeSend(event.MessageSent(stored.ID), sendTimeout)
}

// Stop closes every connection and stops the manager loop.
func (h *Hub) Stop() {
	h.cancel()

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.registry))
	for _, c := range h.registry {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Close()
	}

	h.wg.Wait()
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.allowedOrigins) == 0 {
		return true
	}
	_, ok := h.allowedOrigins[origin]
	return ok
}

// ServeWS upgrades an HTTP request to the chat channel. The connection
// stays inert until it sends an auth frame.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	NewClient(conn, h)
}

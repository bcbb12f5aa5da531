package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wanderwise/internal/middleware"
	"wanderwise/internal/model"
	"wanderwise/internal/repo"
	"wanderwise/internal/service"
)

type MessageHandler interface {
	// SendMessage is the request/response fallback used when no
	// realtime channel is open.
	SendMessage(c *gin.Context)
	GetMessages(c *gin.Context)
	ListConversations(c *gin.Context)
	GetConversation(c *gin.Context)
	MarkConversationRead(c *gin.Context)
}

type messageHandler struct {
	messages      repo.MessageRepository
	conversations service.ConversationService
}

func NewMessageHandler(messages repo.MessageRepository, conversations service.ConversationService) MessageHandler {
	return &messageHandler{messages: messages, conversations: conversations}
}

func (h *messageHandler) SendMessage(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var body struct {
		ReceiverID int64  `json:"receiverId" binding:"required"`
		Content    string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid message data"})
		return
	}

	msg, err := h.messages.InsertMessage(c.Request.Context(), model.NewMessage{
		SenderID:   user.ID,
		ReceiverID: body.ReceiverID,
		Content:    body.Content,
	})
	if err != nil {
		if errors.Is(err, repo.ErrInvalidMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid message data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send message"})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *messageHandler) GetMessages(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var counterpartID int64
	if raw := c.Query("receiverId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid receiverId"})
			return
		}
		counterpartID = id
	}

	msgs, err := h.messages.GetMessagesByUserID(c.Request.Context(), user.ID, counterpartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch messages"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *messageHandler) ListConversations(c *gin.Context) {
	user := middleware.CurrentUser(c)

	summaries, err := h.conversations.ListConversations(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch conversations"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *messageHandler) GetConversation(c *gin.Context) {
	user := middleware.CurrentUser(c)

	counterpartID, ok := counterpartParam(c)
	if !ok {
		return
	}

	conversation, err := h.conversations.GetTranscript(c.Request.Context(), user.ID, counterpartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch conversation"})
		return
	}
	c.JSON(http.StatusOK, conversation)
}

func (h *messageHandler) MarkConversationRead(c *gin.Context) {
	user := middleware.CurrentUser(c)

	counterpartID, ok := counterpartParam(c)
	if !ok {
		return
	}

	if err := h.conversations.MarkRead(c.Request.Context(), user.ID, counterpartID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to mark conversation read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func counterpartParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("counterpartId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid counterpart id"})
		return 0, false
	}
	return id, true
}

package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"wanderwise/internal/model"
	"wanderwise/internal/repo"
)

// BuildConversations turns a flat message list involving currentUserID
// into per-counterpart conversations: transcript sorted by sentAt
// ascending (zero timestamps sort earliest), preview = the latest
// message, unread = incoming messages not yet read. The returned list
// is ordered by most recent activity, newest conversation first.
func BuildConversations(currentUserID int64, msgs []model.Message) []model.Conversation {
	byCounterpart := make(map[int64][]model.Message)
	for _, m := range msgs {
		counterpart := m.ReceiverID
		if m.ReceiverID == currentUserID {
			counterpart = m.SenderID
		}
		byCounterpart[counterpart] = append(byCounterpart[counterpart], m)
	}

	conversations := make([]model.Conversation, 0, len(byCounterpart))
	for counterpart, partition := range byCounterpart {
		sort.SliceStable(partition, func(i, j int) bool {
			if !partition[i].SentAt.Equal(partition[j].SentAt) {
				return partition[i].SentAt.Before(partition[j].SentAt)
			}
			return partition[i].ID < partition[j].ID
		})

		unread := 0
		for _, m := range partition {
			if m.ReceiverID == currentUserID && !m.IsRead {
				unread++
			}
		}

		conversations = append(conversations, model.Conversation{
			CounterpartID: counterpart,
			Messages:      partition,
			LastMessage:   partition[len(partition)-1],
			UnreadCount:   unread,
		})
	}

	sort.Slice(conversations, func(i, j int) bool {
		a, b := conversations[i].LastMessage, conversations[j].LastMessage
		if !a.SentAt.Equal(b.SentAt) {
			return a.SentAt.After(b.SentAt)
		}
		return a.ID > b.ID
	})

	return conversations
}

type ConversationService interface {
	// ListConversations returns the contact-list view for a user.
	ListConversations(ctx context.Context, userID int64) ([]model.ConversationSummary, error)
	// GetTranscript returns the full ordered conversation with one
	// counterpart.
	GetTranscript(ctx context.Context, userID, counterpartID int64) (*model.Conversation, error)
	// MarkRead flips every unread message from counterpart to user.
	// Re-marking an already-read conversation is a no-op.
	MarkRead(ctx context.Context, userID, counterpartID int64) error
}

type conversationService struct {
	messages repo.MessageRepository
	logger   *zap.Logger
}

func NewConversationService(messages repo.MessageRepository, logger *zap.Logger) ConversationService {
	return &conversationService{messages: messages, logger: logger}
}

func (s *conversationService) ListConversations(ctx context.Context, userID int64) ([]model.ConversationSummary, error) {
	msgs, err := s.messages.GetMessagesByUserID(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	conversations := BuildConversations(userID, msgs)
	summaries := make([]model.ConversationSummary, 0, len(conversations))
	for _, c := range conversations {
		summaries = append(summaries, c.Summary())
	}
	return summaries, nil
}

func (s *conversationService) GetTranscript(ctx context.Context, userID, counterpartID int64) (*model.Conversation, error) {
	msgs, err := s.messages.GetMessagesByUserID(ctx, userID, counterpartID)
	if err != nil {
		return nil, err
	}

	if len(msgs) == 0 {
		// Partitioning never produces empty groups; an empty fetch is
		// simply a conversation that does not exist yet.
		return &model.Conversation{CounterpartID: counterpartID, Messages: []model.Message{}}, nil
	}

	conversations := BuildConversations(userID, msgs)
	for i := range conversations {
		if conversations[i].CounterpartID == counterpartID {
			return &conversations[i], nil
		}
	}
	return &model.Conversation{CounterpartID: counterpartID, Messages: []model.Message{}}, nil
}

func (s *conversationService) MarkRead(ctx context.Context, userID, counterpartID int64) error {
	changed, err := s.messages.MarkConversationRead(ctx, userID, counterpartID)
	if err != nil {
		return err
	}

	if changed > 0 {
		s.logger.Debug("conversation marked read",
			zap.Int64("user_id", userID),
			zap.Int64("counterpart_id", counterpartID),
			zap.Int64("messages", changed),
		)
	}
	return nil
}

package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"wanderwise/internal/model"
)

var (
	ErrInvalidMessage     = errors.New("invalid message: empty participant id or content")
	ErrMaxRetriesExceeded = errors.New("maximum retry attempts exceeded")
)

const (
	maxRetries     = 3
	baseRetryDelay = 100 * time.Millisecond
	maxRetryDelay  = 2 * time.Second
)

type MessageRepository interface {
	// InsertMessage durably stores a message with is_read=false and
	// returns it with its assigned id and timestamp.
	InsertMessage(ctx context.Context, msg model.NewMessage) (*model.Message, error)
	// GetMessagesByUserID returns every message the user sent or
	// received, oldest first. A non-zero counterpartID narrows the
	// result to that two-party conversation.
	GetMessagesByUserID(ctx context.Context, userID, counterpartID int64) ([]model.Message, error)
	// MarkConversationRead flips is_read on all unread messages from
	// counterpart to user. Idempotent; returns rows changed.
	MarkConversationRead(ctx context.Context, userID, counterpartID int64) (int64, error)
}

type messageRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewMessageRepository(pool *pgxpool.Pool, logger *zap.Logger) MessageRepository {
	return &messageRepository{pool: pool, logger: logger}
}

const messageColumns = `id, sender_id, receiver_id, content, is_read, sent_at`

func (r *messageRepository) InsertMessage(ctx context.Context, msg model.NewMessage) (*model.Message, error) {
	if msg.SenderID == 0 || msg.ReceiverID == 0 || msg.Content == "" {
		return nil, ErrInvalidMessage
	}

	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			if err := r.waitForRetry(ctx, attempt); err != nil {
				return nil, err
			}
			r.logger.Warn("retrying message insert",
				zap.Int64("sender_id", msg.SenderID),
				zap.Int("attempt", attempt+1),
			)
		}

		var stored model.Message
		err := r.pool.QueryRow(ctx, `
			INSERT INTO messages (sender_id, receiver_id, content, is_read)
			VALUES ($1, $2, $3, false)
			RETURNING `+messageColumns,
			msg.SenderID, msg.ReceiverID, msg.Content,
		).Scan(&stored.ID, &stored.SenderID, &stored.ReceiverID, &stored.Content, &stored.IsRead, &stored.SentAt)

		if err == nil {
			r.logger.Debug("message inserted",
				zap.Int64("message_id", stored.ID),
				zap.Int64("sender_id", stored.SenderID),
				zap.Int64("receiver_id", stored.ReceiverID),
			)
			return &stored, nil
		}

		lastErr = err
		if !r.isRetryableError(err) {
			break
		}
	}

	r.logger.Error("failed to insert message after all retries",
		zap.Int64("sender_id", msg.SenderID),
		zap.Error(lastErr),
	)
	if r.isRetryableError(lastErr) {
		return nil, fmt.Errorf("%w: %v", ErrMaxRetriesExceeded, lastErr)
	}
	return nil, fmt.Errorf("insert message: %w", lastErr)
}

func (r *messageRepository) GetMessagesByUserID(ctx context.Context, userID, counterpartID int64) ([]model.Message, error) {
	if userID == 0 {
		return nil, ErrInvalidArgument
	}

	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	var sql string
	var args []any
	if counterpartID != 0 {
		sql = `SELECT ` + messageColumns + ` FROM messages
			WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
			ORDER BY sent_at, id`
		args = []any{userID, counterpartID}
	} else {
		sql = `SELECT ` + messageColumns + ` FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
			ORDER BY sent_at, id`
		args = []any{userID}
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error("failed to query messages", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	msgs := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.SentAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, userID, counterpartID int64) (int64, error) {
	if userID == 0 || counterpartID == 0 {
		return 0, ErrInvalidArgument
	}

	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `
		UPDATE messages SET is_read = true
		WHERE receiver_id = $1 AND sender_id = $2 AND is_read = false`,
		userID, counterpartID,
	)
	if err != nil {
		r.logger.Error("failed to mark conversation read",
			zap.Int64("user_id", userID),
			zap.Int64("counterpart_id", counterpartID),
			zap.Error(err),
		)
		return 0, fmt.Errorf("mark conversation read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *messageRepository) waitForRetry(ctx context.Context, attempt int) error {
	delay := time.Duration(1<<uint(attempt)) * baseRetryDelay
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("retry wait cancelled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func (r *messageRepository) isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	return pgconn.SafeToRetry(err)
}

package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"wanderwise/internal/model"
)

type AgentRepository interface {
	GetAgents(ctx context.Context) ([]model.Agent, error)
	// GetAgentByUserID resolves an agent by the user id travelers see
	// in listings and conversations.
	GetAgentByUserID(ctx context.Context, userID int64) (*model.Agent, error)
	CreateAgentProfile(ctx context.Context, profile *model.AgentProfile) (*model.AgentProfile, error)
	UpdateAgentRating(ctx context.Context, userID int64, rating int, reviewCount int) error
}

type agentRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewAgentRepository(pool *pgxpool.Pool, logger *zap.Logger) AgentRepository {
	return &agentRepository{pool: pool, logger: logger}
}

const agentQuery = `
	SELECT p.id, p.user_id, p.specialization, p.languages, p.experience,
	       p.regions, p.travel_styles, p.rating, p.review_count, p.is_verified,
	       u.username, u.email, u.full_name, coalesce(u.profile_picture, ''), coalesce(u.bio, '')
	FROM agent_profiles p
	JOIN users u ON u.id = p.user_id`

func scanAgent(row pgx.Row) (*model.Agent, error) {
	var a model.Agent
	err := row.Scan(
		&a.AgentProfile.ID, &a.UserID, &a.Specialization, &a.Languages, &a.Experience,
		&a.Regions, &a.TravelStyles, &a.Rating, &a.ReviewCount, &a.IsVerified,
		&a.Username, &a.Email, &a.FullName, &a.ProfilePicture, &a.Bio,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *agentRepository) GetAgents(ctx context.Context) ([]model.Agent, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, agentQuery+` ORDER BY p.id`)
	if err != nil {
		r.logger.Error("failed to query agents", zap.Error(err))
		return nil, fmt.Errorf("get agents: %w", err)
	}
	defer rows.Close()

	agents := []model.Agent{}
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, *a)
	}
	return agents, rows.Err()
}

func (r *agentRepository) GetAgentByUserID(ctx context.Context, userID int64) (*model.Agent, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	return scanAgent(r.pool.QueryRow(ctx, agentQuery+` WHERE p.user_id = $1`, userID))
}

func (r *agentRepository) CreateAgentProfile(ctx context.Context, profile *model.AgentProfile) (*model.AgentProfile, error) {
	if profile == nil || profile.UserID == 0 {
		return nil, ErrInvalidArgument
	}

	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO agent_profiles (user_id, specialization, languages, experience, regions, travel_styles, rating, review_count, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		profile.UserID, profile.Specialization, profile.Languages, profile.Experience,
		profile.Regions, profile.TravelStyles, profile.Rating, profile.ReviewCount, profile.IsVerified,
	)
	if err := row.Scan(&profile.ID); err != nil {
		r.logger.Error("failed to create agent profile", zap.Int64("user_id", profile.UserID), zap.Error(err))
		return nil, fmt.Errorf("create agent profile: %w", err)
	}

	return profile, nil
}

func (r *agentRepository) UpdateAgentRating(ctx context.Context, userID int64, rating int, reviewCount int) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `
		UPDATE agent_profiles SET rating = $2, review_count = $3 WHERE user_id = $1`,
		userID, rating, reviewCount,
	)
	if err != nil {
		r.logger.Error("failed to update agent rating", zap.Int64("user_id", userID), zap.Error(err))
		return fmt.Errorf("update agent rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Debug("agent rating updated",
		zap.Int64("user_id", userID),
		zap.Int("rating", rating),
		zap.Int("review_count", reviewCount),
	)
	return nil
}

package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"wanderwise/internal/model"
)

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *model.Review) (*model.Review, error)
	GetReviewsByAgentID(ctx context.Context, agentID int64) ([]model.ReviewWithTraveler, error)
	// GetAgentRatings returns the raw ratings for an agent, used to
	// recompute the aggregate after a new review.
	GetAgentRatings(ctx context.Context, agentID int64) ([]int, error)
}

type reviewRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewReviewRepository(pool *pgxpool.Pool, logger *zap.Logger) ReviewRepository {
	return &reviewRepository{pool: pool, logger: logger}
}

func (r *reviewRepository) CreateReview(ctx context.Context, review *model.Review) (*model.Review, error) {
	if review == nil || review.TravelerID == 0 || review.AgentID == 0 {
		return nil, ErrInvalidArgument
	}
	if review.Rating < 1 || review.Rating > 5 {
		return nil, ErrInvalidArgument
	}

	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (traveler_id, agent_id, itinerary_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		review.TravelerID, review.AgentID, review.ItineraryID, review.Rating, review.Comment,
	)
	if err := row.Scan(&review.ID, &review.CreatedAt); err != nil {
		r.logger.Error("failed to create review", zap.Int64("agent_id", review.AgentID), zap.Error(err))
		return nil, fmt.Errorf("create review: %w", err)
	}

	r.logger.Info("review created",
		zap.Int64("review_id", review.ID),
		zap.Int64("agent_id", review.AgentID),
		zap.Int("rating", review.Rating),
	)
	return review, nil
}

func (r *reviewRepository) GetReviewsByAgentID(ctx context.Context, agentID int64) ([]model.ReviewWithTraveler, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT rv.id, rv.traveler_id, rv.agent_id, rv.itinerary_id, rv.rating, coalesce(rv.comment, ''), rv.created_at,
		       coalesce(u.full_name, 'Unknown User'), coalesce(u.profile_picture, '')
		FROM reviews rv
		LEFT JOIN users u ON u.id = rv.traveler_id
		WHERE rv.agent_id = $1
		ORDER BY rv.created_at DESC`, agentID)
	if err != nil {
		r.logger.Error("failed to query reviews", zap.Int64("agent_id", agentID), zap.Error(err))
		return nil, fmt.Errorf("get reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.ReviewWithTraveler{}
	for rows.Next() {
		var rv model.ReviewWithTraveler
		err := rows.Scan(
			&rv.ID, &rv.TravelerID, &rv.AgentID, &rv.ItineraryID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
			&rv.Traveler.FullName, &rv.Traveler.ProfilePicture,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) GetAgentRatings(ctx context.Context, agentID int64) ([]int, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT rating FROM reviews WHERE agent_id = $1`, agentID)
	if err != nil {
		return nil, fmt.Errorf("get agent ratings: %w", err)
	}
	defer rows.Close()

	ratings := []int{}
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

package service

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"wanderwise/internal/model"
	"wanderwise/internal/repo"
)

var (
	// ErrNotReviewable is returned when the traveler has no itinerary
	// with the reviewed agent.
	ErrNotReviewable = errors.New("traveler has no itinerary with this agent")
)

// AverageRating rounds the mean of ratings to the nearest integer.
// Returns 0 for an empty slice.
func AverageRating(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	total := 0
	for _, r := range ratings {
		total += r
	}
	return int(math.Round(float64(total) / float64(len(ratings))))
}

type ReviewService interface {
	// CreateReview stores a traveler's review and recomputes the
	// agent's aggregate rating. The traveler must own the itinerary
	// named in the review.
	CreateReview(ctx context.Context, review *model.Review) (*model.Review, error)
	GetReviewsByAgentID(ctx context.Context, agentID int64) ([]model.ReviewWithTraveler, error)
}

type reviewService struct {
	reviews     repo.ReviewRepository
	itineraries repo.ItineraryRepository
	agents      repo.AgentRepository
	logger      *zap.Logger
}

func NewReviewService(reviews repo.ReviewRepository, itineraries repo.ItineraryRepository, agents repo.AgentRepository, logger *zap.Logger) ReviewService {
	return &reviewService{
		reviews:     reviews,
		itineraries: itineraries,
		agents:      agents,
		logger:      logger,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, review *model.Review) (*model.Review, error) {
	itinerary, err := s.itineraries.GetItineraryByID(ctx, review.ItineraryID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotReviewable
		}
		return nil, err
	}
	if itinerary.TravelerID != review.TravelerID {
		return nil, ErrNotReviewable
	}

	created, err := s.reviews.CreateReview(ctx, review)
	if err != nil {
		return nil, err
	}

	if err := s.refreshAgentRating(ctx, review.AgentID); err != nil {
		// The review itself is durable; a stale aggregate self-heals
		// on the next review.
		s.logger.Warn("failed to refresh agent rating", zap.Int64("agent_id", review.AgentID), zap.Error(err))
	}

	return created, nil
}

func (s *reviewService) GetReviewsByAgentID(ctx context.Context, agentID int64) ([]model.ReviewWithTraveler, error) {
	return s.reviews.GetReviewsByAgentID(ctx, agentID)
}

func (s *reviewService) refreshAgentRating(ctx context.Context, agentID int64) error {
	ratings, err := s.reviews.GetAgentRatings(ctx, agentID)
	if err != nil {
		return err
	}
	if len(ratings) == 0 {
		return nil
	}
	return s.agents.UpdateAgentRating(ctx, agentID, AverageRating(ratings), len(ratings))
}

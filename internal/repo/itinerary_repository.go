package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"wanderwise/internal/model"
)

// ItineraryPatch carries the fields the owning agent may change after
// creation. Nil fields are left untouched.
type ItineraryPatch struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	TotalPrice  *int            `json:"totalPrice"`
	Status      *string         `json:"status"`
	Details     json.RawMessage `json:"details"`
}

type ItineraryRepository interface {
	CreateItinerary(ctx context.Context, it *model.Itinerary) (*model.Itinerary, error)
	GetItineraryByID(ctx context.Context, id int64) (*model.Itinerary, error)
	GetItinerariesByTravelerID(ctx context.Context, travelerID int64) ([]model.Itinerary, error)
	GetItinerariesByAgentID(ctx context.Context, agentID int64) ([]model.Itinerary, error)
	UpdateItinerary(ctx context.Context, id int64, patch ItineraryPatch) (*model.Itinerary, error)
}

type itineraryRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewItineraryRepository(pool *pgxpool.Pool, logger *zap.Logger) ItineraryRepository {
	return &itineraryRepository{pool: pool, logger: logger}
}

const itineraryColumns = `id, traveler_id, agent_id, trip_preference_id, title, description, total_price, status, details, created_at, updated_at`

func scanItinerary(row pgx.Row) (*model.Itinerary, error) {
	var it model.Itinerary
	err := row.Scan(
		&it.ID, &it.TravelerID, &it.AgentID, &it.TripPreferenceID,
		&it.Title, &it.Description, &it.TotalPrice, &it.Status, &it.Details,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *itineraryRepository) CreateItinerary(ctx context.Context, it *model.Itinerary) (*model.Itinerary, error) {
	if it == nil || it.TravelerID == 0 || it.AgentID == 0 {
		return nil, ErrInvalidArgument
	}
	if !model.ValidStatus(it.Status) {
		return nil, ErrInvalidArgument
	}
	if len(it.Details) == 0 {
		it.Details = json.RawMessage(`[]`)
	}

	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO itineraries (traveler_id, agent_id, trip_preference_id, title, description, total_price, status, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+itineraryColumns,
		it.TravelerID, it.AgentID, it.TripPreferenceID, it.Title, it.Description, it.TotalPrice, it.Status, it.Details,
	)

	created, err := scanItinerary(row)
	if err != nil {
		r.logger.Error("failed to create itinerary", zap.Int64("agent_id", it.AgentID), zap.Error(err))
		return nil, fmt.Errorf("create itinerary: %w", err)
	}

	r.logger.Info("itinerary created",
		zap.Int64("itinerary_id", created.ID),
		zap.Int64("agent_id", created.AgentID),
		zap.Int64("traveler_id", created.TravelerID),
	)
	return created, nil
}

func (r *itineraryRepository) GetItineraryByID(ctx context.Context, id int64) (*model.Itinerary, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	return scanItinerary(r.pool.QueryRow(ctx, `SELECT `+itineraryColumns+` FROM itineraries WHERE id = $1`, id))
}

func (r *itineraryRepository) GetItinerariesByTravelerID(ctx context.Context, travelerID int64) ([]model.Itinerary, error) {
	return r.query(ctx, `SELECT `+itineraryColumns+` FROM itineraries WHERE traveler_id = $1 ORDER BY created_at DESC`, travelerID)
}

func (r *itineraryRepository) GetItinerariesByAgentID(ctx context.Context, agentID int64) ([]model.Itinerary, error) {
	return r.query(ctx, `SELECT `+itineraryColumns+` FROM itineraries WHERE agent_id = $1 ORDER BY created_at DESC`, agentID)
}

func (r *itineraryRepository) UpdateItinerary(ctx context.Context, id int64, patch ItineraryPatch) (*model.Itinerary, error) {
	if patch.Status != nil && !model.ValidStatus(*patch.Status) {
		return nil, ErrInvalidArgument
	}

	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.TotalPrice != nil {
		add("total_price", *patch.TotalPrice)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Details != nil {
		add("details", patch.Details)
	}

	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx,
		`UPDATE itineraries SET `+strings.Join(sets, ", ")+` WHERE id = $1 RETURNING `+itineraryColumns,
		args...,
	)

	updated, err := scanItinerary(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		r.logger.Error("failed to update itinerary", zap.Int64("itinerary_id", id), zap.Error(err))
		return nil, fmt.Errorf("update itinerary: %w", err)
	}
	return updated, nil
}

func (r *itineraryRepository) query(ctx context.Context, sql string, args ...any) ([]model.Itinerary, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error("failed to query itineraries", zap.Error(err))
		return nil, fmt.Errorf("get itineraries: %w", err)
	}
	defer rows.Close()

	its := []model.Itinerary{}
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan itinerary: %w", err)
		}
		its = append(its, *it)
	}
	return its, rows.Err()
}

package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"wanderwise/internal/model"
)

type TripRepository interface {
	CreateTripPreference(ctx context.Context, pref *model.TripPreference) (*model.TripPreference, error)
	GetTripPreferencesByTravelerID(ctx context.Context, travelerID int64) ([]model.TripPreference, error)
	GetAllTripPreferences(ctx context.Context) ([]model.TripPreference, error)
}

type tripRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewTripRepository(pool *pgxpool.Pool, logger *zap.Logger) TripRepository {
	return &tripRepository{pool: pool, logger: logger}
}

const tripColumns = `id, traveler_id, destination, start_date, end_date, budget, travel_styles, coalesce(additional_info, ''), created_at`

func (r *tripRepository) CreateTripPreference(ctx context.Context, pref *model.TripPreference) (*model.TripPreference, error) {
	if pref == nil || pref.TravelerID == 0 || pref.Destination == "" {
		return nil, ErrInvalidArgument
	}

	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO trip_preferences (traveler_id, destination, start_date, end_date, budget, travel_styles, additional_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		pref.TravelerID, pref.Destination, pref.StartDate, pref.EndDate, pref.Budget, pref.TravelStyles, pref.AdditionalInfo,
	)
	if err := row.Scan(&pref.ID, &pref.CreatedAt); err != nil {
		r.logger.Error("failed to create trip preference", zap.Int64("traveler_id", pref.TravelerID), zap.Error(err))
		return nil, fmt.Errorf("create trip preference: %w", err)
	}

	return pref, nil
}

func (r *tripRepository) GetTripPreferencesByTravelerID(ctx context.Context, travelerID int64) ([]model.TripPreference, error) {
	return r.query(ctx, `SELECT `+tripColumns+` FROM trip_preferences WHERE traveler_id = $1 ORDER BY created_at DESC`, travelerID)
}

func (r *tripRepository) GetAllTripPreferences(ctx context.Context) ([]model.TripPreference, error) {
	return r.query(ctx, `SELECT ` + tripColumns + ` FROM trip_preferences ORDER BY created_at DESC`)
}

func (r *tripRepository) query(ctx context.Context, sql string, args ...any) ([]model.TripPreference, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error("failed to query trip preferences", zap.Error(err))
		return nil, fmt.Errorf("get trip preferences: %w", err)
	}
	defer rows.Close()

	prefs := []model.TripPreference{}
	for rows.Next() {
		var p model.TripPreference
		err := rows.Scan(&p.ID, &p.TravelerID, &p.Destination, &p.StartDate, &p.EndDate, &p.Budget, &p.TravelStyles, &p.AdditionalInfo, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan trip preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

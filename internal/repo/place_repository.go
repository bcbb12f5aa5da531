package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"wanderwise/internal/db"
	"wanderwise/internal/model"
)

// Place lookups hit a metered third-party API, so results are cached
// as documents for a day.
const placeCacheTTL = 24 * time.Hour

type PlaceCacheRepository interface {
	// GetCached returns the cached city info, or ErrNotFound when the
	// city has no fresh cache entry.
	GetCached(ctx context.Context, city string) (*model.CityInfo, error)
	PutCached(ctx context.Context, city string, info model.CityInfo) error
}

type placeCacheRepository struct {
	cache  *db.Repository[model.PlaceCacheEntry]
	logger *zap.Logger
	now    func() time.Time
}

func NewPlaceCacheRepository(cache *db.Repository[model.PlaceCacheEntry], logger *zap.Logger) PlaceCacheRepository {
	return &placeCacheRepository{cache: cache, logger: logger, now: time.Now}
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func (r *placeCacheRepository) GetCached(ctx context.Context, city string) (*model.CityInfo, error) {
	key := normalizeCity(city)
	if key == "" {
		return nil, ErrInvalidArgument
	}

	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().
		Eq("city", key).
		Gte("fetched_at", r.now().Add(-placeCacheTTL)).
		Build()

	entry, err := r.cache.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error("place cache lookup failed", zap.String("city", key), zap.Error(err))
		return nil, fmt.Errorf("place cache lookup: %w", err)
	}

	r.logger.Debug("place cache hit", zap.String("city", key))
	return &entry.Info, nil
}

func (r *placeCacheRepository) PutCached(ctx context.Context, city string, info model.CityInfo) error {
	key := normalizeCity(city)
	if key == "" {
		return ErrInvalidArgument
	}

	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	entry := model.PlaceCacheEntry{
		City:      key,
		Info:      info,
		FetchedAt: r.now(),
	}

	if _, err := r.cache.Upsert(ctx, db.NewFilter().Eq("city", key).Build(), entry); err != nil {
		// A stale cache is only a cost problem, not a correctness one.
		r.logger.Warn("place cache write failed", zap.String("city", key), zap.Error(err))
		return fmt.Errorf("place cache write: %w", err)
	}
	return nil
}

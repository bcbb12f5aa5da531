package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"wanderwise/internal/metrics"
	"wanderwise/internal/model"
	"wanderwise/internal/places"
	"wanderwise/internal/repo"
)

type PlaceService interface {
	// SearchCity returns attraction info for a city, from cache when a
	// fresh entry exists, otherwise from the upstream API.
	SearchCity(ctx context.Context, city string) (*model.CityInfo, error)
}

type placeService struct {
	lookup places.Lookup
	cache  repo.PlaceCacheRepository
	logger *zap.Logger
}

func NewPlaceService(lookup places.Lookup, cache repo.PlaceCacheRepository, logger *zap.Logger) PlaceService {
	return &placeService{lookup: lookup, cache: cache, logger: logger}
}

func (s *placeService) SearchCity(ctx context.Context, city string) (*model.CityInfo, error) {
	if cached, err := s.cache.GetCached(ctx, city); err == nil {
		metrics.PlaceLookups.WithLabelValues("hit").Inc()
		return cached, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		// Cache trouble should not block the lookup.
		s.logger.Warn("place cache read failed", zap.String("city", city), zap.Error(err))
	}

	info, err := s.lookup.GetCityPlaces(ctx, city)
	if err != nil {
		return nil, err
	}
	metrics.PlaceLookups.WithLabelValues("miss").Inc()

	// Drop unnamed results before caching; the client already filters
	// them, this keeps cached payloads clean too.
	info.Places = Filter(info.Places, func(p model.PlaceDetails) bool {
		return p.Name != ""
	})

	if err := s.cache.PutCached(ctx, city, *info); err != nil {
		s.logger.Warn("place cache write failed", zap.String("city", city), zap.Error(err))
	}

	return info, nil
}

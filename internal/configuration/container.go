package configuration

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"wanderwise/internal/db"
	"wanderwise/internal/handler"
	"wanderwise/internal/hub"
	"wanderwise/internal/model"
	"wanderwise/internal/places"
	"wanderwise/internal/repo"
	"wanderwise/internal/service"
)

// Container wires every layer together once at startup.
type Container struct {
	AuthHandler      handler.AuthHandler
	AgentHandler     handler.AgentHandler
	TripHandler      handler.TripHandler
	ItineraryHandler handler.ItineraryHandler
	MessageHandler   handler.MessageHandler
	ReviewHandler    handler.ReviewHandler
	PlaceHandler     handler.PlaceHandler
	MonitorHandler   handler.MonitorHandler

	AuthService service.AuthService
	Hub         *hub.Hub
	Config      Config
	Logger      *zap.Logger

	// private - for cleanup
	pgPool      *pgxpool.Pool
	mongoClient *mongo.Database
}

func BuildContainer(configPath string) (*Container, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	pool, err := db.OpenPostgres(context.Background(), config.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(context.Background(), pool); err != nil {
		pool.Close()
		return nil, err
	}

	mongoDB, err := db.OpenMongo(config.PlaceCache.Uri, config.PlaceCache.Database)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("open mongo: %w", err)
	}

	userRepo := repo.NewUserRepository(pool, logger)
	agentRepo := repo.NewAgentRepository(pool, logger)
	tripRepo := repo.NewTripRepository(pool, logger)
	itineraryRepo := repo.NewItineraryRepository(pool, logger)
	messageRepo := repo.NewMessageRepository(pool, logger)
	reviewRepo := repo.NewReviewRepository(pool, logger)

	placeCache := db.NewRepository[model.PlaceCacheEntry](mongoDB, config.PlaceCache.PlacesCollection)
	placeCacheRepo := repo.NewPlaceCacheRepository(placeCache, logger)
	placeClient := places.NewClient(config.GeoapifyAPIKey, logger)

	authService := service.NewAuthService(userRepo, agentRepo, config.JWTSecret, logger)
	conversationService := service.NewConversationService(messageRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, itineraryRepo, agentRepo, logger)
	placeService := service.NewPlaceService(placeClient, placeCacheRepo, logger)

	chatHub := hub.NewHub(messageRepo, logger, config.AllowedOrigins)
	monitorService := hub.NewMonitorService(chatHub)

	return &Container{
		AuthHandler:      handler.NewAuthHandler(authService),
		AgentHandler:     handler.NewAgentHandler(agentRepo),
		TripHandler:      handler.NewTripHandler(tripRepo),
		ItineraryHandler: handler.NewItineraryHandler(itineraryRepo),
		MessageHandler:   handler.NewMessageHandler(messageRepo, conversationService),
		ReviewHandler:    handler.NewReviewHandler(reviewService),
		PlaceHandler:     handler.NewPlaceHandler(placeService),
		MonitorHandler:   handler.NewMonitorHandler(monitorService),
		AuthService:      authService,
		Hub:              chatHub,
		Config:           *config,
		Logger:           logger,
		pgPool:           pool,
		mongoClient:      mongoDB,
	}, nil
}

// Close gracefully shuts down all connections
func (c *Container) Close() error {
	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.Logger != nil {
		_ = c.Logger.Sync()
	}

	if c.pgPool != nil {
		c.pgPool.Close()
	}

	if c.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.mongoClient.Client().Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to close MongoDB connection: %w", err)
		}
	}

	return nil
}

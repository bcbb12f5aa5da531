package configuration

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
)

type MongoConfig struct {
	Uri              string `json:"uri"`
	Database         string `json:"database"`
	PlacesCollection string `json:"placesCollection"`
}

type ServerConfig struct {
	AppPort     int    `json:"app_port"`
	SocketPort  int    `json:"socket_port"`
	SocketRoute string `json:"socket_route"`
}

type Config struct {
	Server         ServerConfig `json:"server"`
	PlaceCache     MongoConfig  `json:"mongo"`
	AllowedOrigins []string     `json:"allowed_origins"`

	// Secrets come from the environment, never the config file.
	DatabaseURL    string `json:"-"`
	JWTSecret      string `json:"-"`
	GeoapifyAPIKey string `json:"-"`
}

// LoadConfig reads the JSON config file, then overlays secrets from
// the environment. A .env file is honored in development.
func LoadConfig(configPath string) (*Config, error) {
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	_ = godotenv.Load()

	config.DatabaseURL = os.Getenv("DATABASE_URL")
	config.JWTSecret = getEnv("JWT_SECRET", "wanderwise-secret-key")
	config.GeoapifyAPIKey = os.Getenv("GEOAPIFY_API_KEY")
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		config.PlaceCache.Uri = uri
	}

	return &config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

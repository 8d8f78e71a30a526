package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Artifacts ArtifactsConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	// Enabled gates the popular-list cache; the service runs fine
	// without Redis, every popular request just recomputes.
	Enabled bool
}

// ArtifactsConfig points at the three offline artifacts produced by
// the training pipeline: the catalog snapshot (books + historical
// ratings), the trained factor model, and the similarity bundle.
type ArtifactsConfig struct {
	SnapshotPath   string
	ModelPath      string
	SimilarityPath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisEnabled := getEnv("REDIS_ENABLED", "false") == "true"

	redisDB := 0
	if redisEnabled {
		parsed, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
		if err != nil {
			return nil, errors.New("invalid redis database")
		}
		redisDB = parsed
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "MyBookShelf API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "bookshelf"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			Enabled:       redisEnabled,
		},
		Artifacts: ArtifactsConfig{
			SnapshotPath:   getEnv("ARTIFACT_SNAPSHOT_PATH", "artifacts/catalog.db"),
			ModelPath:      getEnv("ARTIFACT_MODEL_PATH", "artifacts/model.db"),
			SimilarityPath: getEnv("ARTIFACT_SIMILARITY_PATH", "artifacts/similarity.db"),
		},
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

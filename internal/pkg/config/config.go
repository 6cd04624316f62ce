package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
}

// IntelligenceConfig holds the tunables of the heuristic analysis layer.
// The staleness window and history limit were unlabeled constants in the
// original client; here they are configuration.
type IntelligenceConfig struct {
	// AnalysisHistoryLimit caps how many recent behaviors the pattern
	// analyzer examines per run.
	AnalysisHistoryLimit int
	// RecommendationMaxAge is the freshness window for recommended insights.
	RecommendationMaxAge time.Duration
	// ScoreCacheTTL bounds how long a computed intelligence score may be
	// served from cache.
	ScoreCacheTTL time.Duration
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

type Config struct {
	Repositories RepositoriesConfig
	Auth         AuthConfig
	Intelligence IntelligenceConfig
	ServerPort   string
	MetricsPort  string
	PprofPort    string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "tripwise"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("JWT_SECRET_KEY"),
			TokenExpiration: getDurationOrDefault("JWT_TOKEN_EXPIRATION", 24*time.Hour),
		},
		Intelligence: IntelligenceConfig{
			AnalysisHistoryLimit: getIntOrDefault("INTEL_ANALYSIS_HISTORY_LIMIT", 100),
			RecommendationMaxAge: getDurationOrDefault("INTEL_RECOMMENDATION_MAX_AGE", 30*24*time.Hour),
			ScoreCacheTTL:        getDurationOrDefault("INTEL_SCORE_CACHE_TTL", 30*time.Second),
		},
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		MetricsPort: getEnvOrDefault("METRICS_PORT", "9092"),
		PprofPort:   getEnvOrDefault("PPROF_PORT", "6060"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/reelmetrics/reelmetrics/internal/analytics"
	"github.com/reelmetrics/reelmetrics/pkg/database"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Analytics pipeline configuration
	Analytics AnalyticsConfig

	// External catalog API configuration
	TMDB TMDBConfig

	// Session configuration
	Session SessionConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         int
	Environment  string
	LogLevel     string
	ShutdownTime time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// AnalyticsConfig tunes the report pipeline. The normalization maxima were
// hard-coded empirical constants in an earlier incarnation of these
// dashboards; zero values mean "derive from the live population".
type AnalyticsConfig struct {
	CacheTTL            time.Duration
	VoteCountQuantile   float64
	SingleMovieMinVotes float64
	MaxPopularity       float64
	MaxSentiment        float64
	TrendPages          int
}

// TMDBConfig holds external catalog API configuration
type TMDBConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// SessionConfig holds session-scoped state configuration
type SessionConfig struct {
	ExclusionTTL time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvAsInt("HTTP_PORT", 8080),
			Environment:  getEnv("ENVIRONMENT", "development"),
			LogLevel:     getEnv("LOG_LEVEL", "info"),
			ShutdownTime: getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "reelmetrics"),
			Password:     getEnv("DB_PASSWORD", "reelmetrics"),
			Database:     getEnv("DB_NAME", "reelmetrics"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Analytics: AnalyticsConfig{
			CacheTTL:            getEnvAsDuration("REPORT_CACHE_TTL", 300*time.Second),
			VoteCountQuantile:   getEnvAsFloat("VOTE_COUNT_QUANTILE", 0.90),
			SingleMovieMinVotes: getEnvAsFloat("SINGLE_MOVIE_MIN_VOTES", 500),
			MaxPopularity:       getEnvAsFloat("SCORE_MAX_POPULARITY", 0),
			MaxSentiment:        getEnvAsFloat("SCORE_MAX_SENTIMENT", 0),
			TrendPages:          getEnvAsInt("TREND_PAGES", 5),
		},
		TMDB: TMDBConfig{
			BaseURL: getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			Token:   getEnv("TMDB_API_TOKEN", ""),
			Timeout: getEnvAsDuration("TMDB_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			ExclusionTTL: getEnvAsDuration("SESSION_EXCLUSION_TTL", time.Hour),
		},
	}

	return cfg, nil
}

// ToPostgresConfig converts the database section into the connection
// settings used by pkg/database.
func (d DatabaseConfig) ToPostgresConfig() *database.PostgresConfig {
	cfg := database.DefaultPostgresConfig()
	cfg.Host = d.Host
	cfg.Port = d.Port
	cfg.User = d.User
	cfg.Password = d.Password
	cfg.Database = d.Database
	cfg.SSLMode = d.SSLMode
	cfg.MaxConnections = d.MaxOpenConns
	cfg.MinConnections = d.MaxIdleConns
	cfg.MaxConnLifetime = d.MaxLifetime
	return cfg
}

// ToPipelineConfig converts the analytics section into the report pipeline
// configuration.
func (a AnalyticsConfig) ToPipelineConfig() analytics.Config {
	cfg := analytics.DefaultConfig()
	cfg.CacheTTL = a.CacheTTL
	cfg.VoteCountQuantile = a.VoteCountQuantile
	cfg.SingleMovieMinVotes = a.SingleMovieMinVotes
	cfg.Score = analytics.ScoreConfig{
		MaxPopularity: a.MaxPopularity,
		MaxSentiment:  a.MaxSentiment,
	}
	cfg.TrendPages = a.TrendPages
	return cfg
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return defaultValue
}

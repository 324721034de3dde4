package config

import (
	"fmt"
	"time"

	"github.com/algoprep/pulse/internal/configs/env"
)

// Config holds all configuration for the application
type Config struct {
	// MongoDB
	MongoURI    string
	MongoDBName string

	// Redis
	RedisHost               string
	RedisPassword           string
	RedisStreamKey          string
	RedisConsumerGroup      string
	RedisDeadLetterKey      string
	NotificationStreamKey   string
	StreamRetentionDuration time.Duration

	// JWT
	JWTSecret string
	JWTIssuer string

	// Rate Limiting
	RateLimitRPS float64

	// Similarity analysis
	NGramSize      int
	ReportFloor    int
	FlagThreshold  int
	MaxComparisons int

	// Logging
	LogLevel string

	// Server
	ServerPort string
}

func Load() (*Config, error) {
	cfg := &Config{}

	// MongoDB
	cfg.MongoURI = env.GetEnv("MONGO_URI", "")
	cfg.MongoDBName = env.GetEnv("MONGO_DB_NAME", "")

	// Redis
	cfg.RedisHost = env.GetEnv("REDIS_HOST", "localhost:6379")
	cfg.RedisPassword = env.GetEnv("REDIS_PASSWORD", "")
	cfg.RedisStreamKey = env.GetEnv("REDIS_STREAM_KEY", "submissions:graded")
	cfg.RedisConsumerGroup = env.GetEnv("REDIS_CONSUMER_GROUP", "pulse:scoring")
	cfg.RedisDeadLetterKey = env.GetEnv("REDIS_DEAD_LETTER_KEY", "submissions:dlq")
	cfg.NotificationStreamKey = env.GetEnv("NOTIFICATION_STREAM_KEY", "notifications:out")
	retentionHours := env.GetEnvInt("STREAM_RETENTION_HOURS", 24)
	cfg.StreamRetentionDuration = time.Duration(retentionHours) * time.Hour

	// JWT
	cfg.JWTSecret = env.GetEnv("JWT_SECRET", "")
	cfg.JWTIssuer = env.GetEnv("JWT_ISSUER", "pulse")

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)

	// Similarity analysis
	cfg.NGramSize = env.GetEnvInt("SIMILARITY_NGRAM_SIZE", 4)
	cfg.ReportFloor = env.GetEnvInt("SIMILARITY_REPORT_FLOOR", 30)
	cfg.FlagThreshold = env.GetEnvInt("SIMILARITY_FLAG_THRESHOLD", 80)
	cfg.MaxComparisons = env.GetEnvInt("SIMILARITY_MAX_COMPARISONS", 20)

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", "8080")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDBName == "" {
		return fmt.Errorf("MONGO_DB_NAME is required")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.NGramSize <= 0 {
		return fmt.Errorf("SIMILARITY_NGRAM_SIZE must be greater than 0")
	}
	if c.FlagThreshold <= 0 || c.FlagThreshold > 100 {
		return fmt.Errorf("SIMILARITY_FLAG_THRESHOLD must be in (0, 100]")
	}
	if c.ReportFloor < 0 || c.ReportFloor >= c.FlagThreshold {
		return fmt.Errorf("SIMILARITY_REPORT_FLOOR must be below SIMILARITY_FLAG_THRESHOLD")
	}
	if c.MaxComparisons <= 0 {
		return fmt.Errorf("SIMILARITY_MAX_COMPARISONS must be greater than 0")
	}
	if c.StreamRetentionDuration <= 0 {
		return fmt.Errorf("STREAM_RETENTION_HOURS must be greater than 0")
	}
	return nil
}

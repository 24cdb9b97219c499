package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServerPort string
	JWTSecret  string
	TokenTTL   time.Duration
	RedisAddr  string
	Mongo      MongoConfig
	Logging    LoggingConfig
	RateLimit  RateLimitConfig
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type LoggingConfig struct {
	Level        string
	Encoding     string
	Development  bool
	EnableCaller bool
	ServiceName  string
}

type RateLimitConfig struct {
	Requests int64
	Window   time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: envOrDefault("PORT", "5000"),
		JWTSecret:  envOrDefault("JWT_SECRET", "dev-secret"),
		TokenTTL:   parseDuration(envOrDefault("TOKEN_TTL", "720h"), 720*time.Hour),
		RedisAddr:  strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Mongo: MongoConfig{
			URI:            envOrDefault("MONGO_URI", "mongodb://localhost:27017"),
			Database:       envOrDefault("MONGO_DATABASE", "races"),
			ConnectTimeout: parseDuration(envOrDefault("MONGO_CONNECT_TIMEOUT", "5s"), 5*time.Second),
		},
		Logging: LoggingConfig{
			Level:        strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
			Encoding:     strings.ToLower(envOrDefault("LOG_ENCODING", "console")),
			Development:  parseBool(envOrDefault("LOG_DEVELOPMENT", "false"), false),
			EnableCaller: parseBool(envOrDefault("LOG_CALLER", "false"), false),
			ServiceName:  envOrDefault("SERVICE_NAME", "race-backend"),
		},
		RateLimit: RateLimitConfig{
			Requests: parseInt64(envOrDefault("RATE_LIMIT_REQUESTS", "100"), 100),
			Window:   parseDuration(envOrDefault("RATE_LIMIT_WINDOW", "15m"), 15*time.Minute),
		},
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt64(value string, fallback int64) int64 {
	i, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || i <= 0 {
		return fallback
	}
	return i
}

func parseBool(value string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return v
}

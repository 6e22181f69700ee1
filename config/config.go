package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string

	// Capacity of the in-memory collections
	MaxPassengers int
	MaxFlights    int
	MaxBookings   int

	// Fare basis used by flights that do not name one: flat, distance or class
	FareBasis string

	// Admin console login
	AdminUsername string
	AdminPassword string

	// Notifications: none, redis or pubnub
	Notifier                string
	NotifierMaxFailures     int
	NotifierBreakerCooldown time.Duration

	// Redis configuration
	RedisURL string

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Completion sweep
	CompletionSchedule string

	// Monitoring
	MetricsFile string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig reads a .env file when one is present, then the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env file", "error", err)
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),

		// Capacity
		MaxPassengers: getEnvAsInt("MAX_PASSENGERS", 100),
		MaxFlights:    getEnvAsInt("MAX_FLIGHTS", 100),
		MaxBookings:   getEnvAsInt("MAX_BOOKINGS", 100),

		FareBasis: getEnv("FARE_BASIS", "flat"),

		// Admin
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "1234"),

		// Notifications
		Notifier:                getEnv("NOTIFIER", "none"),
		NotifierMaxFailures:     getEnvAsInt("NOTIFIER_MAX_FAILURES", 3),
		NotifierBreakerCooldown: getEnvAsDuration("NOTIFIER_BREAKER_COOLDOWN", "30s"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		CompletionSchedule: getEnv("COMPLETION_SCHEDULE", "@every 1h"),

		MetricsFile: getEnv("METRICS_FILE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

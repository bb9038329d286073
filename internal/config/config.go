// Package config centralises configuration parsing for the signup service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration values for the signup service.
type Config struct {
	HTTPAddress       string
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
	ShutdownTimeout   time.Duration
	LogLevel          string
	LogFormat         string
	AllowedOrigin     string
	KafkaBrokers      []string // Empty disables roster event publishing.
	RosterEventsTopic string
	EventBufferSize   int
	EventBatchSize    int
}

// Load reads environment variables into Config, applying sensible defaults for local dev.
// Values from a .env file in the working directory are used when the process environment
// does not already set them.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddress:       getEnv("HTTP_ADDRESS", ":8080"),
		HTTPReadTimeout:   getDurationEnv("HTTP_READ_TIMEOUT", 5*time.Second),
		HTTPWriteTimeout:  getDurationEnv("HTTP_WRITE_TIMEOUT", 10*time.Second),
		HTTPIdleTimeout:   getDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		AllowedOrigin:     getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
		KafkaBrokers:      splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		RosterEventsTopic: getEnv("ROSTER_EVENTS_TOPIC", "activity_roster_events"),
		EventBufferSize:   getIntEnv("EVENT_BUFFER_SIZE", 256),
		EventBatchSize:    getIntEnv("EVENT_BATCH_SIZE", 25),
	}
}

// EventsEnabled reports whether roster events should be delivered to Kafka.
func (c Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

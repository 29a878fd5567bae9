package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr   = ":8080"
	defaultKafkaTopic = "transaction_completed"
)

type Config struct {
	// HTTPAddr is the listen address of the HTTP shell.
	HTTPAddr string
	// DatabaseURL selects the postgres store. When empty the in-memory
	// store is used, which only makes sense for local runs.
	DatabaseURL string
	// KafkaBrokers enables event publishing when non-empty.
	KafkaBrokers []string
	KafkaTopic   string
	// LogMode switches zap to console output when set to "dev".
	LogMode string
}

// Load reads configuration from the environment, with a .env file as
// fallback for local development.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:     getenv("HTTP_ADDR", defaultHTTPAddr),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", defaultKafkaTopic),
		LogMode:      strings.TrimSpace(os.Getenv("LOG_MODE")),
	}
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

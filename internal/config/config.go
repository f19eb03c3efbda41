// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Dataset source kinds.
const (
	DatasetSourceFile     = "file"
	DatasetSourcePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// AppPort is the HTTP listen port.
	AppPort string

	// AppEnv names the deployment environment (development, production).
	AppEnv string

	// LogLevel is the zerolog level name.
	LogLevel string

	// DatasetSource selects where the place dataset is loaded from:
	// "file" or "postgres".
	DatasetSource string

	// DatasetPath is the JSON dataset path when DatasetSource is "file".
	DatasetPath string

	// KakaoAPIKey is the REST key for the Kakao local search API. Empty
	// disables origin geocoding.
	KakaoAPIKey string

	// OTELEnabled turns on OTLP trace and metric export.
	OTELEnabled bool

	// OTLPEndpoint is the OTLP gRPC collector endpoint.
	OTLPEndpoint string

	// TraceSampleRatio is the trace sampling ratio in (0, 1].
	TraceSampleRatio float64

	// PubSubProject and PubSubSubscription configure the background
	// worker's job subscription.
	PubSubProject      string
	PubSubSubscription string
}

// Load reads the .env file, if any, and returns a populated Config.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatasetSource: getEnv("DATASET_SOURCE", DatasetSourceFile),
		DatasetPath:   getEnv("DATASET_PATH", "./data/pois.json"),
		KakaoAPIKey:   getEnv("KAKAO_API_KEY", ""),

		OTELEnabled:      getEnv("OTEL_ENABLED", "") == "true",
		OTLPEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TraceSampleRatio: getEnvFloat("OTEL_TRACE_SAMPLE_RATIO", 1.0),

		PubSubProject:      getEnv("PUBSUB_PROJECT", ""),
		PubSubSubscription: getEnv("PUBSUB_SUBSCRIPTION", "tastetrail-jobs"),
	}
}

// ZerologLevel parses LogLevel, defaulting to info.
func (c *Config) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

package config_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tastetrail/tastetrail/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, config.DatasetSourceFile, cfg.DatasetSource)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	assert.InDelta(t, 1.0, cfg.TraceSampleRatio, 0.001)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DATASET_SOURCE", config.DatasetSourcePostgres)
	t.Setenv("OTEL_TRACE_SAMPLE_RATIO", "0.25")
	t.Setenv("KAKAO_API_KEY", "test-key")

	cfg := config.Load()

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, config.DatasetSourcePostgres, cfg.DatasetSource)
	assert.InDelta(t, 0.25, cfg.TraceSampleRatio, 0.001)
	assert.Equal(t, "test-key", cfg.KakaoAPIKey)
}

func TestZerologLevel(t *testing.T) {
	cfg := &config.Config{LogLevel: "debug"}
	assert.Equal(t, zerolog.DebugLevel, cfg.ZerologLevel())

	cfg.LogLevel = "not-a-level"
	assert.Equal(t, zerolog.InfoLevel, cfg.ZerologLevel())
}

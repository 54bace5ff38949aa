package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 50, cfg.MaxEmailsPerRun)
	assert.Equal(t, 15*time.Second, cfg.EmailDelayMin())
	assert.Equal(t, 45*time.Second, cfg.EmailDelayMax())
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, []string{"apollo", "hunter"}, cfg.EnrichmentProviders)
	assert.InDelta(t, 0.7, cfg.LLMTemperature, 1e-9)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("ENRICHMENT_PROVIDERS", "hunter,apollo")
	t.Setenv("EMAIL_DELAY_MIN_SECONDS", "1")
	t.Setenv("EMAIL_DELAY_MAX_SECONDS", "2")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, []string{"hunter", "apollo"}, cfg.EnrichmentProviders)
	assert.Equal(t, time.Second, cfg.EmailDelayMin())
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestParseError(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	problems := cfg.Validate()
	assert.Contains(t, problems, "SMTP_HOST is not set, send mode is unavailable")
	assert.Contains(t, problems, "no enrichment provider key is set")

	cfg.OpenAIAPIKey = "sk-test"
	cfg.SMTPHost = "smtp.example.com"
	cfg.HunterAPIKey = "h"
	assert.Empty(t, cfg.Validate())

	cfg.LLMProvider = "bard"
	cfg.EmailDelayMaxSeconds = 1
	assert.Len(t, cfg.Validate(), 2)

	cfg.LLMProvider = "openai"
	cfg.EmailDelayMaxSeconds = 45
	cfg.RateLimitMaxRequests = 0
	assert.Equal(t, []string{"RATE_LIMIT_MAX_REQUESTS is not positive, API rate limiting is disabled"}, cfg.Validate())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("nonsense"))
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("[RUNNER] run finished", "sent", 2)
	logger.Debug("hidden")

	assert.Contains(t, stderr.String(), "run finished")
	assert.NotContains(t, stderr.String(), "hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &line))
	assert.Equal(t, "[RUNNER] run finished", line["msg"])
	assert.EqualValues(t, 2, line["sent"])
}

func TestSetupLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outreach.log")
	logger, cleanup := SetupLogger(path, slog.LevelInfo)
	logger.Info("hello")
	require.NoError(t, cleanup())

	_, cleanup = SetupLogger(filepath.Join(t.TempDir(), "missing", "dir", "x.log"), slog.LevelInfo)
	assert.NoError(t, cleanup())
}

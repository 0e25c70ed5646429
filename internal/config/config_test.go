package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("MODEL_API_KEY", "key")
	t.Setenv("USE_MOCK_STORE", "true")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "googleai/gemini-2.5-flash", cfg.ModelName)
	assert.Equal(t, int64(4), cfg.MaxConcurrentInvocations)
	assert.Empty(t, cfg.CorporateChat)
	assert.False(t, cfg.WebhookMode)
	assert.True(t, cfg.UseMockStore)
}

func TestLoadFromEnv_RequiredVars(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("MODEL_API_KEY", "key")
	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")

	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("MODEL_API_KEY", "")
	_, err = LoadFromEnv()
	assert.ErrorContains(t, err, "MODEL_API_KEY")
}

func TestLoadFromEnv_WebhookRequiresURL(t *testing.T) {
	setRequired(t)
	t.Setenv("WEBHOOK_MODE", "true")

	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "WEBHOOK_URL")

	t.Setenv("WEBHOOK_URL", "https://bot.example.com")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.WebhookMode)
	assert.Equal(t, "https://bot.example.com", cfg.WebhookURL)
}

func TestLoadFromEnv_ClickHouseRequiredWithoutMock(t *testing.T) {
	setRequired(t)
	t.Setenv("USE_MOCK_STORE", "")

	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "CLICKHOUSE_HOST")

	t.Setenv("CLICKHOUSE_HOST", "localhost")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.ClickHousePort)
	assert.Equal(t, "default", cfg.ClickHouseDatabase)
	assert.Equal(t, "default", cfg.ClickHouseUser)
}

func TestLoadFromEnv_InvalidConcurrency(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_CONCURRENT_INVOCATIONS", "zero")

	_, err := LoadFromEnv()
	assert.ErrorContains(t, err, "MAX_CONCURRENT_INVOCATIONS")
}

package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, 60*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, "temp", cfg.TempDir)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTimeout)
	assert.Contains(t, cfg.Attribution(), "Рекламный агент")
}

func TestLoadRequiresBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "key")

	_, err := Load()
	require.Error(t, err)
}

func TestValidateProviderKeys(t *testing.T) {
	cfg := &Config{Provider: ProviderOpenRouter, ProviderTimeout: time.Second}
	require.Error(t, cfg.Validate())

	cfg.OpenRouterKey = "k"
	require.NoError(t, cfg.Validate())

	cfg.Provider = "dalle"
	require.Error(t, cfg.Validate())
}

func TestAdminIDs(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("ADMIN_IDS", "10,20")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsAdmin(20))
	assert.False(t, cfg.IsAdmin(30))
}

func TestAttributionDisabled(t *testing.T) {
	cfg := &Config{AttributionText: "  "}
	assert.Equal(t, "", cfg.Attribution())
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "DEBUG"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "verbose"}).SlogLevel())
}

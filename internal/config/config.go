package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

type Config struct {
	// Core
	BotToken string `env:"BOT_TOKEN,required,notEmpty"`

	// Generation provider
	Provider        string        `env:"PROVIDER" envDefault:"gemini"`
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	GeminiModel     string        `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	OpenRouterKey   string        `env:"OPENROUTER_API_KEY"`
	OpenRouterModel string        `env:"OPENROUTER_MODEL" envDefault:"google/gemini-2.0-flash-001"`
	OpenRouterURL   string        `env:"OPENROUTER_API_URL" envDefault:"https://openrouter.ai/api/v1"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"60s"`

	// Storage
	TempDir     string `env:"TEMP_DIR" envDefault:"temp"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Conversation
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"2h"`
	AttributionText    string        `env:"ATTRIBUTION_TEXT" envDefault:"Сделано с помощью [Рекламный агент](https://t.me/advoffer_bot)"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Logging
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	LogTelegramChatID int64  `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int    `env:"LOG_TOPIC_ERROR"`
	LogTopicPost      int    `env:"LOG_TOPIC_POST"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the selected provider has the credentials it needs.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouterKey == "" {
			return errors.New("OPENROUTER_API_KEY is required for the openrouter provider")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.ProviderTimeout <= 0 {
		return errors.New("PROVIDER_TIMEOUT must be positive")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Attribution returns the footer appended to every post, or "" when disabled.
func (c *Config) Attribution() string {
	if strings.TrimSpace(c.AttributionText) == "" {
		return ""
	}
	return "\n\n" + c.AttributionText
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

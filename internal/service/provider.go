package service

import (
	"context"
	"fmt"

	"github.com/set-night/advoffer/internal/config"
)

// Sampling bounds a single generation call.
type Sampling struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
}

var (
	CaptionSampling = Sampling{
		Temperature:     config.CaptionTemperature,
		TopP:            config.CaptionTopP,
		MaxOutputTokens: config.CaptionMaxOutputTokens,
	}
	DraftSampling = Sampling{
		Temperature:     config.DraftTemperature,
		TopP:            config.DraftTopP,
		MaxOutputTokens: config.DraftMaxOutputTokens,
	}
)

// Provider is the external text/caption generation service. Both calls are
// stateless and may fail; an empty answer is reported as domain.ErrEmptyResponse.
type Provider interface {
	CaptionImage(ctx context.Context, image []byte, mimeType, instruction string, s Sampling) (string, error)
	GenerateText(ctx context.Context, prompt string, s Sampling) (string, error)
}

// NewProvider builds the provider selected in the config.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderOpenRouter:
		return NewOpenRouterProvider(cfg.OpenRouterKey, cfg.OpenRouterURL, cfg.OpenRouterModel), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

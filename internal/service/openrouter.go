package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/set-night/advoffer/internal/domain"
)

// OpenRouterProvider talks to OpenRouter through its OpenAI-compatible API.
type OpenRouterProvider struct {
	client openai.Client
	model  string
}

func NewOpenRouterProvider(apiKey, baseURL, model string, opts ...option.RequestOption) *OpenRouterProvider {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	reqOpts = append(reqOpts, opts...)
	return &OpenRouterProvider{
		client: openai.NewClient(reqOpts...),
		model:  model,
	}
}

func (p *OpenRouterProvider) CaptionImage(ctx context.Context, image []byte, mimeType, instruction string, s Sampling) (string, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
	msg := openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
		openai.TextContentPart(instruction),
	})
	return p.chat(ctx, "caption", msg, s)
}

func (p *OpenRouterProvider) GenerateText(ctx context.Context, prompt string, s Sampling) (string, error) {
	return p.chat(ctx, "text", openai.UserMessage(prompt), s)
}

func (p *OpenRouterProvider) chat(ctx context.Context, op string, msg openai.ChatCompletionMessageParamUnion, s Sampling) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(p.model),
		Messages:  []openai.ChatCompletionMessageParamUnion{msg},
		MaxTokens: openai.Int(int64(s.MaxOutputTokens)),
		TopP:      openai.Float(float64(s.TopP)),
	}
	// Gemini models behind OpenRouter reject a custom temperature
	if !strings.Contains(strings.ToLower(p.model), "gemini") {
		params.Temperature = openai.Float(float64(s.Temperature))
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openrouter %s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter %s: %w", op, domain.ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	slog.Debug("openrouter response",
		"op", op,
		"model", p.model,
		"length", len(text),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"duration", time.Since(start),
	)
	if text == "" {
		return "", fmt.Errorf("openrouter %s: %w", op, domain.ErrEmptyResponse)
	}
	return text, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/set-night/advoffer/internal/domain"
	"google.golang.org/genai"
)

type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, opts ...func(*genai.ClientConfig)) (*GeminiProvider, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cc)
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) CaptionImage(ctx context.Context, image []byte, mimeType, instruction string, s Sampling) (string, error) {
	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
		{Text: instruction},
	}
	return p.generate(ctx, "caption", []*genai.Content{{Role: "user", Parts: parts}}, s)
}

func (p *GeminiProvider) GenerateText(ctx context.Context, prompt string, s Sampling) (string, error) {
	parts := []*genai.Part{{Text: prompt}}
	return p.generate(ctx, "text", []*genai.Content{{Role: "user", Parts: parts}}, s)
}

func (p *GeminiProvider) generate(ctx context.Context, op string, contents []*genai.Content, s Sampling) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(s.Temperature),
		TopP:            genai.Ptr(s.TopP),
		MaxOutputTokens: s.MaxOutputTokens,
	}

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", op, err)
	}
	if resp == nil {
		return "", fmt.Errorf("gemini %s: %w", op, domain.ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Text())
	slog.Debug("gemini response",
		"op", op,
		"model", p.model,
		"length", len(text),
		"duration", time.Since(start),
	)
	if text == "" {
		return "", fmt.Errorf("gemini %s: %w", op, domain.ErrEmptyResponse)
	}
	return text, nil
}

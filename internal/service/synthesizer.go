package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/set-night/advoffer/internal/config"
	"github.com/set-night/advoffer/internal/domain"
)

const postPromptTemplate = `
*   **Визуальный контент:** %s
*   **Описание от пользователя:** %s

**Требования:**

1.  Слей воедино визуальный контент и описание пользователя, чтобы создать мощный эффект.
2.  Максимум 1-3 предложения, каждое слово должно цеплять.
3.  Включи 3-5 хештегов, которые заставят людей кликнуть.
4.  Используй дерзкий, провокационный тон.
5.  Выдели самые яркие детали из описания пользователя, чтобы вызвать максимальный интерес.

Пост должен вести от изображений к описанию и не оставлять шанса пройти мимо.
`

// ContentSynthesizer turns the visual summary and user description into post text.
type ContentSynthesizer struct {
	provider Provider
	timeout  time.Duration
}

func NewContentSynthesizer(provider Provider, timeout time.Duration) *ContentSynthesizer {
	return &ContentSynthesizer{provider: provider, timeout: timeout}
}

// Generate makes exactly one provider call. Any failure is reported as
// domain.ErrSynthesis; substituting a fallback is up to the caller.
func (s *ContentSynthesizer) Generate(ctx context.Context, combinedCaption, description string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.provider.GenerateText(ctx, BuildPostPrompt(combinedCaption, description), DraftSampling)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSynthesis, err)
	}
	return text, nil
}

func BuildPostPrompt(combinedCaption, description string) string {
	return fmt.Sprintf(postPromptTemplate, combinedCaption, description)
}

// CombineCaptions joins the photo captions in upload order. When nothing
// usable was captioned it returns config.FallbackVisualSummary.
func CombineCaptions(media []domain.MediaItem) string {
	captions := make([]string, 0, len(media))
	for _, m := range media {
		if c := strings.TrimSpace(m.Caption); c != "" {
			captions = append(captions, c)
		}
	}
	if len(captions) == 0 {
		return config.FallbackVisualSummary
	}
	return strings.Join(captions, " ")
}

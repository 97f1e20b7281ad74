package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/set-night/advoffer/internal/config"
	"github.com/set-night/advoffer/internal/domain"
)

// MediaIngestor stores inbound photos in the temp directory and captions them.
type MediaIngestor struct {
	provider Provider
	dir      string
	timeout  time.Duration
}

func NewMediaIngestor(provider Provider, dir string, timeout time.Duration) (*MediaIngestor, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &MediaIngestor{provider: provider, dir: dir, timeout: timeout}, nil
}

// Ingest writes the photo to {dir}/{ownerID}_{messageID}.jpg and asks the
// provider for a one-sentence caption. A caption failure still returns the
// stored item (with an empty caption) alongside a *domain.IngestionError.
func (m *MediaIngestor) Ingest(ctx context.Context, data []byte, ownerID int64, messageID int) (domain.MediaItem, error) {
	if len(data) == 0 {
		return domain.MediaItem{}, &domain.IngestionError{
			Stage: domain.StageDownload,
			Err:   errors.New("no image data"),
		}
	}

	path := filepath.Join(m.dir, fmt.Sprintf("%d_%d.jpg", ownerID, messageID))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return domain.MediaItem{}, &domain.IngestionError{Stage: domain.StageStore, Path: path, Err: err}
	}
	item := domain.MediaItem{Path: path}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	caption, err := m.provider.CaptionImage(ctx, data, detectImageType(data), config.CaptionInstruction, CaptionSampling)
	if err != nil {
		return item, &domain.IngestionError{Stage: domain.StageCaption, Path: path, Err: err}
	}
	item.Caption = caption

	slog.Debug("photo ingested", "user_id", ownerID, "path", path, "caption_length", len(caption))
	return item, nil
}

func detectImageType(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/jpeg"
}

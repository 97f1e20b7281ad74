package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/set-night/advoffer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestStoresAndCaptions(t *testing.T) {
	dir := t.TempDir()
	provider := &fakeProvider{captions: []string{"A blue bicycle."}}
	ingestor, err := NewMediaIngestor(provider, dir, time.Second)
	require.NoError(t, err)

	item, err := ingestor.Ingest(context.Background(), jpegBytes, 7, 55)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "7_55.jpg"), item.Path)
	assert.Equal(t, "A blue bicycle.", item.Caption)

	data, err := os.ReadFile(item.Path)
	require.NoError(t, err)
	assert.Equal(t, jpegBytes, data)

	assert.Equal(t, "image/jpeg", provider.lastMime)
	assert.Equal(t, CaptionSampling, provider.lastSampling)
	assert.EqualValues(t, 100, provider.lastSampling.MaxOutputTokens)
}

func TestIngestCaptionFailureReturnsItem(t *testing.T) {
	dir := t.TempDir()
	provider := &fakeProvider{captionErr: errors.New("503")}
	ingestor, err := NewMediaIngestor(provider, dir, time.Second)
	require.NoError(t, err)

	item, err := ingestor.Ingest(context.Background(), jpegBytes, 7, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIngestion)

	var ierr *domain.IngestionError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, domain.StageCaption, ierr.Stage)
	assert.True(t, ierr.Usable())

	assert.Equal(t, "", item.Caption)
	assert.FileExists(t, item.Path)
}

func TestIngestEmptyData(t *testing.T) {
	provider := &fakeProvider{}
	ingestor, err := NewMediaIngestor(provider, t.TempDir(), time.Second)
	require.NoError(t, err)

	item, err := ingestor.Ingest(context.Background(), nil, 7, 1)
	var ierr *domain.IngestionError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, domain.StageDownload, ierr.Stage)
	assert.False(t, ierr.Usable())
	assert.Equal(t, domain.MediaItem{}, item)
	assert.Equal(t, 0, provider.captionCalls)
}

func TestIngestStoreFailure(t *testing.T) {
	dir := t.TempDir()
	ingestor, err := NewMediaIngestor(&fakeProvider{}, dir, time.Second)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	item, err := ingestor.Ingest(context.Background(), jpegBytes, 7, 1)
	var ierr *domain.IngestionError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, domain.StageStore, ierr.Stage)
	assert.Equal(t, domain.MediaItem{}, item)
}

func TestNewMediaIngestorCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "temp")
	_, err := NewMediaIngestor(&fakeProvider{}, dir, time.Second)
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestDetectImageType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	assert.Equal(t, "image/png", detectImageType(png))
	assert.Equal(t, "image/jpeg", detectImageType(jpegBytes))
	assert.Equal(t, "image/jpeg", detectImageType([]byte("plain text")))
}

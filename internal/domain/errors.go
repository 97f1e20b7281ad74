package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrIngestion         = errors.New("media ingestion failed")
	ErrSynthesis         = errors.New("post synthesis failed")
	ErrProtocolViolation = errors.New("event not valid for current state")
	ErrUnknownAction     = errors.New("unknown action")
	ErrEmptyResponse     = errors.New("empty response from provider")
)

// IngestStage is the step of media ingestion that failed.
type IngestStage string

const (
	StageDownload IngestStage = "download"
	StageStore    IngestStage = "store"
	StageCaption  IngestStage = "caption"
)

// IngestionError reports a failure to ingest a single photo. When Stage is
// StageCaption the photo was stored and the returned item is still usable.
type IngestionError struct {
	Stage IngestStage
	Path  string
	Err   error
}

func (e *IngestionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("ingest %s (%s): %v", e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("ingest %s: %v", e.Stage, e.Err)
}

func (e *IngestionError) Unwrap() []error {
	return []error{ErrIngestion, e.Err}
}

// Usable reports whether the media item survived the failure.
func (e *IngestionError) Usable() bool {
	return e.Stage == StageCaption
}

package service

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/set-night/advoffer/internal/domain"
)

// Release deletes the session's temp files and clears its transient fields.
// Failures are logged and skipped. Calling it again is a no-op.
func Release(s *domain.Session) {
	if s == nil {
		return
	}
	for _, m := range s.Media {
		if m.Path == "" {
			continue
		}
		if err := os.Remove(m.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Error("remove temp media", "user_id", s.UserID, "path", m.Path, "error", err)
		}
	}
	s.Media = nil
	s.PendingStatus = nil
	s.CombinedCaption = nil
}

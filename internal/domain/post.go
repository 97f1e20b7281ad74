package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is an accepted post kept in the archive.
type Post struct {
	ID          uuid.UUID
	UserID      int64
	ChatID      int64
	Text        string
	Description string
	PhotoCount  int
	CreatedAt   time.Time
}

// NewPost builds an archive record from a session holding an accepted draft.
func NewPost(s *Session, now time.Time) *Post {
	return &Post{
		ID:          uuid.New(),
		UserID:      s.UserID,
		ChatID:      s.ChatID,
		Text:        s.Draft(),
		Description: s.DescriptionText(),
		PhotoCount:  len(s.Media),
		CreatedAt:   now,
	}
}

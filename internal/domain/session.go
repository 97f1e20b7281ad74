package domain

import (
	"time"
)

// State is the position of a conversation in the post workflow.
type State string

const (
	// StateNone means no session exists for the user.
	StateNone                 State = ""
	StateAwaitingPhotos       State = "awaiting_photos"
	StateAwaitingDescription  State = "awaiting_description"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateAwaitingCorrection   State = "awaiting_correction"
	StateTerminated           State = "terminated"
)

func (s State) String() string {
	if s == StateNone {
		return "none"
	}
	return string(s)
}

// IsTerminal reports whether no further events are processed in this state.
func (s State) IsTerminal() bool {
	return s == StateTerminated
}

// MediaItem is one uploaded photo and its generated caption.
// Caption is empty when caption generation failed.
type MediaItem struct {
	Path    string
	Caption string
}

// Session is the per-user conversation state.
//
// Description, CombinedCaption and CurrentDraft are nil until set. An empty
// Description means the user skipped it (or sent an empty one), which is
// different from never having been asked.
type Session struct {
	UserID int64
	ChatID int64
	State  State

	Media           []MediaItem
	Description     *string
	CombinedCaption *string
	CurrentDraft    *string

	// PendingStatus holds message IDs of progress notices still on screen.
	// They are deleted once photo collection ends.
	PendingStatus []int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewSession(userID, chatID int64, now time.Time) *Session {
	return &Session{
		UserID:    userID,
		ChatID:    chatID,
		State:     StateAwaitingPhotos,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) HasMedia() bool {
	return len(s.Media) > 0
}

func (s *Session) HasDraft() bool {
	return s.CurrentDraft != nil
}

// Draft returns the current draft or an empty string when none exists yet.
func (s *Session) Draft() string {
	if s.CurrentDraft == nil {
		return ""
	}
	return *s.CurrentDraft
}

func (s *Session) SetDraft(text string) {
	s.CurrentDraft = &text
}

func (s *Session) SetDescription(text string) {
	s.Description = &text
}

// DescriptionText returns the description, treating "not asked" as empty.
func (s *Session) DescriptionText() string {
	if s.Description == nil {
		return ""
	}
	return *s.Description
}

// MediaPaths returns the temp file paths in upload order.
func (s *Session) MediaPaths() []string {
	paths := make([]string, 0, len(s.Media))
	for _, m := range s.Media {
		paths = append(paths, m.Path)
	}
	return paths
}

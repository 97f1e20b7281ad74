package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionDescriptionAbsentVsEmpty(t *testing.T) {
	s := NewSession(1, 1, time.Now())
	assert.Nil(t, s.Description)
	assert.Equal(t, "", s.DescriptionText())

	s.SetDescription("")
	require.NotNil(t, s.Description)
	assert.Equal(t, "", *s.Description)
}

func TestSessionDraft(t *testing.T) {
	s := NewSession(1, 1, time.Now())
	assert.False(t, s.HasDraft())
	assert.Equal(t, "", s.Draft())

	s.SetDraft("hello")
	assert.True(t, s.HasDraft())
	assert.Equal(t, "hello", s.Draft())
}

func TestSessionMediaPathsKeepOrder(t *testing.T) {
	s := NewSession(1, 1, time.Now())
	s.Media = []MediaItem{{Path: "a"}, {Path: "b"}, {Path: "c"}}
	assert.Equal(t, []string{"a", "b", "c"}, s.MediaPaths())
}

func TestActionKnown(t *testing.T) {
	for _, a := range []Action{ActionAddDescription, ActionNoDescription, ActionAccept, ActionEdit, ActionRegenerate} {
		assert.True(t, a.Known(), a)
	}
	assert.False(t, Action("publish").Known())
}

func TestIngestionErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := error(&IngestionError{Stage: StageCaption, Path: "x.jpg", Err: cause})

	assert.ErrorIs(t, err, ErrIngestion)
	assert.ErrorIs(t, err, cause)

	var ierr *IngestionError
	require.ErrorAs(t, err, &ierr)
	assert.True(t, ierr.Usable())
	assert.False(t, (&IngestionError{Stage: StageStore}).Usable())
}

func TestEditReplyWithoutMessageFallsBackToText(t *testing.T) {
	out := EditReply(0, "hi")
	assert.Equal(t, OutboundText, out.Kind)

	out = EditReply(42, "hi")
	assert.Equal(t, OutboundEdit, out.Kind)
	assert.Equal(t, 42, out.MessageID)
}

func TestNewPost(t *testing.T) {
	s := NewSession(7, 8, time.Now())
	s.Media = []MediaItem{{Path: "a"}, {Path: "b"}}
	s.SetDescription("cheap")
	s.SetDraft("Buy now #deal")

	p := NewPost(s, time.Now())
	assert.Equal(t, int64(7), p.UserID)
	assert.Equal(t, int64(8), p.ChatID)
	assert.Equal(t, "Buy now #deal", p.Text)
	assert.Equal(t, "cheap", p.Description)
	assert.Equal(t, 2, p.PhotoCount)
	assert.NotEmpty(t, p.ID.String())
}

func TestDeleteReply(t *testing.T) {
	o := DeleteReply(17)
	assert.Equal(t, OutboundDelete, o.Kind)
	assert.Equal(t, 17, o.MessageID)
	assert.Empty(t, o.Text)
}

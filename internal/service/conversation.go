package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/set-night/advoffer/internal/config"
	"github.com/set-night/advoffer/internal/domain"
)

const (
	msgWelcome            = "👋 Hi! Send me one or more photos for your post.\n\nType /done when you have sent them all."
	msgNoSession          = "Send /start to create a new post."
	msgCancelled          = "Operation cancelled. Send /start to begin again."
	msgExpired            = "⌛ Your post draft expired after a period of inactivity. Send /start to begin again."
	msgNeedPhoto          = "You haven't sent any photos yet! Please send at least one photo."
	msgPhotoDone          = "✅ Photo %d processed.\n\nYou can send more photos or type /done to continue."
	msgPhotoFailed        = "❌ Failed to process this photo. Please try sending it again or /cancel to start over."
	msgPhotoCaptionFailed = "⚠️ Photo %d saved, but I couldn't describe it.\n\nYou can send more photos or type /done to continue."
	msgPhotoNotExpected   = "Photos can only be added before /done. Send /start to begin a new post."
	msgSendPhotos         = "Send me photos for your post, or type /done when you have finished."
	msgAskDescription     = "Would you like to add a description to your post?"
	msgEnterDescription   = "✍️ *Please send your description now:*\n(Features, price, contact info, etc.)"
	msgChooseAction       = "What would you like to do with this post?"
	msgUseButtons         = "Please use the buttons below the post."
	msgNewVersion         = "📝 New version generated!"
	msgGeneratedPlain     = "📝 Post generated without a description."
	msgApproved           = "✅ Post approved!\n\nUse /start to create another post."
	msgEditCurrent        = "✏️ Current post text:\n\n%s\n\nPlease send your corrected version in the chat."
	msgEmptyCorrection    = "The post text can't be empty. Please send your corrected version."
	msgUnknownAction      = "⚠️ Unknown action. Please try again."
	msgNoDraftYet         = "There is no post yet. Please choose whether to add a description first."
)

var (
	descriptionButtons = []domain.Button{
		{Label: "✏️ Add description", Action: domain.ActionAddDescription},
		{Label: "⏭ Skip", Action: domain.ActionNoDescription},
	}
	draftButtons = []domain.Button{
		{Label: "👍 Accept", Action: domain.ActionAccept},
		{Label: "✏️ Edit", Action: domain.ActionEdit},
		{Label: "🔄 Regenerate", Action: domain.ActionRegenerate},
	}
)

// Ingestor stores and captions a single photo.
type Ingestor interface {
	Ingest(ctx context.Context, data []byte, ownerID int64, messageID int) (domain.MediaItem, error)
}

// Synthesizer produces post text from the photo summary and description.
type Synthesizer interface {
	Generate(ctx context.Context, combinedCaption, description string) (string, error)
}

// PostArchive records accepted posts.
type PostArchive interface {
	Save(ctx context.Context, post *domain.Post) error
}

// PostArchiveFunc adapts a function to PostArchive.
type PostArchiveFunc func(ctx context.Context, post *domain.Post) error

func (f PostArchiveFunc) Save(ctx context.Context, post *domain.Post) error {
	return f(ctx, post)
}

// Archives fans an accepted post out to several archives, joining their errors.
func Archives(archives ...PostArchive) PostArchive {
	return PostArchiveFunc(func(ctx context.Context, post *domain.Post) error {
		var errs []error
		for _, a := range archives {
			if a == nil {
				continue
			}
			if err := a.Save(ctx, post); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// ConversationService is the per-user state machine driving the post workflow.
type ConversationService struct {
	store       *SessionStore
	ingestor    Ingestor
	synthesizer Synthesizer
	archive     PostArchive
	attribution string
	now         func() time.Time
}

// ConversationDeps contains the collaborators of a ConversationService.
// Archive may be nil.
type ConversationDeps struct {
	Store       *SessionStore
	Ingestor    Ingestor
	Synthesizer Synthesizer
	Archive     PostArchive
	Attribution string
	Now         func() time.Time
}

func NewConversationService(deps ConversationDeps) *ConversationService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ConversationService{
		store:       deps.Store,
		ingestor:    deps.Ingestor,
		synthesizer: deps.Synthesizer,
		archive:     deps.Archive,
		attribution: deps.Attribution,
		now:         now,
	}
}

// HandleEvent processes one event for a user and returns the resulting state
// with the messages to deliver. Events for the same user are serialized.
func (c *ConversationService) HandleEvent(ctx context.Context, userID, chatID int64, ev domain.Event) (domain.State, []domain.Outbound) {
	unlock := c.store.Lock(userID)
	defer unlock()

	// A missing session is a valid input: only Start creates one.
	session, _ := c.store.Get(userID)

	switch ev.Kind {
	case domain.EventStart:
		return c.start(userID, chatID, session)
	case domain.EventCancel:
		return c.cancel(userID, session)
	}

	if session == nil {
		slog.Debug("event without session", "user_id", userID, "event", ev.Kind)
		return domain.StateNone, []domain.Outbound{domain.EditReply(ev.StatusMessageID, msgNoSession)}
	}

	from := session.State
	var out []domain.Outbound
	switch session.State {
	case domain.StateAwaitingPhotos:
		out = c.onAwaitingPhotos(ctx, session, ev)
	case domain.StateAwaitingDescription:
		out = c.onAwaitingDescription(ctx, session, ev)
	case domain.StateAwaitingConfirmation:
		out = c.onAwaitingConfirmation(ctx, session, ev)
	case domain.StateAwaitingCorrection:
		out = c.onAwaitingCorrection(session, ev)
	default:
		out = c.protocolViolation(session, ev, msgNoSession)
	}

	if from != session.State {
		slog.Info("session state changed",
			"user_id", userID,
			"event", ev.Kind.String(),
			"from", from.String(),
			"to", session.State.String(),
		)
	}
	c.persist(ctx, session)
	return session.State, out
}

// Expire terminates an idle session. It returns false when the session was
// already gone or became active again after the cutoff.
func (c *ConversationService) Expire(userID int64, cutoff time.Time) (int64, []domain.Outbound, bool) {
	unlock := c.store.Lock(userID)
	defer unlock()

	session, err := c.store.Get(userID)
	if err != nil || !session.UpdatedAt.Before(cutoff) {
		return 0, nil, false
	}

	slog.Info("session expired", "user_id", userID, "state", session.State.String())
	out := append(dropNotices(session), domain.TextReply(msgExpired))
	session.State = domain.StateTerminated
	Release(session)
	c.store.Remove(userID)
	return session.ChatID, out, true
}

// IdleUsers lists users whose session has not changed since cutoff.
func (c *ConversationService) IdleUsers(cutoff time.Time) []int64 {
	return c.store.Idle(cutoff)
}

// ActiveSessions reports how many conversations are in progress.
func (c *ConversationService) ActiveSessions() int {
	return c.store.Len()
}

func (c *ConversationService) start(userID, chatID int64, old *domain.Session) (domain.State, []domain.Outbound) {
	var out []domain.Outbound
	if old != nil {
		out = dropNotices(old)
		Release(old)
	}
	session := domain.NewSession(userID, chatID, c.now())
	c.store.Put(session)

	slog.Info("session started", "user_id", userID, "chat_id", chatID, "restarted", old != nil)
	return session.State, append(out, domain.TextReply(msgWelcome))
}

func (c *ConversationService) cancel(userID int64, session *domain.Session) (domain.State, []domain.Outbound) {
	if session == nil {
		return domain.StateNone, []domain.Outbound{domain.TextReply(msgCancelled)}
	}

	slog.Info("session cancelled", "user_id", userID, "state", session.State.String())
	out := append(dropNotices(session), domain.TextReply(msgCancelled))
	session.State = domain.StateTerminated
	Release(session)
	c.store.Remove(userID)
	return domain.StateTerminated, out
}

func (c *ConversationService) onAwaitingPhotos(ctx context.Context, s *domain.Session, ev domain.Event) []domain.Outbound {
	switch ev.Kind {
	case domain.EventPhoto:
		return c.ingest(ctx, s, ev)
	case domain.EventDone:
		return c.done(s)
	case domain.EventButton:
		if ev.Action == domain.ActionAddDescription {
			s.State = domain.StateAwaitingDescription
			return []domain.Outbound{markdown(domain.EditReply(ev.MessageID, msgEnterDescription))}
		}
	}
	return c.protocolViolation(s, ev, msgSendPhotos)
}

func (c *ConversationService) onAwaitingDescription(ctx context.Context, s *domain.Session, ev domain.Event) []domain.Outbound {
	switch ev.Kind {
	case domain.EventText:
		s.SetDescription(strings.TrimSpace(ev.Text))
		s.State = domain.StateAwaitingConfirmation
		c.generate(ctx, s)
		return c.presentDraft(s)
	case domain.EventDone:
		return c.done(s)
	}
	return c.protocolViolation(s, ev, msgEnterDescription)
}

func (c *ConversationService) onAwaitingConfirmation(ctx context.Context, s *domain.Session, ev domain.Event) []domain.Outbound {
	if ev.Kind != domain.EventButton {
		if s.HasDraft() {
			return c.protocolViolation(s, ev, msgUseButtons, draftButtons)
		}
		return c.protocolViolation(s, ev, msgAskDescription, descriptionButtons)
	}

	switch ev.Action {
	case domain.ActionNoDescription:
		s.SetDescription("")
		c.generate(ctx, s)
		return append([]domain.Outbound{domain.EditReply(ev.MessageID, msgGeneratedPlain)}, c.presentDraft(s)...)

	case domain.ActionAddDescription:
		s.State = domain.StateAwaitingDescription
		return []domain.Outbound{markdown(domain.EditReply(ev.MessageID, msgEnterDescription))}

	case domain.ActionAccept:
		if !s.HasDraft() {
			return c.protocolViolation(s, ev, msgNoDraftYet, descriptionButtons)
		}
		c.archivePost(ctx, s)
		s.State = domain.StateTerminated
		return []domain.Outbound{domain.EditReply(ev.MessageID, msgApproved)}

	case domain.ActionEdit:
		if !s.HasDraft() {
			return c.protocolViolation(s, ev, msgNoDraftYet, descriptionButtons)
		}
		s.State = domain.StateAwaitingCorrection
		return []domain.Outbound{domain.EditReply(ev.MessageID, fmt.Sprintf(msgEditCurrent, s.Draft()))}

	case domain.ActionRegenerate:
		if !s.HasDraft() {
			return c.protocolViolation(s, ev, msgNoDraftYet, descriptionButtons)
		}
		c.generate(ctx, s)
		return append([]domain.Outbound{domain.EditReply(ev.MessageID, msgNewVersion)}, c.presentDraft(s)...)
	}

	slog.Warn("unknown button action",
		"user_id", s.UserID,
		"state", s.State.String(),
		"action", string(ev.Action),
		"error", domain.ErrUnknownAction,
	)
	return []domain.Outbound{domain.EditReply(ev.MessageID, msgUnknownAction)}
}

func (c *ConversationService) onAwaitingCorrection(s *domain.Session, ev domain.Event) []domain.Outbound {
	if ev.Kind != domain.EventText {
		return c.protocolViolation(s, ev, fmt.Sprintf(msgEditCurrent, s.Draft()))
	}
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return c.protocolViolation(s, ev, msgEmptyCorrection)
	}
	s.SetDraft(text)
	s.State = domain.StateAwaitingConfirmation
	return c.presentDraft(s)
}

func (c *ConversationService) ingest(ctx context.Context, s *domain.Session, ev domain.Event) []domain.Outbound {
	if ev.StatusMessageID != 0 {
		s.PendingStatus = append(s.PendingStatus, ev.StatusMessageID)
	}

	item, err := c.ingestor.Ingest(ctx, ev.Photo, s.UserID, ev.MessageID)
	if err != nil {
		var ierr *domain.IngestionError
		usable := errors.As(err, &ierr) && ierr.Usable()
		slog.Error("photo ingestion failed",
			"user_id", s.UserID,
			"state", s.State.String(),
			"event", ev.Kind.String(),
			"message_id", ev.MessageID,
			"kept", usable,
			"error", err,
		)
		if !usable {
			return []domain.Outbound{domain.EditReply(ev.StatusMessageID, msgPhotoFailed)}
		}
		s.Media = append(s.Media, item)
		return []domain.Outbound{domain.EditReply(ev.StatusMessageID, fmt.Sprintf(msgPhotoCaptionFailed, len(s.Media)))}
	}

	s.Media = append(s.Media, item)
	return []domain.Outbound{domain.EditReply(ev.StatusMessageID, fmt.Sprintf(msgPhotoDone, len(s.Media)))}
}

func (c *ConversationService) done(s *domain.Session) []domain.Outbound {
	if !s.HasMedia() {
		return []domain.Outbound{domain.TextReply(msgNeedPhoto)}
	}
	s.State = domain.StateAwaitingConfirmation
	return append(dropNotices(s), domain.TextReply(msgAskDescription, descriptionButtons))
}

// dropNotices deletes the per-photo progress notices once photo collection is
// over and forgets them.
func dropNotices(s *domain.Session) []domain.Outbound {
	out := make([]domain.Outbound, 0, len(s.PendingStatus)+1)
	for _, id := range s.PendingStatus {
		out = append(out, domain.DeleteReply(id))
	}
	s.PendingStatus = nil
	return out
}

// generate stores a fresh draft on the session, falling back to a canned
// text when the provider fails. The combined caption is computed once.
func (c *ConversationService) generate(ctx context.Context, s *domain.Session) {
	if s.CombinedCaption == nil {
		combined := CombineCaptions(s.Media)
		s.CombinedCaption = &combined
	}

	draft, err := c.synthesizer.Generate(ctx, *s.CombinedCaption, s.DescriptionText())
	if err != nil || strings.TrimSpace(draft) == "" {
		slog.Error("post generation failed, using fallback",
			"user_id", s.UserID,
			"state", s.State.String(),
			"error", err,
		)
		draft = config.FallbackDraft
	}
	s.SetDraft(draft)
}

func (c *ConversationService) presentDraft(s *domain.Session) []domain.Outbound {
	return []domain.Outbound{
		domain.PostReply(s.MediaPaths(), s.Draft()+c.attribution),
		domain.TextReply(msgChooseAction, draftButtons),
	}
}

func (c *ConversationService) archivePost(ctx context.Context, s *domain.Session) {
	if c.archive == nil {
		return
	}
	post := domain.NewPost(s, c.now())
	if err := c.archive.Save(ctx, post); err != nil {
		slog.Error("archive post", "user_id", s.UserID, "post_id", post.ID, "error", err)
	}
}

func (c *ConversationService) protocolViolation(s *domain.Session, ev domain.Event, prompt string, rows ...[]domain.Button) []domain.Outbound {
	slog.Warn("event ignored",
		"user_id", s.UserID,
		"state", s.State.String(),
		"event", ev.Kind.String(),
		"error", domain.ErrProtocolViolation,
	)
	if ev.Kind == domain.EventPhoto && ev.StatusMessageID != 0 {
		return []domain.Outbound{domain.EditReply(ev.StatusMessageID, msgPhotoNotExpected)}
	}
	if ev.Kind == domain.EventPhoto {
		return []domain.Outbound{domain.TextReply(msgPhotoNotExpected)}
	}
	return []domain.Outbound{domain.TextReply(prompt, rows...)}
}

// persist stores the session, or releases and drops it after a terminal transition.
func (c *ConversationService) persist(ctx context.Context, s *domain.Session) {
	if s.State.IsTerminal() {
		Release(s)
		c.store.Remove(s.UserID)
		return
	}
	if ctx.Err() != nil {
		slog.Warn("event finished after context cancellation", "user_id", s.UserID, "error", ctx.Err())
	}
	s.UpdatedAt = c.now()
	c.store.Put(s)
}

func markdown(o domain.Outbound) domain.Outbound {
	o.Markdown = true
	return o
}

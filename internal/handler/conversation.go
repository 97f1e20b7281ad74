package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/advoffer/internal/domain"
	"github.com/set-night/advoffer/internal/middleware"
	tg "github.com/set-night/advoffer/internal/telegram"
)

const msgProcessingPhoto = "🖼️ Processing photo..."

// Conversation handlers only queue work. The bot runs handlers synchronously,
// so queueing happens in update order and each user's queue replays it.

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.submit(ctx, b, func(ctx context.Context, id middleware.Identity) {
		h.dispatch(ctx, b, id, domain.StartEvent())
	})
}

func (h *Handler) handleDone(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.submit(ctx, b, func(ctx context.Context, id middleware.Identity) {
		h.dispatch(ctx, b, id, domain.DoneEvent())
	})
}

func (h *Handler) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.submit(ctx, b, func(ctx context.Context, id middleware.Identity) {
		h.dispatch(ctx, b, id, domain.CancelEvent())
	})
}

func (h *Handler) handleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	text := update.Message.Text
	h.submit(ctx, b, func(ctx context.Context, id middleware.Identity) {
		h.dispatch(ctx, b, id, domain.TextEvent(text))
	})
}

func (h *Handler) handlePhoto(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	photo, ok := tg.LargestPhoto(msg.Photo)
	if !ok {
		return
	}

	h.submit(ctx, b, func(ctx context.Context, id middleware.Identity) {
		statusID := 0
		status, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:          id.ChatID,
			Text:            msgProcessingPhoto,
			ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
		})
		if err != nil {
			slog.Warn("send photo status", "chat_id", id.ChatID, "error", err)
		} else {
			statusID = status.ID
		}

		data, err := tg.DownloadFile(ctx, b, photo.FileID)
		if err != nil {
			slog.Error("download photo", "chat_id", id.ChatID, "file_id", photo.FileID, "error", err)
		}

		h.dispatch(ctx, b, id, domain.PhotoEvent(data, msg.ID, statusID))
	})
}

func (h *Handler) handleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}

	messageID := 0
	if cq.Message.Message != nil {
		messageID = cq.Message.Message.ID
	}
	action := domain.Action(cq.Data)

	h.submit(ctx, b, func(ctx context.Context, id middleware.Identity) {
		answerCallback(ctx, b, update)
		h.dispatch(ctx, b, id, domain.ButtonEvent(action, messageID))
	})
}

// submit queues work for the update's sender. Updates without a sender are
// ignored.
func (h *Handler) submit(ctx context.Context, b *bot.Bot, job func(ctx context.Context, id middleware.Identity)) {
	id, ok := middleware.GetIdentity(ctx)
	if !ok {
		return
	}

	h.queues.Submit(id.UserID, func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic recovered in conversation", "panic", r, "user_id", id.UserID)
				tg.SendText(ctx, b, id.ChatID, "An error occurred. Please try again.", false, nil)
			}
		}()
		job(ctx, id)
	})
}

// dispatch runs one event through the conversation and delivers the replies.
func (h *Handler) dispatch(ctx context.Context, b *bot.Bot, id middleware.Identity, ev domain.Event) {
	stopTyping := tg.StartTyping(ctx, b, id.ChatID)
	state, out := h.conversation.HandleEvent(ctx, id.UserID, id.ChatID, ev)
	stopTyping()

	slog.Debug("event handled",
		"user_id", id.UserID,
		"event", ev.Kind.String(),
		"state", state.String(),
		"replies", len(out),
	)
	h.render(ctx, b, id.ChatID, out)
}

// ExpireIdle terminates sessions idle for longer than the configured timeout
// and tells their owners. Expiry is queued behind the user's pending events.
func (h *Handler) ExpireIdle(ctx context.Context) {
	cutoff := time.Now().Add(-h.cfg.SessionIdleTimeout)
	for _, userID := range h.conversation.IdleUsers(cutoff) {
		h.queues.Submit(userID, func() {
			chatID, out, ok := h.conversation.Expire(userID, cutoff)
			if !ok {
				return
			}
			h.render(ctx, h.bot, chatID, out)
		})
	}
}

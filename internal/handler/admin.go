package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/advoffer/internal/middleware"
	tg "github.com/set-night/advoffer/internal/telegram"
)

// handleStat shows admins how many conversations are running and how many
// posts have been accepted.
func (h *Handler) handleStat(ctx context.Context, b *bot.Bot, update *models.Update) {
	id, ok := middleware.GetIdentity(ctx)
	if !ok || !h.cfg.IsAdmin(id.UserID) {
		return
	}

	h.submit(ctx, b, func(ctx context.Context, id middleware.Identity) {
		tg.SendText(ctx, b, id.ChatID, h.statText(ctx), false, nil)
	})
}

func (h *Handler) statText(ctx context.Context) string {
	text := fmt.Sprintf("📊 Stats\n\nActive sessions: %d", h.conversation.ActiveSessions())
	if h.posts != nil {
		count, err := h.posts.Count(ctx)
		if err != nil {
			slog.Error("count posts", "error", err)
		} else {
			text += fmt.Sprintf("\nAccepted posts: %d", count)
		}
	}
	return text
}

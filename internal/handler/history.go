package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/advoffer/internal/middleware"
	tg "github.com/set-night/advoffer/internal/telegram"
)

const historyLimit = 5

// handleHistory lists the user's most recently accepted posts.
func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.submit(ctx, b, func(ctx context.Context, id middleware.Identity) {
		tg.SendText(ctx, b, id.ChatID, h.historyText(ctx, id.UserID), false, nil)
	})
}

func (h *Handler) historyText(ctx context.Context, userID int64) string {
	if h.posts == nil {
		return "Post history is not available."
	}

	posts, err := h.posts.ListByUser(ctx, userID, historyLimit)
	if err != nil {
		slog.Error("list posts", "user_id", userID, "error", err)
		return "❌ Could not load your posts. Please try again later."
	}
	if len(posts) == 0 {
		return "You have no accepted posts yet. Send /start to create one."
	}

	var sb strings.Builder
	sb.WriteString("🗂 Your recent posts:\n")
	for i, p := range posts {
		fmt.Fprintf(&sb, "\n%d. %s (%d photos)\n%s\n", i+1, p.CreatedAt.Format("2006-01-02 15:04"), p.PhotoCount, p.Text)
	}
	return sb.String()
}

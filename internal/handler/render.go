package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/set-night/advoffer/internal/domain"
	tg "github.com/set-night/advoffer/internal/telegram"
)

// render delivers outbound messages in order. A failed message is logged and
// the rest are still sent.
func (h *Handler) render(ctx context.Context, b *bot.Bot, chatID int64, out []domain.Outbound) {
	for _, o := range out {
		var err error
		keyboard := tg.ActionKeyboard(o.Buttons)

		switch o.Kind {
		case domain.OutboundEdit:
			err = tg.EditText(ctx, b, chatID, o.MessageID, o.Text, o.Markdown, keyboard)
			if err != nil {
				slog.Warn("edit failed, sending new message", "chat_id", chatID, "message_id", o.MessageID, "error", err)
				err = tg.SendText(ctx, b, chatID, o.Text, o.Markdown, keyboard)
			}
		case domain.OutboundPost:
			err = tg.SendPhotoGroup(ctx, b, chatID, o.Photos, o.Text)
		case domain.OutboundDelete:
			// The notice may already be gone.
			if err := tg.DeleteMessage(ctx, b, chatID, o.MessageID); err != nil {
				slog.Warn("delete notice", "chat_id", chatID, "message_id", o.MessageID, "error", err)
			}
			continue
		default:
			err = tg.SendText(ctx, b, chatID, o.Text, o.Markdown, keyboard)
		}

		if err != nil {
			slog.Error("deliver reply", "chat_id", chatID, "kind", o.Kind, "error", err)
			h.tgLogger.LogError(err, "deliver reply")
		}
	}
}

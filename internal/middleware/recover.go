package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Recover returns middleware that recovers from panics and tells the user
// something went wrong.
func Recover() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					id := IdentityFromUpdate(update)
					slog.Error("panic recovered in handler",
						"panic", r,
						"update_id", update.ID,
						"user_id", id.UserID,
						"stack", string(debug.Stack()),
					)
					if id.ChatID != 0 {
						b.SendMessage(ctx, &bot.SendMessageParams{
							ChatID: id.ChatID,
							Text:   "An error occurred. Please try again.",
						})
					}
				}
			}()
			next(ctx, b, update)
		}
	}
}

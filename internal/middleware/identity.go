package middleware

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type ctxKey string

const IdentityKey ctxKey = "identity"

// Identity is the user and chat an update belongs to.
type Identity struct {
	UserID    int64
	ChatID    int64
	FirstName string
}

// GetIdentity extracts the identity from context.
func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(Identity)
	return id, ok
}

// IdentityFromUpdate resolves who sent an update. Callback queries on
// inaccessible messages fall back to the user's private chat.
func IdentityFromUpdate(update *models.Update) Identity {
	var id Identity
	switch {
	case update.Message != nil:
		id.ChatID = update.Message.Chat.ID
		if update.Message.From != nil {
			id.UserID = update.Message.From.ID
			id.FirstName = update.Message.From.FirstName
		}
	case update.CallbackQuery != nil:
		id.UserID = update.CallbackQuery.From.ID
		id.FirstName = update.CallbackQuery.From.FirstName
		id.ChatID = update.CallbackQuery.From.ID
		if msg := update.CallbackQuery.Message.Message; msg != nil {
			id.ChatID = msg.Chat.ID
		}
	}
	return id
}

// IdentityLoader returns middleware that stores the sender identity in context.
// Updates without a sender pass through with no identity attached.
func IdentityLoader() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			id := IdentityFromUpdate(update)
			if id.UserID == 0 {
				next(ctx, b, update)
				return
			}
			next(context.WithValue(ctx, IdentityKey, id), b, update)
		}
	}
}

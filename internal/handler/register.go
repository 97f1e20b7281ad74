package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Register registers all command, message and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/done", bot.MatchTypePrefix, h.handleDone)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypePrefix, h.handleCancel)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypePrefix, h.handleHistory)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stat", bot.MatchTypePrefix, h.handleStat)

	// Conversation input
	h.bot.RegisterHandlerMatchFunc(isPhotoMessage, h.handlePhoto)
	h.bot.RegisterHandlerMatchFunc(isPlainText, h.handleText)

	// Inline keyboard buttons
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, h.handleCallback)
}

func isPhotoMessage(update *models.Update) bool {
	return update.Message != nil && len(update.Message.Photo) > 0
}

func isPlainText(update *models.Update) bool {
	if update.Message == nil || len(update.Message.Photo) > 0 {
		return false
	}
	text := update.Message.Text
	return text != "" && !strings.HasPrefix(text, "/")
}

// answerCallback acknowledges a callback query so the client stops its spinner.
func answerCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}

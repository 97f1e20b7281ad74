package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/set-night/advoffer/internal/config"
	"github.com/set-night/advoffer/internal/domain"
	"github.com/set-night/advoffer/internal/service"
	"github.com/set-night/advoffer/internal/telegram"
)

// PostHistory reads the post archive. It is nil when no database is configured.
type PostHistory interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Post, error)
	Count(ctx context.Context) (int64, error)
}

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot          *bot.Bot
	cfg          *config.Config
	conversation *service.ConversationService
	posts        PostHistory
	tgLogger     *telegram.TelegramLogger
	queues       *UserQueues
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot          *bot.Bot
	Cfg          *config.Config
	Conversation *service.ConversationService
	Posts        PostHistory
	TgLogger     *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:          deps.Bot,
		cfg:          deps.Cfg,
		conversation: deps.Conversation,
		posts:        deps.Posts,
		tgLogger:     deps.TgLogger,
		queues:       NewUserQueues(),
	}
}

// Wait blocks until all queued conversation work has finished.
func (h *Handler) Wait() {
	h.queues.Wait()
}

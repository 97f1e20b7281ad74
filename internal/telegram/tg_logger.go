package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/set-night/advoffer/internal/config"
	"github.com/set-night/advoffer/internal/domain"
)

// TelegramLogger mirrors notable events into topics of an admin chat.
type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError LogType = "error"
	LogTypePost  LogType = "post"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.topicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > MaxMessageLen {
		message = string([]rune(message)[:MaxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, where string) {
	msg := fmt.Sprintf("❌ Error\n\nContext: %s\nError: %s\nTime: %s",
		where, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

// LogPost reports an accepted post. It satisfies the post archive contract
// and never fails.
func (l *TelegramLogger) LogPost(_ context.Context, post *domain.Post) error {
	msg := fmt.Sprintf("📣 Post accepted\n\nUser: %d\nPhotos: %d\nID: %s\n\n%s",
		post.UserID, post.PhotoCount, post.ID, post.Text)
	l.Log(LogTypePost, msg)
	return nil
}

func (l *TelegramLogger) topicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypePost:
		return l.cfg.LogTopicPost
	default:
		return 0
	}
}

package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"
)

// ChatLimiter hands out one token bucket per chat.
type ChatLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*chatBucket
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

type chatBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewChatLimiter(perMinute, burst int) *ChatLimiter {
	return &ChatLimiter{
		limiters: make(map[int64]*chatBucket),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		idle:     10 * time.Minute,
	}
}

// Allow reports whether the chat may send another message now.
func (l *ChatLimiter) Allow(chatID int64) bool {
	return l.AllowAt(chatID, time.Now())
}

func (l *ChatLimiter) AllowAt(chatID int64, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.limiters[chatID]
	if !ok {
		b = &chatBucket{limiter: rate.NewLimiter(l.limit, l.burst), lastSeen: now}
		l.limiters[chatID] = b
		l.evict(now)
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// evict drops buckets of chats that have been quiet for a while.
func (l *ChatLimiter) evict(now time.Time) {
	for id, b := range l.limiters {
		if now.Sub(b.lastSeen) > l.idle {
			delete(l.limiters, id)
		}
	}
}

// RateLimit returns middleware that enforces per-chat rate limits.
func RateLimit(limiter *ChatLimiter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			// Only rate limit messages (not callbacks or other updates)
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !limiter.Allow(chatID) {
				slog.Debug("rate limited", "chat_id", chatID)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "⏳ Too many messages. Please wait a moment.",
				})
				return
			}

			next(ctx, b, update)
		}
	}
}

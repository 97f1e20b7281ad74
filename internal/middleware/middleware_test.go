package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatLimiterBurstThenRefill(t *testing.T) {
	l := NewChatLimiter(60, 3)
	now := time.Now()

	for i := 0; i < 3; i++ {
		assert.True(t, l.AllowAt(1, now), "message %d", i)
	}
	assert.False(t, l.AllowAt(1, now))

	// other chats have their own bucket
	assert.True(t, l.AllowAt(2, now))

	// one token per second at 60/min
	assert.True(t, l.AllowAt(1, now.Add(time.Second)))
}

func TestChatLimiterEvictsIdleChats(t *testing.T) {
	l := NewChatLimiter(60, 1)
	now := time.Now()

	l.AllowAt(1, now)
	l.AllowAt(2, now.Add(time.Hour))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.limiters, int64(1))
	assert.Contains(t, l.limiters, int64(2))
}

func TestIdentityFromMessage(t *testing.T) {
	id := IdentityFromUpdate(&models.Update{Message: &models.Message{
		Chat: models.Chat{ID: 100},
		From: &models.User{ID: 7, FirstName: "Ann"},
	}})
	assert.Equal(t, Identity{UserID: 7, ChatID: 100, FirstName: "Ann"}, id)
}

func TestIdentityFromCallback(t *testing.T) {
	id := IdentityFromUpdate(&models.Update{CallbackQuery: &models.CallbackQuery{
		From: models.User{ID: 7},
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{Chat: models.Chat{ID: 100}},
		},
	}})
	assert.Equal(t, int64(7), id.UserID)
	assert.Equal(t, int64(100), id.ChatID)
}

func TestIdentityFromInaccessibleCallbackMessage(t *testing.T) {
	id := IdentityFromUpdate(&models.Update{CallbackQuery: &models.CallbackQuery{
		From: models.User{ID: 7},
	}})
	assert.Equal(t, int64(7), id.ChatID)
}

func TestUpdateType(t *testing.T) {
	assert.Equal(t, "photo", updateType(&models.Update{Message: &models.Message{Photo: []models.PhotoSize{{FileID: "x"}}}}))
	assert.Equal(t, "command", updateType(&models.Update{Message: &models.Message{Text: "/done"}}))
	assert.Equal(t, "message", updateType(&models.Update{Message: &models.Message{Text: "hi"}}))
	assert.Equal(t, "callback_query", updateType(&models.Update{CallbackQuery: &models.CallbackQuery{}}))
}

func TestIdentityLoader(t *testing.T) {
	var (
		calls int
		got   Identity
		found bool
	)
	next := IdentityLoader()(func(ctx context.Context, _ *bot.Bot, _ *models.Update) {
		calls++
		got, found = GetIdentity(ctx)
	})

	next(context.Background(), nil, &models.Update{Message: &models.Message{
		From: &models.User{ID: 5, FirstName: "Ann"},
		Chat: models.Chat{ID: 50},
	}})
	require.Equal(t, 1, calls)
	require.True(t, found)
	assert.Equal(t, Identity{UserID: 5, ChatID: 50, FirstName: "Ann"}, got)

	// channel posts carry no sender and reach the handler without an identity
	next(context.Background(), nil, &models.Update{ChannelPost: &models.Message{Chat: models.Chat{ID: -100}}})
	assert.Equal(t, 2, calls)
	assert.False(t, found)
}

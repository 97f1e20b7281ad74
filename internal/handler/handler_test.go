package handler

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestIsPhotoMessage(t *testing.T) {
	photo := &models.Update{Message: &models.Message{Photo: []models.PhotoSize{{FileID: "a"}}}}
	text := &models.Update{Message: &models.Message{Text: "hello"}}
	callback := &models.Update{CallbackQuery: &models.CallbackQuery{Data: "accept"}}

	assert.True(t, isPhotoMessage(photo))
	assert.False(t, isPhotoMessage(text))
	assert.False(t, isPhotoMessage(callback))
}

func TestIsPlainText(t *testing.T) {
	cases := []struct {
		name   string
		update *models.Update
		want   bool
	}{
		{"text", &models.Update{Message: &models.Message{Text: "nice sofa, 100$"}}, true},
		{"command", &models.Update{Message: &models.Message{Text: "/done"}}, false},
		{"empty", &models.Update{Message: &models.Message{}}, false},
		{"photo with caption", &models.Update{Message: &models.Message{
			Photo:   []models.PhotoSize{{FileID: "a"}},
			Caption: "caption",
		}}, false},
		{"callback", &models.Update{CallbackQuery: &models.CallbackQuery{Data: "edit"}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isPlainText(tc.update))
		})
	}
}

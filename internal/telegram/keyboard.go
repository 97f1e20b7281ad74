package telegram

import (
	"github.com/go-telegram/bot/models"
	"github.com/set-night/advoffer/internal/domain"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ActionKeyboard converts button rows into an inline keyboard, or nil when empty.
func ActionKeyboard(rows [][]domain.Button) *models.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	kb := make([][]models.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, InlineButton(btn.Label, string(btn.Action)))
		}
		kb = append(kb, buttons)
	}
	return InlineKeyboard(kb...)
}

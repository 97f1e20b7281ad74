package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/advoffer/internal/config"
)

const MaxMessageLen = config.MaxTelegramMessageLen

// SendText sends a potentially long message, splitting it into parts if needed.
// The keyboard is attached to the last part. Markdown falls back to plain text
// when Telegram rejects it.
func SendText(ctx context.Context, b *bot.Bot, chatID int64, text string, markdown bool, keyboard *models.InlineKeyboardMarkup) error {
	if markdown {
		text = FixMarkdown(text)
	}
	parts := SplitMessage(text, MaxMessageLen)

	for i, part := range parts {
		params := &bot.SendMessageParams{
			ChatID: chatID,
			Text:   part,
		}
		if markdown {
			params.ParseMode = models.ParseModeMarkdownV1
		}
		if keyboard != nil && i == len(parts)-1 {
			params.ReplyMarkup = keyboard
		}

		_, err := b.SendMessage(ctx, params)
		if err != nil && markdown {
			slog.Warn("markdown send failed, falling back to plain text", "error", err)
			params.ParseMode = ""
			_, err = b.SendMessage(ctx, params)
		}
		if err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}

	return nil
}

// EditText replaces the text (and keyboard) of an earlier message.
func EditText(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, markdown bool, keyboard *models.InlineKeyboardMarkup) error {
	if markdown {
		text = FixMarkdown(text)
	}
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      Truncate(text, MaxMessageLen),
	}
	if markdown {
		params.ParseMode = models.ParseModeMarkdownV1
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := b.EditMessageText(ctx, params)
	if err != nil && markdown {
		params.ParseMode = ""
		_, err = b.EditMessageText(ctx, params)
	}
	if err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// SendPhotoGroup sends local photos as albums of up to ten, captioning the
// first photo. A caption longer than Telegram allows is sent as a separate
// message after the photos.
func SendPhotoGroup(ctx context.Context, b *bot.Bot, chatID int64, paths []string, caption string) error {
	if len(paths) == 0 {
		return SendText(ctx, b, chatID, caption, true, nil)
	}

	caption = FixMarkdown(caption)
	inline := caption
	if len([]rune(caption)) > config.MaxCaptionLen {
		inline = ""
	}

	for start := 0; start < len(paths); start += config.MaxMediaGroupSize {
		end := min(start+config.MaxMediaGroupSize, len(paths))
		chunkCaption := ""
		if start == 0 {
			chunkCaption = inline
		}
		if err := sendChunk(ctx, b, chatID, paths[start:end], chunkCaption); err != nil {
			return err
		}
	}

	if inline == "" && caption != "" {
		return SendText(ctx, b, chatID, caption, true, nil)
	}
	return nil
}

func sendChunk(ctx context.Context, b *bot.Bot, chatID int64, paths []string, caption string) error {
	files := make([][]byte, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read photo %s: %w", p, err)
		}
		files[i] = data
	}

	if len(paths) == 1 {
		params := &bot.SendPhotoParams{
			ChatID:    chatID,
			Photo:     &models.InputFileUpload{Filename: filepath.Base(paths[0]), Data: bytes.NewReader(files[0])},
			Caption:   caption,
			ParseMode: models.ParseModeMarkdownV1,
		}
		_, err := b.SendPhoto(ctx, params)
		if err != nil && caption != "" {
			slog.Warn("markdown caption rejected, falling back to plain text", "error", err)
			params.ParseMode = ""
			params.Photo = &models.InputFileUpload{Filename: filepath.Base(paths[0]), Data: bytes.NewReader(files[0])}
			_, err = b.SendPhoto(ctx, params)
		}
		if err != nil {
			return fmt.Errorf("send photo: %w", err)
		}
		return nil
	}

	build := func(parseMode models.ParseMode) []models.InputMedia {
		media := make([]models.InputMedia, len(paths))
		for i, p := range paths {
			name := filepath.Base(p)
			item := &models.InputMediaPhoto{
				Media:           "attach://" + name,
				MediaAttachment: bytes.NewReader(files[i]),
			}
			if i == 0 {
				item.Caption = caption
				item.ParseMode = parseMode
			}
			media[i] = item
		}
		return media
	}

	_, err := b.SendMediaGroup(ctx, &bot.SendMediaGroupParams{ChatID: chatID, Media: build(models.ParseModeMarkdownV1)})
	if err != nil && caption != "" {
		slog.Warn("markdown caption rejected, falling back to plain text", "error", err)
		_, err = b.SendMediaGroup(ctx, &bot.SendMediaGroupParams{ChatID: chatID, Media: build("")})
	}
	if err != nil {
		return fmt.Errorf("send media group: %w", err)
	}
	return nil
}

// StartTyping sends the "typing..." action every 4 seconds until the returned cancel function is called.
func StartTyping(ctx context.Context, b *bot.Bot, chatID int64) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		for {
			b.SendChatAction(ctx, &bot.SendChatActionParams{
				ChatID: chatID,
				Action: models.ChatActionTyping,
			})
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return cancel
}

// DeleteMessage removes a message the bot sent earlier.
func DeleteMessage(ctx context.Context, b *bot.Bot, chatID int64, messageID int) error {
	_, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return fmt.Errorf("delete message %d: %w", messageID, err)
	}
	return nil
}

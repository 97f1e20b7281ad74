package config

import "time"

const (
	// Caption generation: one short sentence per photo
	CaptionTemperature     = 0.7
	CaptionTopP            = 0.9
	CaptionMaxOutputTokens = 100

	// Post generation
	DraftTemperature     = 0.7
	DraftTopP            = 0.9
	DraftMaxOutputTokens = 500

	// Telegram limits
	MaxTelegramMessageLen = 4096
	MaxCaptionLen         = 1024
	MaxMediaGroupSize     = 10

	// Rate limits for inbound messages, per chat. The burst covers a full album.
	RateLimitPerMinute = 40
	RateLimitBurst     = 12

	// Idle session sweep interval
	IdleSweepInterval = 5 * time.Minute

	// Database pool
	DBMaxConns = 10
	DBMinConns = 1
)

// CaptionInstruction asks for a single descriptive sentence usable later for ad copy.
const CaptionInstruction = "Проанализируй изображение и напиши ясное и краткое описание (одно предложение), " +
	"чтобы в дальнейшем его можно было использовать для генерации текста рекламы."

// FallbackDraft is shown when post generation fails so the flow always has a draft.
const FallbackDraft = "Check out my post! #social #post"

// FallbackVisualSummary stands in for the photo captions when none are available.
const FallbackVisualSummary = "the photos"

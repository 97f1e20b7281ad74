package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	advoffer "github.com/set-night/advoffer"
	"github.com/set-night/advoffer/internal/config"
	"github.com/set-night/advoffer/internal/handler"
	"github.com/set-night/advoffer/internal/middleware"
	"github.com/set-night/advoffer/internal/repository"
	"github.com/set-night/advoffer/internal/service"
	"github.com/set-night/advoffer/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Post archive is optional
	var postRepo *repository.PostRepository
	if cfg.DatabaseURL != "" {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		migrationsFS, err := fs.Sub(advoffer.MigrationsFS, "migrations")
		if err != nil {
			slog.Error("failed to load embedded migrations", "error", err)
			os.Exit(1)
		}
		if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		postRepo = repository.NewPostRepository(pool)
	} else {
		slog.Info("DATABASE_URL not set, accepted posts will not be archived")
	}

	// Initialize services
	provider, err := service.NewProvider(ctx, cfg)
	if err != nil {
		slog.Error("failed to create generation provider", "provider", cfg.Provider, "error", err)
		os.Exit(1)
	}
	ingestor, err := service.NewMediaIngestor(provider, cfg.TempDir, cfg.ProviderTimeout)
	if err != nil {
		slog.Error("failed to prepare temp storage", "dir", cfg.TempDir, "error", err)
		os.Exit(1)
	}
	synthesizer := service.NewContentSynthesizer(provider, cfg.ProviderTimeout)
	store := service.NewSessionStore()

	// Create bot
	// Handlers only enqueue into per-user queues, so running them in update
	// order keeps each user's events ordered without serializing users.
	opts := []bot.Option{
		bot.WithNotAsyncHandlers(),
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.RateLimit(middleware.NewChatLimiter(config.RateLimitPerMinute, config.RateLimitBurst)),
			middleware.IdentityLoader(),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message != nil {
				slog.Debug("unhandled message", "chat_id", update.Message.Chat.ID)
			}
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	// Initialize telegram logger
	tgLogger := telegram.NewTelegramLogger(b, cfg)

	archives := []service.PostArchive{service.PostArchiveFunc(tgLogger.LogPost)}
	deps := handler.Deps{
		Bot:      b,
		Cfg:      cfg,
		TgLogger: tgLogger,
	}
	if postRepo != nil {
		archives = append(archives, postRepo)
		deps.Posts = postRepo
	}

	deps.Conversation = service.NewConversationService(service.ConversationDeps{
		Store:       store,
		Ingestor:    ingestor,
		Synthesizer: synthesizer,
		Archive:     service.Archives(archives...),
		Attribution: cfg.Attribution(),
	})

	// Initialize handler
	h := handler.New(deps)

	// Register all handlers
	h.Register()

	// Start idle session sweeper
	go func() {
		ticker := time.NewTicker(config.IdleSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.ExpireIdle(ctx)
			}
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID, "provider", cfg.Provider)
	b.Start(ctx)

	// Graceful shutdown
	h.Wait()
	slog.Info("bot stopped gracefully")
}

// Package telegram connects the pipeline to Telegram via long polling.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/babelbotio/babelbot/internal/channel"
	"github.com/babelbotio/babelbot/internal/config"
)

const maxMessageLength = 4096

// Adapter long-polls the Telegram Bot API and dispatches text messages
// into the pipeline.
type Adapter struct {
	logger  *slog.Logger
	cfg     config.TelegramConfig
	handler channel.Handler

	bot  *tgbotapi.BotAPI
	done chan struct{}

	// runCtx outlives Start's context and bounds in-flight dispatches.
	runCtx    context.Context
	cancelRun context.CancelFunc
	inflight  sync.WaitGroup
}

// NewAdapter creates the Telegram adapter.
func NewAdapter(log *slog.Logger, cfg config.TelegramConfig, handler channel.Handler) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		logger:  log.With(slog.String("adapter", "telegram")),
		cfg:     cfg,
		handler: handler,
	}
}

// Start authenticates the bot and begins consuming updates.
func (a *Adapter) Start(ctx context.Context) error {
	bot, err := tgbotapi.NewBotAPI(a.cfg.BotToken)
	if err != nil {
		return fmt.Errorf("telegram create bot: %w", err)
	}
	a.bot = bot
	a.done = make(chan struct{})

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := bot.GetUpdatesChan(updateCfg)

	a.runCtx, a.cancelRun = context.WithCancel(context.Background())
	go a.consume(a.runCtx, updates)

	a.logger.Info("connected", slog.String("bot", bot.Self.UserName))
	return nil
}

// Stop halts the update stream and waits for the consumer to drain.
func (a *Adapter) Stop(ctx context.Context) error {
	if a.bot == nil {
		return nil
	}
	a.bot.StopReceivingUpdates()
	a.cancelRun()
	select {
	case <-a.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	a.waitInflight(ctx)
	return nil
}

// waitInflight blocks until dispatched handlers return, bounded by ctx.
func (a *Adapter) waitInflight(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		a.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		a.logger.Warn("shutdown proceeding with requests still in flight")
	}
}

func (a *Adapter) consume(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	defer close(a.done)

	for update := range updates {
		msg := update.Message
		if msg == nil || msg.From == nil || msg.From.IsBot {
			continue
		}
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			continue
		}

		userID := strconv.FormatInt(msg.From.ID, 10)
		a.logger.Info("inbound received",
			slog.String("user_id", userID),
			slog.Int("chars", len(text)),
		)

		responder := newChatResponder(a.bot, msg.Chat.ID)
		a.inflight.Add(1)
		go func() {
			defer a.inflight.Done()
			if err := a.handler.Process(ctx, userID, text, responder); err != nil {
				a.logger.Error("handle inbound failed", slog.String("user_id", userID), slog.Any("error", err))
			}
		}()
	}
}

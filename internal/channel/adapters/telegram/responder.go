package telegram

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// botSender is the slice of tgbotapi.BotAPI the responder uses.
type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// chatResponder replies into one Telegram chat. Telegram has no deferred
// acknowledgment: every send is an ordinary message, so the error path is
// the same mechanism whether or not chunks already went out.
type chatResponder struct {
	bot    botSender
	chatID int64
}

func newChatResponder(bot botSender, chatID int64) *chatResponder {
	return &chatResponder{bot: bot, chatID: chatID}
}

func (r *chatResponder) ChunkLimit() int {
	return maxMessageLength
}

// Working keeps the "typing" chat action alive until stop is called. The
// action expires server-side after roughly five seconds, so it is
// refreshed on a ticker.
func (r *chatResponder) Working(ctx context.Context) func() {
	stopped := make(chan struct{})

	_, _ = r.bot.Request(tgbotapi.NewChatAction(r.chatID, tgbotapi.ChatTyping))
	go func() {
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stopped:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = r.bot.Request(tgbotapi.NewChatAction(r.chatID, tgbotapi.ChatTyping))
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stopped) })
	}
}

func (r *chatResponder) SendChunk(ctx context.Context, text string) error {
	_, err := r.bot.Send(tgbotapi.NewMessage(r.chatID, text))
	return err
}

func (r *chatResponder) SendError(ctx context.Context, text string) error {
	return r.SendChunk(ctx, text)
}

package telegram

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	sent    []string
	actions int
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.actions++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestChatResponderSendsChunksInOrder(t *testing.T) {
	bot := &fakeBot{}
	r := newChatResponder(bot, 42)

	require.NoError(t, r.SendChunk(context.Background(), "one"))
	require.NoError(t, r.SendChunk(context.Background(), "two"))

	assert.Equal(t, []string{"one", "two"}, bot.sent)
}

func TestChatResponderWorkingSendsTypingAction(t *testing.T) {
	bot := &fakeBot{}
	r := newChatResponder(bot, 42)

	stop := r.Working(context.Background())
	stop()
	stop() // idempotent

	assert.GreaterOrEqual(t, bot.actions, 1)
}

func TestChatResponderChunkLimitMatchesTelegram(t *testing.T) {
	r := newChatResponder(&fakeBot{}, 42)
	assert.Equal(t, 4096, r.ChunkLimit())
}

package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// interactionSession is the slice of discordgo.Session the responder uses.
type interactionSession interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// interactionResponder replies to one slash-command interaction. Before the
// interaction is acknowledged, content goes out as the direct interaction
// response; afterwards every message is a follow-up. Acknowledgment state
// decides which mechanism carries the error message, never both.
type interactionResponder struct {
	session     interactionSession
	interaction *discordgo.Interaction

	mu    sync.Mutex
	acked bool
}

func newInteractionResponder(session interactionSession, interaction *discordgo.Interaction) *interactionResponder {
	return &interactionResponder{session: session, interaction: interaction}
}

func (r *interactionResponder) ChunkLimit() int {
	return maxMessageLength
}

// Working defers the interaction response, which shows Discord's
// "thinking" indicator until the first follow-up lands. The indicator is
// cleared by the reply itself, so stop is a no-op.
func (r *interactionResponder) Working(ctx context.Context) func() {
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err == nil {
		r.setAcked()
	}
	return func() {}
}

func (r *interactionResponder) SendChunk(ctx context.Context, text string) error {
	return r.send(text)
}

func (r *interactionResponder) SendError(ctx context.Context, text string) error {
	return r.send(text)
}

// Replies are visible only to the asking user.
func (r *interactionResponder) send(text string) error {
	if r.isAcked() {
		_, err := r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
			Content: text,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		return err
	}

	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err == nil {
		r.setAcked()
	}
	return err
}

func (r *interactionResponder) isAcked() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.acked
}

func (r *interactionResponder) setAcked() {
	r.mu.Lock()
	r.acked = true
	r.mu.Unlock()
}

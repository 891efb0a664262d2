// Package discord connects the pipeline to Discord slash commands.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/babelbotio/babelbot/internal/channel"
	"github.com/babelbotio/babelbot/internal/config"
)

const maxMessageLength = 2000

// Adapter runs a Discord gateway session and dispatches /ask invocations
// into the pipeline.
type Adapter struct {
	logger  *slog.Logger
	cfg     config.DiscordConfig
	handler channel.Handler

	session    *discordgo.Session
	registered []*discordgo.ApplicationCommand

	// runCtx outlives Start's context and bounds in-flight dispatches.
	runCtx    context.Context
	cancelRun context.CancelFunc
	inflight  sync.WaitGroup
}

// NewAdapter creates the Discord adapter.
func NewAdapter(log *slog.Logger, cfg config.DiscordConfig, handler channel.Handler) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		logger:  log.With(slog.String("adapter", "discord")),
		cfg:     cfg,
		handler: handler,
	}
}

// Start opens the gateway session and registers the slash commands.
func (a *Adapter) Start(ctx context.Context) error {
	session, err := discordgo.New("Bot " + a.cfg.BotToken)
	if err != nil {
		return fmt.Errorf("discord create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	a.runCtx, a.cancelRun = context.WithCancel(context.Background())
	session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		a.onInteraction(a.runCtx, s, ic)
	})

	if err := session.Open(); err != nil {
		return fmt.Errorf("discord open connection: %w", err)
	}
	a.session = session

	if err := a.registerCommands(session); err != nil {
		_ = session.Close()
		return err
	}

	a.logger.Info("connected", slog.String("bot", session.State.User.Username))
	return nil
}

// Stop removes the registered commands and closes the session.
func (a *Adapter) Stop(ctx context.Context) error {
	if a.session == nil {
		return nil
	}
	a.cancelRun()
	a.waitInflight(ctx)
	appID := a.session.State.User.ID
	for _, cmd := range a.registered {
		if err := a.session.ApplicationCommandDelete(appID, a.cfg.GuildID, cmd.ID); err != nil {
			a.logger.Warn("delete command failed", slog.String("command", cmd.Name), slog.Any("error", err))
		}
	}
	return a.session.Close()
}

func (a *Adapter) registerCommands(session *discordgo.Session) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "ask",
			Description: "Ask the bot anything",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "Your message",
					Required:    true,
				},
			},
		},
		{
			Name:        "hello",
			Description: "Say hello to the bot!",
		},
	}

	appID := session.State.User.ID
	for _, cmd := range commands {
		created, err := session.ApplicationCommandCreate(appID, a.cfg.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("discord register command %s: %w", cmd.Name, err)
		}
		a.registered = append(a.registered, created)
	}
	return nil
}

func (a *Adapter) onInteraction(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := ic.ApplicationCommandData()

	switch data.Name {
	case "hello":
		err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: "Hello, I'm a bot!"},
		})
		if err != nil {
			a.logger.Error("hello respond failed", slog.Any("error", err))
		}
	case "ask":
		text := commandOption(data, "message")
		if strings.TrimSpace(text) == "" {
			return
		}
		userID := interactionUserID(ic)

		a.logger.Info("inbound received",
			slog.String("user_id", userID),
			slog.Int("chars", len(text)),
		)

		responder := newInteractionResponder(s, ic.Interaction)
		a.inflight.Add(1)
		go func() {
			defer a.inflight.Done()
			if err := a.handler.Process(ctx, userID, text, responder); err != nil {
				a.logger.Error("handle inbound failed", slog.String("user_id", userID), slog.Any("error", err))
			}
		}()
	}
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

func commandOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

func interactionUserID(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}

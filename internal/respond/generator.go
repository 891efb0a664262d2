package respond

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/babelbotio/babelbot/internal/chat"
	"github.com/babelbotio/babelbot/internal/conversation"
	"github.com/babelbotio/babelbot/internal/intent"
)

// FallbackResponse substitutes for an empty generative result.
const FallbackResponse = "I could not generate a response."

// Source tags which branch produced a reply.
type Source string

const (
	SourceTemplate  Source = "template"
	SourceGenerated Source = "generated"
)

// Reply is the composed canonical-language response.
type Reply struct {
	Source Source
	Text   string
	Intent intent.Prediction
}

// Generator dispatches between the intent template table and the
// generative backend.
type Generator struct {
	resolver     *intent.Resolver
	chatClient   chat.Client
	threshold    float64
	systemPrompt string
	logger       *slog.Logger

	// randIntN is swapped in tests for deterministic template picks.
	randIntN func(n int) int
}

// NewGenerator creates a Generator. threshold is the minimum intent
// confidence for the template branch.
func NewGenerator(log *slog.Logger, resolver *intent.Resolver, chatClient chat.Client, threshold float64, systemPrompt string) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		resolver:     resolver,
		chatClient:   chatClient,
		threshold:    threshold,
		systemPrompt: systemPrompt,
		logger:       log.With(slog.String("service", "respond")),
		randIntN:     rand.IntN,
	}
}

// Respond builds the reply for text. history is the user's retained
// context in chronological order and already contains the current user
// turn. Exactly one branch runs per call.
func (g *Generator) Respond(ctx context.Context, text string, history []conversation.Turn) (Reply, error) {
	pred, err := g.resolver.Resolve(ctx, text)
	if err != nil {
		return Reply{}, err
	}

	templates := g.resolver.Catalog().Responses(pred.Label)
	if Decide(pred, g.threshold, len(templates)) == BranchTemplate {
		picked := templates[g.randIntN(len(templates))]
		g.logger.Debug("templated reply",
			slog.String("tag", pred.Label),
			slog.Float64("confidence", pred.Confidence),
		)
		return Reply{Source: SourceTemplate, Text: picked, Intent: pred}, nil
	}

	content, err := g.generate(ctx, history)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Source: SourceGenerated, Text: content, Intent: pred}, nil
}

func (g *Generator) generate(ctx context.Context, history []conversation.Turn) (string, error) {
	messages := make([]chat.Message, 0, len(history)+1)
	messages = append(messages, chat.Message{Role: "system", Content: g.systemPrompt})
	for _, turn := range history {
		messages = append(messages, chat.Message{Role: string(turn.Role), Content: turn.Content})
	}

	content, err := g.chatClient.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generative backend: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		g.logger.Warn("backend returned no usable content, using fallback")
		return FallbackResponse, nil
	}
	return content, nil
}

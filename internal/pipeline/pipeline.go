// Package pipeline orchestrates one conversational turn: language
// normalization, sentiment, response composition, translation back, and
// chunked delivery, with per-user turn serialization throughout.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/babelbotio/babelbot/internal/channel"
	"github.com/babelbotio/babelbot/internal/conversation"
	"github.com/babelbotio/babelbot/internal/observability"
	"github.com/babelbotio/babelbot/internal/persist"
	"github.com/babelbotio/babelbot/internal/respond"
	"github.com/babelbotio/babelbot/internal/sentiment"
	"github.com/babelbotio/babelbot/internal/textproc"
)

// ApologyMessage is the single user-facing failure message. Sent at most
// once per turn, through whichever reply mechanism is still valid.
const ApologyMessage = "An error occurred while processing your request."

type normalizer interface {
	NormalizeIn(ctx context.Context, text string) (canonicalText, sourceLang string, err error)
	NormalizeOut(ctx context.Context, text, targetLang string) (string, error)
}

type classifier interface {
	Classify(ctx context.Context, text string) (sentiment.Label, error)
}

type generator interface {
	Respond(ctx context.Context, text string, history []conversation.Turn) (respond.Reply, error)
}

type recorder interface {
	Enqueue(rec persist.Record)
}

// Pipeline wires the processing stages together. It implements the turn
// semantics shared by every transport; ForChannel binds it to one.
type Pipeline struct {
	logger     *slog.Logger
	memory     *conversation.Memory
	normalizer normalizer
	classifier classifier
	generator  generator
	recorder   recorder
	metrics    *observability.Metrics
}

// New creates a Pipeline. metrics may be nil.
func New(
	log *slog.Logger,
	memory *conversation.Memory,
	norm normalizer,
	class classifier,
	gen generator,
	rec recorder,
	metrics *observability.Metrics,
) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		logger:     log.With(slog.String("service", "pipeline")),
		memory:     memory,
		normalizer: norm,
		classifier: class,
		generator:  gen,
		recorder:   rec,
		metrics:    metrics,
	}
}

// ForChannel returns a Handler that tags this transport's turns in logs
// and metrics.
func (p *Pipeline) ForChannel(name string) channel.Handler {
	return &channelHandler{pipeline: p, channel: name}
}

type channelHandler struct {
	pipeline *Pipeline
	channel  string
}

func (h *channelHandler) Process(ctx context.Context, userID, text string, r channel.Responder) error {
	return h.pipeline.process(ctx, h.channel, userID, text, r)
}

func (p *Pipeline) process(ctx context.Context, channelName, userID, text string, r channel.Responder) error {
	start := time.Now()
	log := p.logger.With(
		slog.String("request_id", uuid.NewString()),
		slog.String("channel", channelName),
		slog.String("user_id", userID),
	)
	log.Info("turn started", slog.Int("chars", len(text)))

	// One in-flight turn per user. Concurrent requests for the same user
	// queue here so their history appends never interleave.
	release := p.memory.Acquire(userID)
	defer release()

	stop := r.Working(ctx)
	defer stop()

	out, err := p.run(ctx, log, userID, text)
	if err != nil {
		log.Error("turn failed", slog.Any("error", err))
		p.countTurn(channelName, "error")
		if sendErr := r.SendError(ctx, ApologyMessage); sendErr != nil {
			log.Error("apology delivery failed", slog.Any("error", sendErr))
		}
		return err
	}

	for _, chunk := range channel.SplitExact(out, r.ChunkLimit()) {
		if err := r.SendChunk(ctx, chunk); err != nil {
			log.Error("chunk delivery failed", slog.Any("error", err))
			p.countTurn(channelName, "error")
			if sendErr := r.SendError(ctx, ApologyMessage); sendErr != nil {
				log.Error("apology delivery failed", slog.Any("error", sendErr))
			}
			return err
		}
		if p.metrics != nil {
			p.metrics.ChunksDelivered.Inc()
		}
	}

	// History is stored only for fully delivered turns, off the reply path.
	p.recorder.Enqueue(persist.Record{
		UserID:    userID,
		Message:   text,
		Response:  out,
		CreatedAt: time.Now(),
	})

	p.countTurn(channelName, "ok")
	if p.metrics != nil {
		p.metrics.TurnDuration.Observe(time.Since(start).Seconds())
	}
	log.Info("turn completed", slog.Duration("elapsed", time.Since(start)))
	return nil
}

// run executes the stage sequence and returns the final sender-language
// response. The user turn is appended before generation and stays in
// history even when a later stage fails.
func (p *Pipeline) run(ctx context.Context, log *slog.Logger, userID, text string) (string, error) {
	canonical, sourceLang, err := p.stageNormalizeIn(ctx, text)
	if err != nil {
		return "", err
	}
	log = log.With(slog.String("source_lang", sourceLang))

	// Diagnostics only: the cleaned form is logged, never fed downstream.
	log.Debug("preprocessed", slog.String("cleaned", textproc.Clean(canonical)))

	label, err := p.stageSentiment(ctx, canonical)
	if err != nil {
		return "", err
	}
	log.Debug("sentiment classified", slog.String("label", string(label)))

	p.memory.Append(userID, conversation.UserTurn(canonical))
	history := p.memory.ContextFor(userID)

	reply, err := p.stageRespond(ctx, canonical, history)
	if err != nil {
		return "", err
	}
	log.Debug("reply composed",
		slog.String("source", string(reply.Source)),
		slog.String("intent", reply.Intent.Label),
	)

	augmented := respond.Augment(reply.Text, label)
	p.memory.Append(userID, conversation.AssistantTurn(augmented))

	return p.stageNormalizeOut(ctx, augmented, sourceLang)
}

func (p *Pipeline) stageNormalizeIn(ctx context.Context, text string) (string, string, error) {
	defer p.observeStage("normalize_in", time.Now())
	return p.normalizer.NormalizeIn(ctx, text)
}

func (p *Pipeline) stageSentiment(ctx context.Context, text string) (sentiment.Label, error) {
	defer p.observeStage("sentiment", time.Now())
	return p.classifier.Classify(ctx, text)
}

func (p *Pipeline) stageRespond(ctx context.Context, text string, history []conversation.Turn) (respond.Reply, error) {
	defer p.observeStage("respond", time.Now())
	return p.generator.Respond(ctx, text, history)
}

func (p *Pipeline) stageNormalizeOut(ctx context.Context, text, targetLang string) (string, error) {
	defer p.observeStage("normalize_out", time.Now())
	return p.normalizer.NormalizeOut(ctx, text, targetLang)
}

func (p *Pipeline) observeStage(stage string, start time.Time) {
	if p.metrics != nil {
		p.metrics.ObserveStage(stage, time.Since(start))
	}
}

func (p *Pipeline) countTurn(channelName, outcome string) {
	if p.metrics != nil {
		p.metrics.TurnsTotal.WithLabelValues(channelName, outcome).Inc()
	}
}

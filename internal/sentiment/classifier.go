// Package sentiment classifies message sentiment through an external model
// and normalizes its vocabulary into a closed label set.
package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Label is the normalized sentiment of a message.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// ModelClient returns the raw label emitted by an external sentiment model.
type ModelClient interface {
	Classify(ctx context.Context, text string) (string, error)
}

// MapLabel folds an external model's label vocabulary onto the closed set.
// Plain POSITIVE/NEGATIVE/NEUTRAL strings and the ordinal LABEL_0/1/2
// scheme used by three-class models are recognized; anything else maps to
// Neutral as a conservative default, not an error.
func MapLabel(raw string) Label {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "POSITIVE", "POS", "LABEL_2":
		return Positive
	case "NEGATIVE", "NEG", "LABEL_0":
		return Negative
	case "NEUTRAL", "LABEL_1":
		return Neutral
	default:
		return Neutral
	}
}

// Classifier wraps a ModelClient and yields normalized labels.
type Classifier struct {
	client ModelClient
	logger *slog.Logger
}

// NewClassifier creates a Classifier.
func NewClassifier(log *slog.Logger, client ModelClient) *Classifier {
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{
		client: client,
		logger: log.With(slog.String("service", "sentiment")),
	}
}

// Classify returns the normalized sentiment of text. Transport errors from
// the model are returned to the caller; unrecognized labels are not.
func (c *Classifier) Classify(ctx context.Context, text string) (Label, error) {
	raw, err := c.client.Classify(ctx, text)
	if err != nil {
		return Neutral, fmt.Errorf("sentiment model: %w", err)
	}

	label := MapLabel(raw)
	c.logger.Debug("classified", slog.String("raw", raw), slog.String("label", string(label)))
	return label, nil
}

package intent

import (
	"context"
	"fmt"
	"log/slog"
)

// Prediction is the resolved intent of a message. An empty Label marks an
// unresolved intent; callers must also honor the confidence threshold
// before trusting the label.
type Prediction struct {
	Label      string
	Confidence float64
}

// Resolved reports whether a tag was assigned at all.
func (p Prediction) Resolved() bool {
	return p.Label != ""
}

// ClassifierClient is the external intent model: a label index into the
// catalog's ordered table plus a confidence score in [0,1].
type ClassifierClient interface {
	Classify(ctx context.Context, text string) (index int, confidence float64, err error)
}

// Resolver maps classifier output onto catalog tags.
type Resolver struct {
	client  ClassifierClient
	catalog *Catalog
	logger  *slog.Logger
}

// NewResolver creates a Resolver over the given classifier and catalog.
func NewResolver(log *slog.Logger, client ClassifierClient, catalog *Catalog) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		client:  client,
		catalog: catalog,
		logger:  log.With(slog.String("service", "intent")),
	}
}

// Catalog exposes the resolver's intent table.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// Resolve classifies text into a Prediction. An index outside the catalog
// yields an unresolved prediction rather than an error; transport failures
// propagate.
func (r *Resolver) Resolve(ctx context.Context, text string) (Prediction, error) {
	index, confidence, err := r.client.Classify(ctx, text)
	if err != nil {
		return Prediction{}, fmt.Errorf("intent classifier: %w", err)
	}

	tag, ok := r.catalog.TagAt(index)
	if !ok {
		r.logger.Warn("classifier index outside catalog",
			slog.Int("index", index),
			slog.Int("catalog_size", r.catalog.Len()),
		)
		return Prediction{Confidence: confidence}, nil
	}

	r.logger.Debug("resolved",
		slog.String("tag", tag),
		slog.Float64("confidence", confidence),
	)
	return Prediction{Label: tag, Confidence: confidence}, nil
}

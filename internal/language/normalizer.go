// Package language detects the language of inbound text and translates it
// to and from the canonical working language.
package language

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Detector identifies the language of a text.
type Detector interface {
	Detect(ctx context.Context, text string) (string, error)
}

// Translator translates text between two language codes.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// Normalizer converts inbound text into the canonical working language and
// converts responses back to the sender's language. Detection and
// translation failures are returned to the caller: continuing with the
// wrong language would silently break the round-trip contract.
type Normalizer struct {
	detector   Detector
	translator Translator
	canonical  string
	logger     *slog.Logger
}

// NewNormalizer creates a Normalizer with the given canonical language code.
func NewNormalizer(log *slog.Logger, detector Detector, translator Translator, canonical string) *Normalizer {
	if log == nil {
		log = slog.Default()
	}
	canonical = strings.ToLower(strings.TrimSpace(canonical))
	if canonical == "" {
		canonical = "en"
	}
	return &Normalizer{
		detector:   detector,
		translator: translator,
		canonical:  canonical,
		logger:     log.With(slog.String("service", "language")),
	}
}

// Canonical returns the canonical working language code.
func (n *Normalizer) Canonical() string {
	return n.canonical
}

// NormalizeIn detects the text's language and translates it to the
// canonical language. When detection reports the canonical language or
// comes back empty, the text passes through untouched with the canonical
// code, skipping the translation round-trip.
func (n *Normalizer) NormalizeIn(ctx context.Context, text string) (canonicalText, sourceLang string, err error) {
	detected, err := n.detector.Detect(ctx, text)
	if err != nil {
		return "", "", fmt.Errorf("detect language: %w", err)
	}

	detected = strings.ToLower(strings.TrimSpace(detected))
	if detected == "" {
		detected = n.canonical
	}
	if detected == n.canonical {
		return text, detected, nil
	}

	translated, err := n.translator.Translate(ctx, text, detected, n.canonical)
	if err != nil {
		return "", "", fmt.Errorf("translate %s->%s: %w", detected, n.canonical, err)
	}

	n.logger.Debug("inbound translated",
		slog.String("source_lang", detected),
		slog.Int("chars", len(text)),
	)
	return translated, detected, nil
}

// NormalizeOut translates canonical-language text back to targetLang.
// A canonical target short-circuits without a translation call.
func (n *Normalizer) NormalizeOut(ctx context.Context, text, targetLang string) (string, error) {
	targetLang = strings.ToLower(strings.TrimSpace(targetLang))
	if targetLang == "" || targetLang == n.canonical {
		return text, nil
	}

	translated, err := n.translator.Translate(ctx, text, n.canonical, targetLang)
	if err != nil {
		return "", fmt.Errorf("translate %s->%s: %w", n.canonical, targetLang, err)
	}
	return translated, nil
}

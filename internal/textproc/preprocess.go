// Package textproc normalizes text for structured logging and diagnostics.
//
// The cleaned form is lossy (casing, punctuation, and stopwords are gone),
// so it must never replace the original text in the dialogue path.
package textproc

import (
	"strings"
	"unicode"
)

// Clean lowercases the text, splits it into tokens, drops punctuation-only
// tokens and English stopwords, and rejoins the remainder with single
// spaces.
func Clean(text string) string {
	lowered := strings.ToLower(text)

	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return unicode.IsSpace(r)
	})

	kept := make([]string, 0, len(fields))
	for _, tok := range fields {
		tok = trimEdgePunct(tok)
		if tok == "" || isPunctOnly(tok) {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

func trimEdgePunct(tok string) string {
	return strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

func isPunctOnly(tok string) bool {
	for _, r := range tok {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

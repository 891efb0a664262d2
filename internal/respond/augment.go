package respond

import "github.com/babelbotio/babelbot/internal/sentiment"

// EmpatheticTrailer is appended to replies for negative-sentiment messages.
const EmpatheticTrailer = "\n\nI'm here to help! Let me know if I can assist you in any way."

// Augment appends the empathetic trailer when the message sentiment is
// negative. It must run on the canonical-language text, before the reply
// is translated back, so the trailer is translated with the rest.
func Augment(text string, label sentiment.Label) string {
	if label == sentiment.Negative {
		return text + EmpatheticTrailer
	}
	return text
}

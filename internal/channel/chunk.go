package channel

// SplitExact splits text into chunks of exactly maxSize characters, in
// order, with no attempt to avoid breaking mid-word. The concatenation of
// the chunks equals the input; only the final chunk may be shorter. Empty
// input or a non-positive maxSize yields no chunks.
//
// Sizes are measured in runes so a multi-byte character never straddles a
// chunk boundary.
func SplitExact(text string, maxSize int) []string {
	if text == "" || maxSize <= 0 {
		return nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+maxSize-1)/maxSize)
	for start := 0; start < len(runes); start += maxSize {
		end := start + maxSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

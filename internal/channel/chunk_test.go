package channel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitExact(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		maxSize int
		want    []string
	}{
		{name: "empty input", text: "", maxSize: 10, want: nil},
		{name: "zero max size", text: "hello", maxSize: 0, want: nil},
		{name: "fits in one chunk", text: "hello", maxSize: 10, want: []string{"hello"}},
		{name: "exact boundary", text: "abcdef", maxSize: 3, want: []string{"abc", "def"}},
		{name: "trailing remainder", text: "abcdefg", maxSize: 3, want: []string{"abc", "def", "g"}},
		{name: "splits mid word", text: "hello world", maxSize: 4, want: []string{"hell", "o wo", "rld"}},
		{name: "multibyte runes stay whole", text: "héllo wörld", maxSize: 3, want: []string{"hél", "lo ", "wör", "ld"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitExact(tt.text, tt.maxSize))
		})
	}
}

func TestSplitExactRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"a",
		strings.Repeat("x", 1999),
		strings.Repeat("x", 2000),
		strings.Repeat("x", 2001),
		strings.Repeat("héllo wörld ", 500),
	}

	for _, maxSize := range []int{1, 7, 2000} {
		for _, in := range inputs {
			chunks := SplitExact(in, maxSize)
			assert.Equal(t, in, strings.Join(chunks, ""), "concat must equal input (maxSize=%d len=%d)", maxSize, len(in))
			for i, c := range chunks {
				if i < len(chunks)-1 {
					require.Len(t, []rune(c), maxSize, "non-final chunk must be exactly maxSize")
				} else {
					require.LessOrEqual(t, len([]rune(c)), maxSize)
					require.NotEmpty(t, c)
				}
			}
		}
	}
}

func TestSplitExactLongReplyChunkCount(t *testing.T) {
	reply := strings.Repeat("y", 5000)
	chunks := SplitExact(reply, 2000)
	assert.Len(t, chunks, 3) // ceil(5000/2000)
}

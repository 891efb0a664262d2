// Package chat provides the generative-response backend client.
package chat

import "context"

// Message is a chat message in provider wire order.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// Client generates a reply from an ordered message history. The returned
// string may be empty when the backend produced no usable content; callers
// decide the fallback.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

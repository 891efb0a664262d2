// Package channel abstracts the chat transports that deliver inbound
// messages and carry replies back to the user.
package channel

import "context"

// Handler processes one inbound message end to end. Implemented by the
// pipeline; adapters call it once per received message.
type Handler interface {
	Process(ctx context.Context, userID, text string, r Responder) error
}

// Responder is the reply surface for one inbound message. A Responder is
// owned by a single request and must not be reused.
//
// Implementations track whether the transport has already acknowledged the
// request so that SendError can pick the still-valid mechanism (direct
// reply before acknowledgment, follow-up after) and never attempt both.
type Responder interface {
	// ChunkLimit is the transport's maximum chunk size in characters.
	ChunkLimit() int
	// Working signals the user that a reply is being prepared (typing
	// indicator or deferred acknowledgment). The returned stop function
	// is safe to call more than once.
	Working(ctx context.Context) (stop func())
	// SendChunk delivers one chunk. Chunks are sent strictly in order;
	// the pipeline does not send chunk i+1 until chunk i returned.
	SendChunk(ctx context.Context, text string) error
	// SendError delivers the single user-facing failure message.
	SendError(ctx context.Context, text string) error
}

// Lifecycle is a transport adapter that connects at startup and drains on
// shutdown.
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Package persist writes completed conversation turns to a remote store,
// off the user-visible delivery path.
package persist

import (
	"context"
	"time"
)

// Record is one completed turn: the user's original message and the final
// delivered response.
type Record struct {
	UserID    string
	Message   string
	Response  string
	CreatedAt time.Time
}

// Sink stores a Record. Implementations must be safe for use from the
// queue's single worker goroutine.
type Sink interface {
	Put(ctx context.Context, rec Record) error
}

// NopSink discards records. Used when persistence is disabled.
type NopSink struct{}

func (NopSink) Put(ctx context.Context, rec Record) error { return nil }

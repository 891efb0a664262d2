package persist

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const putTimeout = 15 * time.Second

// Queue decouples the pipeline from the store: Enqueue never blocks and
// never fails the caller; a single worker drains records to the Sink and
// logs failures without retrying.
type Queue struct {
	logger *slog.Logger
	sink   Sink
	ch     chan Record

	// OnDrop, when set, is called for every record dropped because the
	// buffer was full or the queue was stopped. Must be set before Start.
	OnDrop func(Record)

	// mu guards closed and orders Enqueue sends before the channel close
	// in Stop. A producer that outlives shutdown drops its record instead
	// of hitting a closed channel.
	mu     sync.Mutex
	closed bool

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewQueue creates a Queue with the given buffer size.
func NewQueue(log *slog.Logger, sink Sink, size int) *Queue {
	if log == nil {
		log = slog.Default()
	}
	if size <= 0 {
		size = 1
	}
	return &Queue{
		logger: log.With(slog.String("service", "persist")),
		sink:   sink,
		ch:     make(chan Record, size),
		done:   make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (q *Queue) Start() {
	q.startOnce.Do(func() {
		go q.drain()
	})
}

// Stop closes the queue and waits for the worker to finish the buffered
// records. Records enqueued after Stop are dropped.
func (q *Queue) Stop(ctx context.Context) error {
	q.stopOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		close(q.ch)
		q.mu.Unlock()
	})
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue hands a record to the worker. When the buffer is full, or the
// queue has been stopped, the record is dropped with a warning;
// persistence is best-effort and must never stall delivery.
func (q *Queue) Enqueue(rec Record) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.drop("queue stopped, dropping record", rec)
		return
	}
	select {
	case q.ch <- rec:
		q.mu.Unlock()
	default:
		q.mu.Unlock()
		q.drop("queue full, dropping record", rec)
	}
}

func (q *Queue) drop(msg string, rec Record) {
	q.logger.Warn(msg, slog.String("user_id", rec.UserID))
	if q.OnDrop != nil {
		q.OnDrop(rec)
	}
}

func (q *Queue) drain() {
	defer close(q.done)

	for rec := range q.ch {
		ctx, cancel := context.WithTimeout(context.Background(), putTimeout)
		err := q.sink.Put(ctx, rec)
		cancel()
		if err != nil {
			q.logger.Error("persist failed",
				slog.String("user_id", rec.UserID),
				slog.Any("error", err),
			)
		}
	}
}

package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSink writes turns to the chat_turns table.
//
// Expected schema:
//
//	CREATE TABLE chat_turns (
//	    id         uuid PRIMARY KEY,
//	    user_id    text NOT NULL,
//	    message    text NOT NULL,
//	    response   text NOT NULL,
//	    created_at timestamptz NOT NULL
//	);
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink creates a PostgresSink over an open pool.
func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

// Put stores one record.
func (s *PostgresSink) Put(ctx context.Context, rec Record) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO chat_turns (id, user_id, message, response, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), rec.UserID, rec.Message, rec.Response, createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("persist: insert chat turn: %w", err)
	}
	return nil
}

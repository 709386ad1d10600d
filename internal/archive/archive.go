// Package archive keeps a durable log of delivered digests. It is an
// observability surface, not dedup state: a failed write is logged and the
// run still counts as successful.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one delivered digest.
type Entry struct {
	RunID      uuid.UUID `json:"run_id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Model      string    `json:"model"`
	TokensUsed int       `json:"tokens_used"`
	DidReset   bool      `json:"did_reset"`
	SentAt     time.Time `json:"sent_at"`
}

// Archive records deliveries and serves the history API.
type Archive interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Noop is used when no archive backend is configured.
type Noop struct{}

func (Noop) Record(ctx context.Context, e Entry) error { return nil }

func (Noop) Recent(ctx context.Context, limit int) ([]Entry, error) { return nil, nil }

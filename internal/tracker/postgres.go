package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore keeps the tracked set as a single JSONB row. The upsert
// replaces the whole record in one statement, so readers see either the old
// or the new set, never a mix.
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore attaches the tracker to an existing pool; the caller
// owns the pool's lifetime.
func NewPostgresStore(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) (*PostgresStore, error) {
	s := &PostgresStore{db: db, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("tracker schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS reading_tracker (
		   id         INT PRIMARY KEY,
		   record     JSONB NOT NULL,
		   updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		 )`)
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Load(ctx context.Context) *TrackedLinks {
	links := New()
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT record FROM reading_tracker WHERE id = 1`).Scan(&data)
	if err != nil {
		if err != pgx.ErrNoRows {
			s.logger.Warn("tracking record unreadable, starting from empty set", zap.Error(err))
		}
		return links
	}
	if err := json.Unmarshal(data, links); err != nil {
		s.logger.Warn("tracking record corrupt, starting from empty set", zap.Error(err))
		return New()
	}
	return links
}

func (s *PostgresStore) Save(ctx context.Context, links *TrackedLinks) error {
	data, err := json.Marshal(links)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO reading_tracker (id, record) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET record = EXCLUDED.record, updated_at = NOW()`,
		data)
	return err
}

func (s *PostgresStore) Reset(ctx context.Context) (*TrackedLinks, error) {
	links := New()
	if err := s.Save(ctx, links); err != nil {
		return nil, err
	}
	return links, nil
}

package archive

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresArchive stores delivery records in a single append-only table.
type PostgresArchive struct {
	db *pgxpool.Pool
}

// NewPostgresArchive attaches the archive to an existing pool so it can
// share the connection with the Postgres tracker store.
func NewPostgresArchive(ctx context.Context, db *pgxpool.Pool) (*PostgresArchive, error) {
	a := &PostgresArchive{db: db}
	if err := a.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("archive schema: %w", err)
	}
	return a, nil
}

func (a *PostgresArchive) ensureSchema(ctx context.Context) error {
	_, err := a.db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS delivery_log (
		   run_id      UUID PRIMARY KEY,
		   url         TEXT NOT NULL,
		   title       TEXT NOT NULL DEFAULT '',
		   model       TEXT NOT NULL DEFAULT '',
		   tokens_used INT NOT NULL DEFAULT 0,
		   did_reset   BOOLEAN NOT NULL DEFAULT FALSE,
		   sent_at     TIMESTAMPTZ NOT NULL
		 )`)
	return err
}

func (a *PostgresArchive) Ping(ctx context.Context) error {
	return a.db.Ping(ctx)
}

func (a *PostgresArchive) Record(ctx context.Context, e Entry) error {
	_, err := a.db.Exec(ctx,
		`INSERT INTO delivery_log (run_id, url, title, model, tokens_used, did_reset, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (run_id) DO NOTHING`,
		e.RunID, e.URL, e.Title, e.Model, e.TokensUsed, e.DidReset, e.SentAt)
	return err
}

func (a *PostgresArchive) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := a.db.Query(ctx,
		`SELECT run_id, url, title, model, tokens_used, did_reset, sent_at
		 FROM delivery_log ORDER BY sent_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RunID, &e.URL, &e.Title, &e.Model, &e.TokensUsed, &e.DidReset, &e.SentAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

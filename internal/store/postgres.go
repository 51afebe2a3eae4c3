package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// PostgresStore persists blobs in a single key/value table. Used when
// the bot runs against a shared database instead of local files.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore runs the blob table migration and returns the store.
// The pool is owned by the caller's db package; Close here closes it.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	log.Info().Msg("Using PostgreSQL blob store")
	return s, nil
}

// migrate creates the blobs table.
func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS blobs (
			key TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate blobs table: %w", err)
	}
	return nil
}

// Load reads and decodes the blob row for key.
func (s *PostgresStore) Load(ctx context.Context, key string, v any) (bool, error) {
	const query = `SELECT data FROM blobs WHERE key = $1`

	var raw []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load blob %s: %w", key, err)
	}
	return decode(key, raw, v), nil
}

// Save upserts the blob row for key.
func (s *PostgresStore) Save(ctx context.Context, key string, v any) error {
	raw, err := encode(v)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO blobs (key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET data = $2, updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, key, raw); err != nil {
		return fmt.Errorf("failed to save blob %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob row for key.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM blobs WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

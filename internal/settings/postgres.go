package settings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS default_parameters (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertSQL = `
INSERT INTO default_parameters (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

// PostgresStore keeps parameters in the default_parameters table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps pool. Call EnsureSchema once before first use.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create default_parameters: %w", err)
	}
	return nil
}

// Load reads all stored keys on top of Defaults.
func (s *PostgresStore) Load(ctx context.Context) (Parameters, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, value FROM default_parameters`)
	if err != nil {
		return Parameters{}, fmt.Errorf("query default_parameters: %w", err)
	}
	defer rows.Close()

	flat := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Parameters{}, fmt.Errorf("scan default_parameters: %w", err)
		}
		flat[key] = value
	}
	if err := rows.Err(); err != nil {
		return Parameters{}, fmt.Errorf("read default_parameters: %w", err)
	}

	return FromMap(flat)
}

// Save replaces the stored mapping with p in one transaction. Keys for unset
// optional values are removed.
func (s *PostgresStore) Save(ctx context.Context, p Parameters) error {
	flat := p.ToMap()
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, k := range keys {
			batch.Queue(upsertSQL, k, flat[k])
		}
		batch.Queue(`DELETE FROM default_parameters WHERE NOT (key = ANY($1))`, keys)

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("save default_parameters: %w", err)
		}
		return nil
	})
}

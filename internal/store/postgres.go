package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps records in the kv_records table created by cmd/migrate.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres creates a connection pool. We use a pool (not a single conn)
// because Neon closes idle connections after ~5 minutes.
func OpenPostgres(ctx context.Context, dbURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Simple protocol avoids "cached plan must not change result type" from
	// Neon's server-side statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := p.pool.QueryRow(ctx,
		"SELECT value::text FROM kv_records WHERE key = @key",
		pgx.NamedArgs{"key": key}).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("[Postgres.Get] Query error for %s: %v", key, err)
		return nil, err
	}
	return []byte(value), nil
}

// Set upserts the whole document. The value goes over the wire as text and is
// cast server-side, since the simple protocol would send []byte as bytea.
func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO kv_records (key, value, updated_at)
		 VALUES (@key, @value::jsonb, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		pgx.NamedArgs{"key": key, "value": string(value)})
	if err != nil {
		log.Printf("[Postgres.Set] Exec error for %s: %v", key, err)
	}
	return err
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, "DELETE FROM kv_records WHERE key = @key", pgx.NamedArgs{"key": key})
	return err
}

// Keys matches with LIKE so the text_pattern_ops index applies. Prefixes are
// fixed key namespaces and never contain LIKE wildcards.
func (p *Postgres) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT key FROM kv_records WHERE key LIKE @pattern ORDER BY key",
		pgx.NamedArgs{"pattern": prefix + "%"})
	if err != nil {
		log.Printf("[Postgres.Keys] Query error: %v", err)
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

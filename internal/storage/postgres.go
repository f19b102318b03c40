package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgExecutor is the subset of *pgxpool.Pool the backend uses.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresBackend struct {
	db pgExecutor
}

const createSelectionTable = `
	CREATE TABLE IF NOT EXISTS selection_records (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// NewPostgresBackend persists items in the selection_records table, creating
// it when missing.
func NewPostgresBackend(ctx context.Context, db *pgxpool.Pool) (Backend, error) {
	return newPostgresBackend(ctx, db)
}

func newPostgresBackend(ctx context.Context, db pgExecutor) (*postgresBackend, error) {
	if _, err := db.Exec(ctx, createSelectionTable); err != nil {
		return nil, fmt.Errorf("failed to create selection_records table: %w", err)
	}
	return &postgresBackend{db: db}, nil
}

func (p *postgresBackend) Name() string {
	return "postgres"
}

func (p *postgresBackend) SetItem(ctx context.Context, key string, value []byte) error {
	query := `
	INSERT INTO selection_records (key, value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key)
	DO UPDATE SET value = $2, updated_at = now()`
	_, err := p.db.Exec(ctx, query, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to save item %s: %w", key, err)
	}
	return nil
}

func (p *postgresBackend) GetItem(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := p.db.QueryRow(ctx, `SELECT value::text FROM selection_records WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load item %s: %w", key, err)
	}
	return []byte(value), nil
}

func (p *postgresBackend) RemoveItem(ctx context.Context, key string) error {
	_, err := p.db.Exec(ctx, `DELETE FROM selection_records WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to remove item %s: %w", key, err)
	}
	return nil
}

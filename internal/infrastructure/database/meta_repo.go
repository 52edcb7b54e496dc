package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bossbot/internal/ports/output"
)

var _ output.MetaRepository = (*MetaRepository)(nil)

// MetaRepository is the key/value bookkeeping table (tick marker,
// offline marker, seed versions).
type MetaRepository struct {
	pool *pgxpool.Pool
}

func NewMetaRepository(pool *pgxpool.Pool) *MetaRepository {
	return &MetaRepository{pool: pool}
}

// Get returns "" without error when the key is absent.
func (r *MetaRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx, "SELECT value FROM meta WHERE key=$1", key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", wrapStore("get meta", err)
	}
	return value, nil
}

func (r *MetaRepository) Set(ctx context.Context, key, value string) error {
	if _, err := r.pool.Exec(ctx,
		"INSERT INTO meta (key, value) VALUES ($1,$2) ON CONFLICT (key) DO UPDATE SET value=excluded.value",
		key, value,
	); err != nil {
		return wrapStore("set meta", err)
	}
	return nil
}

func (r *MetaRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM meta WHERE key=$1", key); err != nil {
		return wrapStore("delete meta", err)
	}
	return nil
}

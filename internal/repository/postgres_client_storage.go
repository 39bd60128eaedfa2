package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresClientStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresClientStorage returns storage on the console_client_storage table.
func NewPostgresClientStorage(pool *pgxpool.Pool) ClientStorage {
	return &postgresClientStorage{pool: pool}
}

func (s *postgresClientStorage) Load(ctx context.Context, clientID string, keys ...string) (map[string]string, error) {
	const query = `
        SELECT key, value FROM console_client_storage
        WHERE client_id = $1 AND key = ANY($2)`

	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	rows, err := s.pool.Query(ctx, query, clientID, keys)
	if err != nil {
		return nil, fmt.Errorf("load client storage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, rows.Err()
}

func (s *postgresClientStorage) Save(ctx context.Context, clientID string, values map[string]string) error {
	const query = `
        INSERT INTO console_client_storage (client_id, key, value)
        VALUES ($1, $2, $3)
        ON CONFLICT (client_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if len(values) == 0 {
		return nil
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for key, val := range values {
			batch.Queue(query, clientID, key, val)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("save client storage: %w", err)
		}
		return nil
	})
}

func (s *postgresClientStorage) Delete(ctx context.Context, clientID string, keys ...string) error {
	const query = `DELETE FROM console_client_storage WHERE client_id = $1 AND key = ANY($2)`

	if len(keys) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, query, clientID, keys); err != nil {
		return fmt.Errorf("delete client storage: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseClientStorage(t *testing.T, storage ClientStorage) {
	ctx := context.Background()

	values, err := storage.Load(ctx, "client-a", "token", "user")
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, storage.Save(ctx, "client-a", map[string]string{"token": "T", "user": `{"id":1}`}))
	require.NoError(t, storage.Save(ctx, "client-b", map[string]string{"token": "other"}))

	values, err = storage.Load(ctx, "client-a", "token", "user", "theme")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"token": "T", "user": `{"id":1}`}, values)

	require.NoError(t, storage.Save(ctx, "client-a", map[string]string{"token": "T2"}))
	values, err = storage.Load(ctx, "client-a", "token")
	require.NoError(t, err)
	assert.Equal(t, "T2", values["token"])

	require.NoError(t, storage.Delete(ctx, "client-a", "token", "user"))
	require.NoError(t, storage.Delete(ctx, "client-a", "token", "user"))
	require.NoError(t, storage.Delete(ctx, "client-never-seen", "token"))

	values, err = storage.Load(ctx, "client-a", "token", "user")
	require.NoError(t, err)
	assert.Empty(t, values)

	values, err = storage.Load(ctx, "client-b", "token")
	require.NoError(t, err)
	assert.Equal(t, "other", values["token"])

	values, err = storage.Load(ctx, "client-b")
	require.NoError(t, err)
	assert.Empty(t, values)
	assert.NoError(t, storage.Save(ctx, "client-b", nil))
	assert.NoError(t, storage.Delete(ctx, "client-b"))
}

func TestMemoryClientStorage(t *testing.T) {
	exerciseClientStorage(t, NewMemoryClientStorage())
}

func TestRedisClientStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	exerciseClientStorage(t, NewRedisClientStorage(client, "test:console"))

	assert.True(t, mr.Exists("test:console:client:client-b"))
	assert.Equal(t, "other", mr.HGet("test:console:client:client-b", "token"))
}

func TestRedisClientStorageUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	storage := NewRedisClientStorage(client, "test:console")
	_, err = storage.Load(context.Background(), "c", "token")
	assert.Error(t, err)
	assert.Error(t, storage.Save(context.Background(), "c", map[string]string{"token": "T"}))
}

func TestPostgresClientStorage(t *testing.T) {
	dsn := os.Getenv("CONSOLE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CONSOLE_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS console_client_storage (
            client_id TEXT NOT NULL, key TEXT NOT NULL, value TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(), PRIMARY KEY (client_id, key))`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM console_client_storage WHERE client_id LIKE 'client-%'`)
	require.NoError(t, err)

	exerciseClientStorage(t, NewPostgresClientStorage(pool))
}

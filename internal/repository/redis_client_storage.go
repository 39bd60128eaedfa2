package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Each client is one Redis hash, so a multi-key Save is a single HSET.
type redisClientStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisClientStorage returns Redis-backed storage. Keys are prefix:client:<id>.
func NewRedisClientStorage(client *redis.Client, prefix string) ClientStorage {
	return &redisClientStorage{client: client, prefix: prefix}
}

func (s *redisClientStorage) key(clientID string) string {
	return fmt.Sprintf("%s:client:%s", s.prefix, clientID)
}

func (s *redisClientStorage) Load(ctx context.Context, clientID string, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	values, err := s.client.HMGet(ctx, s.key(clientID), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load client storage: %w", err)
	}
	for i, val := range values {
		if str, ok := val.(string); ok {
			out[keys[i]] = str
		}
	}
	return out, nil
}

func (s *redisClientStorage) Save(ctx context.Context, clientID string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(values))
	for key, val := range values {
		fields[key] = val
	}
	if err := s.client.HSet(ctx, s.key(clientID), fields).Err(); err != nil {
		return fmt.Errorf("save client storage: %w", err)
	}
	return nil
}

func (s *redisClientStorage) Delete(ctx context.Context, clientID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, s.key(clientID), keys...).Err(); err != nil {
		return fmt.Errorf("delete client storage: %w", err)
	}
	return nil
}

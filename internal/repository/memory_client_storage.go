package repository

import (
	"context"
	"sync"
)

type memoryClientStorage struct {
	mu      sync.RWMutex
	clients map[string]map[string]string
}

// NewMemoryClientStorage returns process-local storage for development and tests.
func NewMemoryClientStorage() ClientStorage {
	return &memoryClientStorage{clients: make(map[string]map[string]string)}
}

func (s *memoryClientStorage) Load(_ context.Context, clientID string, keys ...string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(keys))
	values := s.clients[clientID]
	for _, key := range keys {
		if val, ok := values[key]; ok {
			out[key] = val
		}
	}
	return out, nil
}

func (s *memoryClientStorage) Save(_ context.Context, clientID string, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.clients[clientID]
	if !ok {
		stored = make(map[string]string, len(values))
		s.clients[clientID] = stored
	}
	for key, val := range values {
		stored[key] = val
	}
	return nil
}

func (s *memoryClientStorage) Delete(_ context.Context, clientID string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.clients[clientID]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(stored, key)
	}
	if len(stored) == 0 {
		delete(s.clients, clientID)
	}
	return nil
}

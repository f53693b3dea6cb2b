package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemory returns an in-process Store used by tests and offline tooling.
func NewMemory() Store {
	return &memoryStore{data: make(map[string]map[string]string)}
}

func (s *memoryStore) GetField(_ context.Context, key, field string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	value, ok := fields[field]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *memoryStore) SetField(_ context.Context, key, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields, ok := s.data[key]
	if !ok {
		fields = make(map[string]string)
		s.data[key] = fields
	}
	fields[field] = value
	return nil
}

func (s *memoryStore) DeleteKey(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memoryStore) KeysByPrefix(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *memoryStore) Close() error { return nil }

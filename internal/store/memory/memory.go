// Package memory is an in-process Collections driver for tests and demos.
package memory

import (
	"context"
	"sync"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string][]byte
}

func New() *Store {
	return &Store{collections: make(map[string][]byte)}
}

func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.collections[name]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), b...), nil
}

func (s *Store) Save(ctx context.Context, name string, records []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[name] = append([]byte(nil), records...)
	return nil
}

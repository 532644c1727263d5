package memory

import (
	"context"
	"sync"
)

// DocumentStore holds the local question document in process memory.
type DocumentStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

func (s *DocumentStore) Load(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *DocumentStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}

func (s *DocumentStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

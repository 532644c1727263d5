package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultDocumentKey is where the local question document lives.
const DefaultDocumentKey = "quiz:document:allQuestions"

// DocumentStore keeps the local question document as a single Redis string
// so several service instances share one local view.
type DocumentStore struct {
	client *redis.Client
	key    string
}

func NewDocumentStore(client *redis.Client, key string) *DocumentStore {
	if key == "" {
		key = DefaultDocumentKey
	}
	return &DocumentStore{client: client, key: key}
}

func (s *DocumentStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.key, err)
	}
	return data, nil
}

func (s *DocumentStore) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", s.key, err)
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", s.key, err)
	}
	return nil
}

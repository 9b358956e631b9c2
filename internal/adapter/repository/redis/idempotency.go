package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/homeledger/internal/usecase"
)

const pendingMarker = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
// A reserved key holds a pending marker until the response is stored.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "homeledger:idempotency:",
	}
}

// Reserve claims key with SETNX. When the key is taken it returns the
// stored response, or nil while the owner has not completed yet.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (*usecase.IdempotentResponse, bool, error) {
	fullKey := s.prefix + key

	// The key can expire between SETNX and GET, so try twice.
	for range 2 {
		set, err := s.client.SetNX(ctx, fullKey, pendingMarker, ttl).Result()
		if err != nil {
			return nil, false, err
		}
		if set {
			return nil, true, nil
		}

		stored, err := s.client.Get(ctx, fullKey).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, false, err
		}

		if string(stored) == pendingMarker {
			return nil, false, nil
		}

		var resp usecase.IdempotentResponse
		if err := json.Unmarshal(stored, &resp); err != nil {
			return nil, false, fmt.Errorf("decode stored response for %q: %w", key, err)
		}

		return &resp, false, nil
	}

	return nil, false, nil
}

// Complete stores the final response, replacing the pending marker.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, resp usecase.IdempotentResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.prefix+key, data, ttl).Err()
}

// Release deletes the key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

var _ usecase.IdempotencyStore = (*IdempotencyStore)(nil)

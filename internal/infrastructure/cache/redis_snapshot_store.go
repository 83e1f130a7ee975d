package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmenu/backend/internal/domain/cart"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "mmenu:cart:"

// redisClient is the subset of *redis.Client the store uses
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCartSnapshotStore implements cart.SnapshotRepository on Redis. Each
// table session is one JSON value that expires after the configured TTL.
type RedisCartSnapshotStore struct {
	client    redisClient
	keyPrefix string
	ttl       time.Duration
	now       func() time.Time
}

// NewRedisCartSnapshotStore creates a store on an existing client
func NewRedisCartSnapshotStore(client *redis.Client, ttl time.Duration) *RedisCartSnapshotStore {
	return newRedisCartSnapshotStore(client, defaultKeyPrefix, ttl)
}

func newRedisCartSnapshotStore(client redisClient, keyPrefix string, ttl time.Duration) *RedisCartSnapshotStore {
	return &RedisCartSnapshotStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Load returns the stored cart, or an empty cart when the key is missing
func (s *RedisCartSnapshotStore) Load(ctx context.Context, key string) (cart.Cart, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.Cart{}, nil
	}
	if err != nil {
		return cart.Cart{}, fmt.Errorf("failed to load cart snapshot: %w", err)
	}
	return decodeSnapshot(data)
}

// Save stores the cart and refreshes its TTL. An empty cart deletes the key.
func (s *RedisCartSnapshotStore) Save(ctx context.Context, key string, c cart.Cart) error {
	if c.IsEmpty() {
		return s.Delete(ctx, key)
	}
	data, err := encodeSnapshot(c, s.now())
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.keyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// Delete removes the stored cart
func (s *RedisCartSnapshotStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cart snapshot: %w", err)
	}
	return nil
}

var _ cart.SnapshotRepository = (*RedisCartSnapshotStore)(nil)

package cache

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mmenu/backend/internal/domain/cart"
	"github.com/mmenu/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// SnapshotStore is a cart.SnapshotRepository that owns resources
type SnapshotStore interface {
	cart.SnapshotRepository
	io.Closer
}

// SnapshotStoreFactory creates cart snapshot stores based on configuration
type SnapshotStoreFactory struct {
	cartConfig            config.CartConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SnapshotStoreFactoryOption is a functional option for configuring the factory
type SnapshotStoreFactoryOption func(*SnapshotStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SnapshotStoreFactoryOption {
	return func(f *SnapshotStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory store. Default is true.
func WithInMemoryFallback(allow bool) SnapshotStoreFactoryOption {
	return func(f *SnapshotStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSnapshotStoreFactory creates a new factory
func NewSnapshotStoreFactory(cartCfg config.CartConfig, redisCfg config.RedisConfig, opts ...SnapshotStoreFactoryOption) *SnapshotStoreFactory {
	f := &SnapshotStoreFactory{
		cartConfig:            cartCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns the configured store. With the redis backend it pings
// the server first and falls back to memory when allowed.
func (f *SnapshotStoreFactory) CreateStore(ctx context.Context) (SnapshotStore, error) {
	if f.cartConfig.Backend == "memory" {
		f.logger.Info("using in-memory cart snapshot store")
		return NewInMemoryCartSnapshotStore(f.cartConfig.SnapshotTTL), nil
	}

	store, err := f.createRedisStore(ctx)
	if err == nil {
		f.logger.Info("using Redis cart snapshot store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for cart snapshots but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cart snapshots. "+
		"Carts will not survive a restart or be shared between instances.",
		zap.Error(err),
	)
	return NewInMemoryCartSnapshotStore(f.cartConfig.SnapshotTTL), nil
}

type redisSnapshotStore struct {
	*RedisCartSnapshotStore
	client *redis.Client
}

func (s redisSnapshotStore) Close() error {
	return s.client.Close()
}

func (f *SnapshotStoreFactory) createRedisStore(ctx context.Context) (SnapshotStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return redisSnapshotStore{
		RedisCartSnapshotStore: NewRedisCartSnapshotStore(client, f.cartConfig.SnapshotTTL),
		client:                 client,
	}, nil
}

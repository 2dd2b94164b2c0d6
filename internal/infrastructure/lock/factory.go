package lock

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates lockers based on configuration
type Factory struct {
	lockConfig    config.LockConfig
	redisConfig   config.RedisConfig
	logger        *zap.Logger
	allowFallback bool
	client        *redis.Client
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory and the lockers it creates
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-process locker
// when Redis is unavailable. Overrides config.LockConfig.FallbackToMemory.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowFallback = allow
	}
}

// NewFactory creates a new locker factory
func NewFactory(lockCfg config.LockConfig, redisCfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		lockConfig:    lockCfg,
		redisConfig:   redisCfg,
		logger:        zap.NewNop(),
		allowFallback: lockCfg.FallbackToMemory,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) timing() shared.LockConfig {
	return shared.LockConfig{WaitTime: f.lockConfig.WaitTime, LeaseTime: f.lockConfig.LeaseTime}
}

// CreateInMemoryLocker creates an in-process locker.
// WARNING: it only excludes callers within this process; running more than
// one instance against the same database needs the Redis locker.
func (f *Factory) CreateInMemoryLocker() *InMemoryLocker {
	return NewInMemoryLocker(f.timing(), f.logger)
}

// CreateRedisLocker connects to Redis and creates a distributed locker
func (f *Factory) CreateRedisLocker(ctx context.Context) (*RedisLocker, error) {
	client, err := NewRedisClient(ctx, f.redisConfig.Addr(), f.redisConfig.Password, f.redisConfig.DB, f.redisConfig.DialTimeout)
	if err != nil {
		return nil, err
	}
	f.client = client

	return NewRedisLocker(client, f.timing(),
		WithRetryDelay(f.lockConfig.RetryDelay),
		WithKeyPrefix(f.lockConfig.KeyPrefix),
		WithRedisLogger(f.logger),
	), nil
}

// Create returns the locker selected by lock.backend. For the redis backend
// it falls back to the in-process locker when Redis is unreachable and
// fallback is allowed.
func (f *Factory) Create(ctx context.Context) (shared.Locker, error) {
	if f.lockConfig.Backend == config.LockBackendMemory {
		f.logger.Info("using in-memory account locks")
		return f.CreateInMemoryLocker(), nil
	}

	locker, err := f.CreateRedisLocker(ctx)
	if err == nil {
		f.logger.Info("using Redis account locks", zap.String("addr", f.redisConfig.Addr()))
		return locker, nil
	}

	if !f.allowFallback {
		return nil, fmt.Errorf("Redis required for account locks but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory account locks. "+
		"Withdrawals are only serialized within this instance.",
		zap.Error(err),
	)
	return f.CreateInMemoryLocker(), nil
}

// Close releases the Redis client if one was created
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}

// Ping checks the Redis connection behind the locker. It is a no-op for the
// in-memory backend.
func (f *Factory) Ping(ctx context.Context) error {
	if f.client == nil {
		return nil
	}
	return f.client.Ping(ctx).Err()
}

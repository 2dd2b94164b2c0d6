package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultRetryDelay = 50 * time.Millisecond
	defaultKeyPrefix  = "lock:"
	unlockTimeout     = 2 * time.Second
)

// RedisLocker implements shared.Locker with redsync mutexes.
// The lease is the key TTL; release only deletes the key while it still
// holds this holder's random value, so a late release cannot free a lock
// that has since been taken by someone else.
type RedisLocker struct {
	rs         *redsync.Redsync
	cfg        shared.LockConfig
	retryDelay time.Duration
	keyPrefix  string
	logger     *zap.Logger
}

// RedisLockerOption configures a RedisLocker
type RedisLockerOption func(*RedisLocker)

// WithRetryDelay sets the polling interval used while waiting for a held lock
func WithRetryDelay(d time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		if d > 0 {
			l.retryDelay = d
		}
	}
}

// WithKeyPrefix sets the prefix prepended to every lock key
func WithKeyPrefix(prefix string) RedisLockerOption {
	return func(l *RedisLocker) {
		l.keyPrefix = prefix
	}
}

// WithRedisLogger sets the logger used for release failures
func WithRedisLogger(logger *zap.Logger) RedisLockerOption {
	return func(l *RedisLocker) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewRedisLocker creates a Redis-backed locker over an existing client
func NewRedisLocker(client redis.UniversalClient, cfg shared.LockConfig, opts ...RedisLockerOption) *RedisLocker {
	l := &RedisLocker{
		rs:         redsync.New(goredis.NewPool(client)),
		cfg:        cfg,
		retryDelay: defaultRetryDelay,
		keyPrefix:  defaultKeyPrefix,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RunExclusive implements shared.Locker
func (l *RedisLocker) RunExclusive(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	mutex := l.rs.NewMutex(l.keyPrefix+key,
		redsync.WithExpiry(l.cfg.LeaseTime),
		redsync.WithTries(int(l.cfg.WaitTime/l.retryDelay)+1),
		redsync.WithRetryDelay(l.retryDelay),
	)

	acquireCtx, cancel := context.WithTimeout(ctx, l.cfg.WaitTime)
	err := mutex.LockContext(acquireCtx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &shared.LockTimeoutError{Key: key, Wait: l.cfg.WaitTime, Err: err}
	}

	defer l.unlock(ctx, key, mutex)
	return fn(ctx)
}

func (l *RedisLocker) unlock(ctx context.Context, key string, mutex *redsync.Mutex) {
	unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
	defer cancel()

	ok, err := mutex.UnlockContext(unlockCtx)
	if err != nil || !ok {
		// the lease expired or redis is unreachable; the key expires on its own
		l.logger.Warn("failed to release lock",
			zap.String("lock_key", key),
			zap.Bool("released", ok),
			zap.Error(err),
		)
	}
}

// NewRedisClient creates a go-redis client and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int, dialTimeout time.Duration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout+time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

var _ shared.Locker = (*RedisLocker)(nil)

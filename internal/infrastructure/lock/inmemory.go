package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wallet/withdrawal/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryLocker implements shared.Locker with one semaphore per key.
// Entries are reference counted and removed once no goroutine holds or
// waits for them, so the map does not grow with the number of accounts.
type InMemoryLocker struct {
	cfg    shared.LockConfig
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]*lockEntry
	tokens  atomic.Uint64
}

type lockEntry struct {
	sem   chan struct{}
	refs  int
	owner uint64 // 0 when free
	lease *time.Timer
}

// NewInMemoryLocker creates an in-process locker
func NewInMemoryLocker(cfg shared.LockConfig, logger *zap.Logger) *InMemoryLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryLocker{
		cfg:     cfg,
		logger:  logger,
		entries: make(map[string]*lockEntry),
	}
}

// RunExclusive implements shared.Locker
func (l *InMemoryLocker) RunExclusive(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	e := l.acquireEntry(key)
	defer l.releaseEntry(key, e)

	timer := time.NewTimer(l.cfg.WaitTime)
	defer timer.Stop()

	select {
	case e.sem <- struct{}{}:
	case <-timer.C:
		return &shared.LockTimeoutError{Key: key, Wait: l.cfg.WaitTime}
	case <-ctx.Done():
		return ctx.Err()
	}

	token := l.tokens.Add(1)
	l.mu.Lock()
	e.owner = token
	e.lease = time.AfterFunc(l.cfg.LeaseTime, func() {
		if l.unlock(e, token) {
			l.logger.Warn("lock lease expired while held",
				zap.String("lock_key", key),
				zap.Duration("lease", l.cfg.LeaseTime),
			)
		}
	})
	l.mu.Unlock()

	defer l.unlock(e, token)
	return fn(ctx)
}

// unlock frees the entry if token still owns it and reports whether it did
func (l *InMemoryLocker) unlock(e *lockEntry, token uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.owner != token {
		return false
	}
	e.owner = 0
	e.lease.Stop()
	<-e.sem
	return true
}

func (l *InMemoryLocker) acquireEntry(key string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *InMemoryLocker) releaseEntry(key string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 && e.owner == 0 {
		delete(l.entries, key)
	}
}

// size returns the number of tracked keys
func (l *InMemoryLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

var _ shared.Locker = (*InMemoryLocker)(nil)

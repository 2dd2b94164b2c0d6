package shared

import (
	"context"
	"time"
)

// Locker grants mutual exclusion per key.
//
// RunExclusive blocks until the lock for key is held (bounded by the
// implementation's wait time), runs fn, and releases the lock on every exit
// path of fn, including panics. When the lock cannot be acquired in time a
// *LockTimeoutError is returned and fn is never called. Releasing a lock whose
// lease has already expired is a no-op.
//
// Implementations must be safe for concurrent use. Operations on different
// keys never contend with each other.
type Locker interface {
	RunExclusive(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// LockConfig holds the timing parameters shared by all Locker implementations
type LockConfig struct {
	// WaitTime bounds how long RunExclusive blocks trying to acquire the lock.
	WaitTime time.Duration
	// LeaseTime is the automatic expiry applied once the lock is held.
	// It protects against crashed holders and is not an operational limit.
	LeaseTime time.Duration
}

// DefaultLockConfig returns the default lock timing: 10s wait, 30s lease
func DefaultLockConfig() LockConfig {
	return LockConfig{
		WaitTime:  10 * time.Second,
		LeaseTime: 30 * time.Second,
	}
}

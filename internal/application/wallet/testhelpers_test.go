package wallet

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/wallet"
	"github.com/wallet/withdrawal/internal/infrastructure/config"
	"github.com/wallet/withdrawal/internal/infrastructure/event"
	"github.com/wallet/withdrawal/internal/infrastructure/lock"
	"github.com/wallet/withdrawal/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type recordingMetrics struct {
	mu        sync.Mutex
	outcomes  map[string]int
	lockWaits int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{outcomes: map[string]int{}}
}

func (m *recordingMetrics) ObserveWithdrawal(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

func (m *recordingMetrics) ObserveLockWait(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockWaits++
}

func (m *recordingMetrics) count(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}

// newSQLiteDB opens an in-memory database through the production constructor
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.AutoMigrate())
	return database.DB
}

func testLockConfig(wait time.Duration) shared.LockConfig {
	return shared.LockConfig{WaitTime: wait, LeaseTime: 30 * time.Second}
}

type harness struct {
	db      *gorm.DB
	service *WithdrawalService
	metrics *recordingMetrics
	locker  shared.Locker
}

func newHarnessWithDB(t *testing.T, db *gorm.DB, locker shared.Locker) *harness {
	t.Helper()
	return newWrappedHarness(t, db, locker, nil)
}

// newWrappedHarness lets a test decorate the unit of work the service applies
// withdrawals through
func newWrappedHarness(t *testing.T, db *gorm.DB, locker shared.Locker, wrap func(wallet.UnitOfWork) wallet.UnitOfWork) *harness {
	t.Helper()
	if locker == nil {
		locker = lock.NewInMemoryLocker(testLockConfig(10*time.Second), zap.NewNop())
	}
	outbox := event.NewOutboxPublisher(event.NewWalletEventSerializer())
	metrics := newRecordingMetrics()
	var uow wallet.UnitOfWork = persistence.NewGormUnitOfWork(db, outbox)
	if wrap != nil {
		uow = wrap(uow)
	}
	svc := NewWithdrawalService(WithdrawalServiceConfig{
		Accounts:   persistence.NewGormAccountRepository(db),
		Ledger:     persistence.NewGormLedgerRepository(db),
		UnitOfWork: uow,
		Locker:     locker,
		Metrics:    metrics,
		Logger:     zaptest.NewLogger(t),
	})
	return &harness{db: db, service: svc, metrics: metrics, locker: locker}
}

func newHarness(t *testing.T, locker shared.Locker) *harness {
	t.Helper()
	return newHarnessWithDB(t, newSQLiteDB(t), locker)
}

func (h *harness) open(t *testing.T, balance string) uuid.UUID {
	t.Helper()
	res, err := h.service.OpenAccount(context.Background(), OpenAccountCommand{
		InitialBalance: decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return res.AccountID
}

func (h *harness) balance(t *testing.T, id uuid.UUID) string {
	t.Helper()
	res, err := h.service.GetBalance(context.Background(), id)
	require.NoError(t, err)
	return res.Balance.String()
}

func (h *harness) countRows(t *testing.T, table string, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Table(table).Where(where, args...).Count(&n).Error)
	return n
}

func withdrawCmd(id uuid.UUID, token, amount string) WithdrawCommand {
	return WithdrawCommand{
		AccountID:        id,
		IdempotencyToken: token,
		Amount:           decimal.RequireFromString(amount),
	}
}

// overlapGauge records how many apply transactions run at the same time.
// hold widens each call so overlapping callers are visible before the
// database gets a chance to queue them.
type overlapGauge struct {
	inner  wallet.UnitOfWork
	hold   time.Duration
	active atomic.Int32
	peak   atomic.Int32
}

func (g *overlapGauge) Do(ctx context.Context, fn func(ctx context.Context, tx wallet.TxStore) error) error {
	n := g.active.Add(1)
	defer g.active.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(g.hold)
	return g.inner.Do(ctx, fn)
}

func gaugeWith(hold time.Duration) (*overlapGauge, func(wallet.UnitOfWork) wallet.UnitOfWork) {
	g := &overlapGauge{hold: hold}
	return g, func(inner wallet.UnitOfWork) wallet.UnitOfWork {
		g.inner = inner
		return g
	}
}

// unguardedLocker runs fn without any exclusion
type unguardedLocker struct{}

func (unguardedLocker) RunExclusive(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

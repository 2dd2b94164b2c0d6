package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/shared/valueobject"
	"github.com/wallet/withdrawal/internal/domain/wallet"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*wallet.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *wallet.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *wallet.Account) error {
	return m.Called(ctx, account).Error(0)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *wallet.LedgerEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockLedgerRepository) FindByToken(ctx context.Context, token string) (*wallet.LedgerEntry, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]wallet.LedgerEntry, int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]wallet.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerRepository) FindAllByAccount(ctx context.Context, accountID uuid.UUID) ([]wallet.LedgerEntry, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]wallet.LedgerEntry), args.Error(1)
}

type recordingEvents struct {
	events []shared.DomainEvent
}

func (r *recordingEvents) Record(_ context.Context, events ...shared.DomainEvent) error {
	r.events = append(r.events, events...)
	return nil
}

type fakeTxStore struct {
	accounts wallet.AccountRepository
	ledger   wallet.LedgerRepository
	events   *recordingEvents
}

func (s *fakeTxStore) Accounts() wallet.AccountRepository { return s.accounts }
func (s *fakeTxStore) Ledger() wallet.LedgerRepository    { return s.ledger }
func (s *fakeTxStore) Events() shared.EventRecorder       { return s.events }

// fakeUnitOfWork runs fn against fixed repositories and counts calls
type fakeUnitOfWork struct {
	tx    *fakeTxStore
	calls int
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx wallet.TxStore) error) error {
	u.calls++
	return fn(ctx, u.tx)
}

type stubLocker struct {
	err   error
	calls int
}

func (l *stubLocker) RunExclusive(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	l.calls++
	if l.err != nil {
		return l.err
	}
	return fn(ctx)
}

func newMockedService(accounts *MockAccountRepository, ledger *MockLedgerRepository, locker shared.Locker) (*WithdrawalService, *fakeUnitOfWork) {
	uow := &fakeUnitOfWork{tx: &fakeTxStore{accounts: accounts, ledger: ledger, events: &recordingEvents{}}}
	svc := NewWithdrawalService(WithdrawalServiceConfig{
		Accounts:   accounts,
		Ledger:     ledger,
		UnitOfWork: uow,
		Locker:     locker,
	})
	return svc, uow
}

func TestWithdraw_DuplicateTokenRaceBecomesReplay(t *testing.T) {
	accounts := new(MockAccountRepository)
	ledger := new(MockLedgerRepository)
	svc, _ := newMockedService(accounts, ledger, &stubLocker{})

	accountID := uuid.New()
	account := wallet.RestoreAccount(accountID, valueobject.MustNewMoneyFromString("100.00"), 1, time.Now(), time.Now())
	winner := wallet.NewLedgerEntry(accountID, "race", valueobject.MustNewMoneyFromString("30.00"), valueobject.MustNewMoneyFromString("70.00"))

	// probe and in-lock probe miss, the insert loses, the re-read finds the winner
	ledger.On("FindByToken", mock.Anything, "race").Return(nil, nil).Twice()
	ledger.On("FindByToken", mock.Anything, "race").Return(winner, nil).Once()
	accounts.On("FindByID", mock.Anything, accountID).Return(account, nil)
	accounts.On("Update", mock.Anything, mock.Anything).Return(nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(wallet.ErrDuplicateToken)

	res, err := svc.Withdraw(context.Background(), withdrawCmd(accountID, "race", "30.00"))
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Equal(t, "70.00", res.BalanceAfter.String())
	ledger.AssertExpectations(t)
}

func TestWithdraw_DuplicateTokenWithoutWinnerIsAnError(t *testing.T) {
	accounts := new(MockAccountRepository)
	ledger := new(MockLedgerRepository)
	svc, _ := newMockedService(accounts, ledger, &stubLocker{})

	accountID := uuid.New()
	account := wallet.RestoreAccount(accountID, valueobject.MustNewMoneyFromString("100.00"), 1, time.Now(), time.Now())

	ledger.On("FindByToken", mock.Anything, "ghost").Return(nil, nil)
	accounts.On("FindByID", mock.Anything, accountID).Return(account, nil)
	accounts.On("Update", mock.Anything, mock.Anything).Return(nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(wallet.ErrDuplicateToken)

	_, err := svc.Withdraw(context.Background(), withdrawCmd(accountID, "ghost", "30.00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, wallet.ErrDuplicateToken)
}

func TestWithdraw_LockTimeoutNeverOpensTransaction(t *testing.T) {
	accounts := new(MockAccountRepository)
	ledger := new(MockLedgerRepository)
	timeout := &shared.LockTimeoutError{Key: "wallet:x", Wait: time.Second}
	locker := &stubLocker{err: timeout}
	svc, uow := newMockedService(accounts, ledger, locker)

	ledger.On("FindByToken", mock.Anything, "t").Return(nil, nil).Once()

	_, err := svc.Withdraw(context.Background(), withdrawCmd(uuid.New(), "t", "1.00"))
	assert.ErrorIs(t, err, timeout)
	assert.Equal(t, 1, locker.calls)
	assert.Equal(t, 0, uow.calls)
	accounts.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestWithdraw_ReplayProbeSkipsLock(t *testing.T) {
	accounts := new(MockAccountRepository)
	ledger := new(MockLedgerRepository)
	locker := &stubLocker{}
	svc, uow := newMockedService(accounts, ledger, locker)

	accountID := uuid.New()
	recorded := wallet.NewLedgerEntry(accountID, "done", valueobject.MustNewMoneyFromString("5.00"), valueobject.MustNewMoneyFromString("95.00"))
	ledger.On("FindByToken", mock.Anything, "done").Return(recorded, nil)

	res, err := svc.Withdraw(context.Background(), withdrawCmd(accountID, "done", "5.00"))
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Equal(t, 0, locker.calls)
	assert.Equal(t, 0, uow.calls)
}

func TestWithdraw_ValidationBeforeIO(t *testing.T) {
	accounts := new(MockAccountRepository)
	ledger := new(MockLedgerRepository)
	locker := &stubLocker{}
	svc, _ := newMockedService(accounts, ledger, locker)

	_, err := svc.Withdraw(context.Background(), withdrawCmd(uuid.New(), "t", "0.00"))
	assert.True(t, shared.IsValidationError(err))
	ledger.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
	assert.Equal(t, 0, locker.calls)
}

func TestWithdraw_StorageFailureIsWrapped(t *testing.T) {
	accounts := new(MockAccountRepository)
	ledger := new(MockLedgerRepository)
	svc, uow := newMockedService(accounts, ledger, &stubLocker{})

	accountID := uuid.New()
	account := wallet.RestoreAccount(accountID, valueobject.MustNewMoneyFromString("100.00"), 3, time.Now(), time.Now())
	ledger.On("FindByToken", mock.Anything, "t").Return(nil, nil)
	accounts.On("FindByID", mock.Anything, accountID).Return(account, nil)
	accounts.On("Update", mock.Anything, mock.Anything).Return(shared.ErrConcurrentModification)

	_, err := svc.Withdraw(context.Background(), withdrawCmd(accountID, "t", "1.00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrConcurrentModification)
	assert.Empty(t, uow.tx.events.events)
	ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestWithdraw_RecordsWithdrawalEvent(t *testing.T) {
	accounts := new(MockAccountRepository)
	ledger := new(MockLedgerRepository)
	svc, uow := newMockedService(accounts, ledger, &stubLocker{})

	accountID := uuid.New()
	account := wallet.RestoreAccount(accountID, valueobject.MustNewMoneyFromString("100.00"), 1, time.Now(), time.Now())
	ledger.On("FindByToken", mock.Anything, "evt").Return(nil, nil)
	accounts.On("FindByID", mock.Anything, accountID).Return(account, nil)
	accounts.On("Update", mock.Anything, account).Return(nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Withdraw(context.Background(), withdrawCmd(accountID, "evt", "10.00"))
	require.NoError(t, err)

	require.Len(t, uow.tx.events.events, 1)
	evt, ok := uow.tx.events.events[0].(*wallet.WithdrawalCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, wallet.EventTypeWithdrawalCompleted, evt.EventType())
	assert.Equal(t, accountID, evt.AggregateID())
	assert.Empty(t, account.GetDomainEvents(), "events are cleared after recording")
	assert.Equal(t, 2, account.Version)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "applied", outcome(&WithdrawalResult{}, nil))
	assert.Equal(t, "replayed", outcome(&WithdrawalResult{Replayed: true}, nil))
	assert.Equal(t, "error", outcome(nil, errors.New("boom")))
	assert.Equal(t, "lock_timeout", outcome(nil, &shared.LockTimeoutError{}))
}

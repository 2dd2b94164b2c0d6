// Package wallet orchestrates idempotent withdrawals against wallet accounts.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/shared/valueobject"
	"github.com/wallet/withdrawal/internal/domain/wallet"
	"github.com/wallet/withdrawal/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// LockKeyPrefix namespaces per-account lock keys
const LockKeyPrefix = "wallet:"

// Metrics receives withdrawal measurements
type Metrics interface {
	ObserveWithdrawal(outcome string, d time.Duration)
	ObserveLockWait(d time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveWithdrawal(string, time.Duration) {}
func (noopMetrics) ObserveLockWait(time.Duration)           {}

// WithdrawalServiceConfig holds the dependencies of WithdrawalService.
// Accounts and Ledger serve reads outside any transaction.
type WithdrawalServiceConfig struct {
	Accounts   wallet.AccountRepository
	Ledger     wallet.LedgerRepository
	UnitOfWork wallet.UnitOfWork
	Locker     shared.Locker
	Metrics    Metrics
	Logger     *zap.Logger
}

// WithdrawalService applies withdrawals exactly once per idempotency token.
// Mutations of one account are serialized by the per-account lock and run
// inside a single storage transaction together with the ledger insert and
// the outbox event.
type WithdrawalService struct {
	accounts wallet.AccountRepository
	ledger   wallet.LedgerRepository
	uow      wallet.UnitOfWork
	locker   shared.Locker
	metrics  Metrics
	logger   *zap.Logger
}

// NewWithdrawalService creates a new WithdrawalService
func NewWithdrawalService(cfg WithdrawalServiceConfig) *WithdrawalService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &WithdrawalService{
		accounts: cfg.Accounts,
		ledger:   cfg.Ledger,
		uow:      cfg.UnitOfWork,
		locker:   cfg.Locker,
		metrics:  metrics,
		logger:   logger,
	}
}

// LockKey returns the lock key guarding an account
func LockKey(accountID uuid.UUID) string {
	return LockKeyPrefix + accountID.String()
}

// OpenAccount creates an account funded with the initial balance
func (s *WithdrawalService) OpenAccount(ctx context.Context, cmd OpenAccountCommand) (*AccountResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "open_account")
	defer span.End()

	initial, err := valueobject.NewMoney(cmd.InitialBalance)
	if err != nil {
		return nil, shared.NewValidationError("initial_balance", err.Error())
	}

	account := wallet.NewAccount(initial)
	err = s.uow.Do(ctx, func(ctx context.Context, tx wallet.TxStore) error {
		if err := tx.Accounts().Create(ctx, account); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		return tx.Events().Record(ctx, account.GetDomainEvents()...)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	account.ClearDomainEvents()

	telemetry.SetAttributes(span, telemetry.SpanAttrAccountID, account.ID.String())
	s.logger.Info("Account opened",
		zap.String("account_id", account.ID.String()),
		zap.String("balance", initial.String()),
	)

	return &AccountResult{
		AccountID: account.ID,
		Balance:   account.Balance,
		CreatedAt: account.CreatedAt,
	}, nil
}

// Withdraw debits an account once per idempotency token.
//
// A token that was already applied returns the recorded result with
// Replayed set, whatever amount the retry carries. Otherwise the account lock
// is taken and the balance check, debit, ledger insert and outbox write
// commit together. Nothing is mutated before the lock is held, so a
// *shared.LockTimeoutError is always safe to retry.
func (s *WithdrawalService) Withdraw(ctx context.Context, cmd WithdrawCommand) (*WithdrawalResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "withdraw")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrAccountID, cmd.AccountID.String(),
		telemetry.SpanAttrToken, cmd.IdempotencyToken,
		telemetry.SpanAttrAmount, cmd.Amount.String(),
	)

	start := time.Now()
	var result *WithdrawalResult
	var operationErr error
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("withdraw", nil), func(c context.Context) {
		result, operationErr = s.withdraw(c, cmd)
	})
	s.metrics.ObserveWithdrawal(outcome(result, operationErr), time.Since(start))

	if operationErr != nil {
		telemetry.RecordError(span, operationErr)
		return nil, operationErr
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrBalance, result.BalanceAfter.String(),
		telemetry.SpanAttrReplayed, result.Replayed,
	)
	return result, nil
}

func (s *WithdrawalService) withdraw(ctx context.Context, cmd WithdrawCommand) (*WithdrawalResult, error) {
	amount, err := validateWithdraw(cmd)
	if err != nil {
		return nil, err
	}

	recorded, err := s.ledger.FindByToken(ctx, cmd.IdempotencyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to look up idempotency token: %w", err)
	}
	if recorded != nil {
		s.logger.Debug("Withdrawal replayed",
			zap.String("idempotency_token", cmd.IdempotencyToken),
			zap.String("account_id", recorded.AccountID.String()),
		)
		return toWithdrawalResult(recorded, true), nil
	}

	var result *WithdrawalResult
	requested := time.Now()
	err = s.locker.RunExclusive(ctx, LockKey(cmd.AccountID), func(ctx context.Context) error {
		s.metrics.ObserveLockWait(time.Since(requested))

		entry, replayed, err := s.apply(ctx, cmd.AccountID, cmd.IdempotencyToken, amount)
		if err != nil {
			return err
		}
		result = toWithdrawalResult(entry, replayed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Replayed {
		s.logger.Info("Withdrawal applied",
			zap.String("account_id", result.AccountID.String()),
			zap.String("idempotency_token", result.Token),
			zap.String("amount", result.Amount.String()),
			zap.String("balance_after", result.BalanceAfter.String()),
		)
	}
	return result, nil
}

// apply runs under the account lock. The token is probed again because a
// request holding the lock before us may have recorded it.
func (s *WithdrawalService) apply(ctx context.Context, accountID uuid.UUID, token string, amount valueobject.Money) (*wallet.LedgerEntry, bool, error) {
	var entry *wallet.LedgerEntry
	replayed := false

	err := s.uow.Do(ctx, func(ctx context.Context, tx wallet.TxStore) error {
		recorded, err := tx.Ledger().FindByToken(ctx, token)
		if err != nil {
			return fmt.Errorf("failed to look up idempotency token: %w", err)
		}
		if recorded != nil {
			entry, replayed = recorded, true
			return nil
		}

		account, err := tx.Accounts().FindByID(ctx, accountID)
		if err != nil {
			return err
		}

		applied, err := account.Withdraw(token, amount)
		if err != nil {
			return err
		}

		if err := tx.Accounts().Update(ctx, account); err != nil {
			return fmt.Errorf("failed to update account balance: %w", err)
		}
		if err := tx.Ledger().Append(ctx, applied); err != nil {
			return err
		}
		if err := tx.Events().Record(ctx, account.GetDomainEvents()...); err != nil {
			return fmt.Errorf("failed to record withdrawal event: %w", err)
		}
		account.ClearDomainEvents()

		entry = applied
		return nil
	})

	if errors.Is(err, wallet.ErrDuplicateToken) {
		// another process recorded the token between our probe and insert
		winner, findErr := s.ledger.FindByToken(ctx, token)
		if findErr != nil {
			return nil, false, fmt.Errorf("failed to load conflicting withdrawal: %w", findErr)
		}
		if winner == nil {
			return nil, false, fmt.Errorf("token %q conflicted but no entry was recorded: %w", token, err)
		}
		s.logger.Info("Concurrent duplicate withdrawal resolved as replay",
			zap.String("idempotency_token", token),
			zap.String("account_id", winner.AccountID.String()),
		)
		return winner, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry, replayed, nil
}

// GetBalance returns the committed balance of an account. It takes no lock.
func (s *WithdrawalService) GetBalance(ctx context.Context, accountID uuid.UUID) (*BalanceResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "get_balance")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAccountID, accountID.String())

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &BalanceResult{
		AccountID: account.ID,
		Balance:   account.Balance,
		UpdatedAt: account.UpdatedAt,
	}, nil
}

// ListWithdrawals returns one page of an account's withdrawals, newest first
func (s *WithdrawalService) ListWithdrawals(ctx context.Context, accountID uuid.UUID, page, pageSize int) (*shared.Paginated[WithdrawalResult], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "list_withdrawals")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAccountID, accountID.String())

	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	filter := shared.Filter{Page: page, PageSize: pageSize}.Normalize()
	entries, total, err := s.ledger.FindByAccount(ctx, accountID, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}

	items := make([]WithdrawalResult, 0, len(entries))
	for i := range entries {
		items = append(items, *toWithdrawalResult(&entries[i], false))
	}
	paginated := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// GetWithdrawal returns the withdrawal recorded for a token
func (s *WithdrawalService) GetWithdrawal(ctx context.Context, token string) (*WithdrawalResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "get_withdrawal")
	defer span.End()

	if err := wallet.ValidateToken(token); err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrToken, token)

	entry, err := s.ledger.FindByToken(ctx, token)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to look up withdrawal: %w", err)
	}
	if entry == nil {
		return nil, wallet.ErrWithdrawalNotFound
	}
	return toWithdrawalResult(entry, false), nil
}

func validateWithdraw(cmd WithdrawCommand) (valueobject.Money, error) {
	if cmd.AccountID == uuid.Nil {
		return valueobject.Money{}, shared.NewValidationError("account_id", "is required")
	}
	if err := wallet.ValidateToken(cmd.IdempotencyToken); err != nil {
		return valueobject.Money{}, err
	}
	return validateAmount(cmd.Amount)
}

func validateAmount(d decimal.Decimal) (valueobject.Money, error) {
	amount, err := valueobject.NewMoney(d)
	if err != nil {
		return valueobject.Money{}, shared.NewValidationError("amount", err.Error())
	}
	if !amount.IsPositive() {
		return valueobject.Money{}, shared.NewValidationError("amount", "must be greater than zero")
	}
	return amount, nil
}

func outcome(result *WithdrawalResult, err error) string {
	switch {
	case err == nil && result.Replayed:
		return telemetry.OutcomeReplayed
	case err == nil:
		return telemetry.OutcomeApplied
	case shared.IsValidationError(err):
		return telemetry.OutcomeValidation
	case wallet.IsAccountNotFound(err):
		return telemetry.OutcomeAccountNotFound
	case wallet.IsInsufficientFunds(err):
		return telemetry.OutcomeInsufficientFunds
	case shared.IsLockTimeout(err):
		return telemetry.OutcomeLockTimeout
	default:
		return telemetry.OutcomeError
	}
}

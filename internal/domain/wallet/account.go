package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/shared/valueobject"
)

// Account is the aggregate root holding a wallet balance.
// The balance never goes below zero and only decreases through Withdraw.
type Account struct {
	shared.BaseAggregateRoot
	Balance valueobject.Money
}

// NewAccount creates an account funded with the given initial balance
func NewAccount(initial valueobject.Money) *Account {
	a := &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Balance:           initial,
	}
	a.AddDomainEvent(NewAccountOpenedEvent(a))
	return a
}

// RestoreAccount rebuilds an account from persisted state without raising events
func RestoreAccount(id uuid.UUID, balance valueobject.Money, version int, createdAt, updatedAt time.Time) *Account {
	a := &Account{Balance: balance}
	a.ID = id
	a.Version = version
	a.CreatedAt = createdAt
	a.UpdatedAt = updatedAt
	return a
}

// CanWithdraw reports whether the balance covers amount
func (a *Account) CanWithdraw(amount valueobject.Money) bool {
	return !a.Balance.LessThan(amount)
}

// Withdraw debits amount from the balance and returns the ledger entry that
// records it. A WithdrawalCompleted event is queued on the aggregate.
func (a *Account) Withdraw(token string, amount valueobject.Money) (*LedgerEntry, error) {
	if err := ValidateToken(token); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("amount", "must be greater than zero")
	}
	if !a.CanWithdraw(amount) {
		return nil, &InsufficientFundsError{AccountID: a.ID, Current: a.Balance, Requested: amount}
	}

	balance, err := a.Balance.Subtract(amount)
	if err != nil {
		return nil, err
	}
	a.Balance = balance

	entry := NewLedgerEntry(a.ID, token, amount, balance)
	a.Touch(entry.CreatedAt)
	a.IncrementVersion()
	a.AddDomainEvent(NewWithdrawalCompletedEvent(entry))
	return entry, nil
}

package wallet

import (
	"github.com/google/uuid"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/shared/valueobject"
)

// Aggregate type constant for Account
const AggregateTypeAccount = "Account"

// Event type constants for Account
const (
	EventTypeAccountOpened       = "AccountOpened"
	EventTypeWithdrawalCompleted = "WithdrawalCompleted"
)

// AccountOpenedEvent is raised when a new account is created
type AccountOpenedEvent struct {
	shared.BaseDomainEvent
	AccountID      uuid.UUID         `json:"account_id"`
	InitialBalance valueobject.Money `json:"initial_balance"`
}

// NewAccountOpenedEvent creates a new AccountOpenedEvent
func NewAccountOpenedEvent(a *Account) *AccountOpenedEvent {
	return &AccountOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountOpened, AggregateTypeAccount, a.ID),
		AccountID:       a.ID,
		InitialBalance:  a.Balance,
	}
}

// WithdrawalCompletedEvent is raised when a withdrawal is applied to an account
type WithdrawalCompletedEvent struct {
	shared.BaseDomainEvent
	AccountID        uuid.UUID         `json:"account_id"`
	EntryID          uuid.UUID         `json:"entry_id"`
	IdempotencyToken string            `json:"idempotency_token"`
	Amount           valueobject.Money `json:"amount"`
	BalanceAfter     valueobject.Money `json:"balance_after"`
}

// NewWithdrawalCompletedEvent creates a new WithdrawalCompletedEvent
func NewWithdrawalCompletedEvent(entry *LedgerEntry) *WithdrawalCompletedEvent {
	return &WithdrawalCompletedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeWithdrawalCompleted, AggregateTypeAccount, entry.AccountID),
		AccountID:        entry.AccountID,
		EntryID:          entry.ID,
		IdempotencyToken: entry.IdempotencyToken,
		Amount:           entry.Amount,
		BalanceAfter:     entry.BalanceAfter,
	}
}

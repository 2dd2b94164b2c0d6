package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wallet/withdrawal/internal/domain/shared/valueobject"
	"github.com/wallet/withdrawal/internal/domain/wallet"
)

// OpenAccountCommand opens a funded account
type OpenAccountCommand struct {
	InitialBalance decimal.Decimal
}

// WithdrawCommand requests a withdrawal. IdempotencyToken identifies the
// request: a repeated token returns the recorded result and moves no money.
type WithdrawCommand struct {
	AccountID        uuid.UUID
	IdempotencyToken string
	Amount           decimal.Decimal
}

// WithdrawalResult describes an applied withdrawal. Replayed is true when the
// token had already been applied and nothing changed on this call.
type WithdrawalResult struct {
	Token        string            `json:"transaction_id"`
	AccountID    uuid.UUID         `json:"wallet_id"`
	Amount       valueobject.Money `json:"amount"`
	BalanceAfter valueobject.Money `json:"balance_after"`
	Timestamp    time.Time         `json:"timestamp"`
	Replayed     bool              `json:"replayed"`
}

// BalanceResult is the current balance of an account
type BalanceResult struct {
	AccountID uuid.UUID         `json:"wallet_id"`
	Balance   valueobject.Money `json:"balance"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// AccountResult is returned when an account is opened
type AccountResult struct {
	AccountID uuid.UUID         `json:"wallet_id"`
	Balance   valueobject.Money `json:"balance"`
	CreatedAt time.Time         `json:"created_at"`
}

// StatementResult points at an exported statement
type StatementResult struct {
	AccountID   uuid.UUID `json:"wallet_id"`
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
	EntryCount  int       `json:"entry_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

func toWithdrawalResult(e *wallet.LedgerEntry, replayed bool) *WithdrawalResult {
	return &WithdrawalResult{
		Token:        e.IdempotencyToken,
		AccountID:    e.AccountID,
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		Timestamp:    e.CreatedAt,
		Replayed:     replayed,
	}
}

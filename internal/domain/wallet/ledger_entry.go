package wallet

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/shared/valueobject"
)

// MaxTokenLength is the longest idempotency token accepted
const MaxTokenLength = 100

// LedgerEntry is an immutable record of one applied withdrawal.
// BalanceAfter is the account balance immediately after the entry was applied.
type LedgerEntry struct {
	ID               uuid.UUID
	AccountID        uuid.UUID
	IdempotencyToken string
	Amount           valueobject.Money
	BalanceAfter     valueobject.Money
	CreatedAt        time.Time
}

// NewLedgerEntry creates a ledger entry stamped with the current time
func NewLedgerEntry(accountID uuid.UUID, token string, amount, balanceAfter valueobject.Money) *LedgerEntry {
	return &LedgerEntry{
		ID:               uuid.New(),
		AccountID:        accountID,
		IdempotencyToken: token,
		Amount:           amount,
		BalanceAfter:     balanceAfter,
		CreatedAt:        shared.Now(),
	}
}

// ValidateToken checks an idempotency token before any I/O
func ValidateToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return shared.NewValidationError("idempotency_token", "must not be empty")
	}
	if utf8.RuneCountInString(token) > MaxTokenLength {
		return shared.NewValidationError("idempotency_token", "must be at most 100 characters")
	}
	return nil
}

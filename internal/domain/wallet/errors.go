package wallet

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/shared/valueobject"
)

// Error codes for the wallet context
const (
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	CodeWithdrawalNotFound = "WITHDRAWAL_NOT_FOUND"
)

var (
	// ErrDuplicateToken is returned by LedgerRepository.Append when the
	// idempotency token already exists. It never leaves the application layer:
	// the orchestrator turns it into a replay of the winning entry.
	ErrDuplicateToken = errors.New("idempotency token already recorded")

	// ErrWithdrawalNotFound is returned when no ledger entry matches a token
	ErrWithdrawalNotFound = shared.NewDomainError(CodeWithdrawalNotFound, "withdrawal not found")
)

// AccountNotFoundError is returned when the referenced account does not exist
type AccountNotFoundError struct {
	AccountID uuid.UUID
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s not found", e.AccountID)
}

// ErrorCode implements shared.CodedError
func (e *AccountNotFoundError) ErrorCode() string {
	return CodeAccountNotFound
}

// ErrorDetails implements shared.DetailedError
func (e *AccountNotFoundError) ErrorDetails() map[string]any {
	return map[string]any{"account_id": e.AccountID.String()}
}

// Is lets errors.Is(err, shared.ErrNotFound) match
func (e *AccountNotFoundError) Is(target error) bool {
	return target == shared.ErrNotFound
}

// InsufficientFundsError is returned when the balance does not cover the
// requested amount. No state was changed.
type InsufficientFundsError struct {
	AccountID uuid.UUID
	Current   valueobject.Money
	Requested valueobject.Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds on account %s: balance %s, requested %s",
		e.AccountID, e.Current, e.Requested)
}

// ErrorCode implements shared.CodedError
func (e *InsufficientFundsError) ErrorCode() string {
	return CodeInsufficientFunds
}

// ErrorDetails implements shared.DetailedError
func (e *InsufficientFundsError) ErrorDetails() map[string]any {
	return map[string]any{
		"account_id": e.AccountID.String(),
		"current":    e.Current.String(),
		"requested":  e.Requested.String(),
	}
}

// IsAccountNotFound reports whether err is (or wraps) an AccountNotFoundError
func IsAccountNotFound(err error) bool {
	var e *AccountNotFoundError
	return errors.As(err, &e)
}

// IsInsufficientFunds reports whether err is (or wraps) an InsufficientFundsError
func IsInsufficientFunds(err error) bool {
	var e *InsufficientFundsError
	return errors.As(err, &e)
}

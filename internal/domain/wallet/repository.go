package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/wallet/withdrawal/internal/domain/shared"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// FindByID loads an account. Returns *AccountNotFoundError when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// Create inserts a new account
	Create(ctx context.Context, account *Account) error

	// Update persists balance and updated_at. The write is guarded by the
	// version the account was loaded with (Version-1 after a domain change);
	// a concurrent modification fails with shared.ErrConcurrentModification.
	Update(ctx context.Context, account *Account) error
}

// LedgerRepository defines the interface for the append-only withdrawal ledger
type LedgerRepository interface {
	// Append inserts a new entry. Returns ErrDuplicateToken when the
	// idempotency token is already recorded.
	Append(ctx context.Context, entry *LedgerEntry) error

	// FindByToken returns the entry for token, or (nil, nil) when none exists
	FindByToken(ctx context.Context, token string) (*LedgerEntry, error)

	// FindByAccount returns one page of entries, newest first, and the total count
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]LedgerEntry, int64, error)

	// FindAllByAccount returns every entry for the account, oldest first
	FindAllByAccount(ctx context.Context, accountID uuid.UUID) ([]LedgerEntry, error)
}

// TxStore exposes the repositories bound to one storage transaction
type TxStore interface {
	Accounts() AccountRepository
	Ledger() LedgerRepository
	Events() shared.EventRecorder
}

// UnitOfWork runs fn inside a single storage transaction. The transaction
// commits when fn returns nil and rolls back on error or panic.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error
}

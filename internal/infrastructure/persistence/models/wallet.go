package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wallet/withdrawal/internal/domain/shared/valueobject"
	"github.com/wallet/withdrawal/internal/domain/wallet"
)

// AccountModel is the persistence model for the Account aggregate
type AccountModel struct {
	AggregateModel
	Balance decimal.Decimal `gorm:"type:numeric(19,2);not null;check:chk_wallet_accounts_balance,balance >= 0"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "wallet_accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *wallet.Account {
	base := m.BaseModel.ToDomain()
	return wallet.RestoreAccount(base.ID, valueobject.RestoreMoney(m.Balance), m.Version, base.CreatedAt, base.UpdatedAt)
}

// FromDomain populates the persistence model from a domain Account
func (m *AccountModel) FromDomain(a *wallet.Account) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Balance = a.Balance.Amount()
}

// AccountModelFromDomain creates a new persistence model from a domain Account
func AccountModelFromDomain(a *wallet.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// LedgerEntryModel is the persistence model for ledger entries.
// Rows are insert-only; the unique index on idempotency_token is what makes
// a withdrawal apply at most once.
type LedgerEntryModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	AccountID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_wallet_ledger_account_created,priority:1"`
	IdempotencyToken string          `gorm:"type:varchar(100);not null;uniqueIndex:uq_wallet_ledger_token"`
	Amount           decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	BalanceAfter     decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	CreatedAt        time.Time       `gorm:"not null;index:idx_wallet_ledger_account_created,priority:2,sort:desc"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "wallet_ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry
func (m *LedgerEntryModel) ToDomain() *wallet.LedgerEntry {
	return &wallet.LedgerEntry{
		ID:               m.ID,
		AccountID:        m.AccountID,
		IdempotencyToken: m.IdempotencyToken,
		Amount:           valueobject.RestoreMoney(m.Amount),
		BalanceAfter:     valueobject.RestoreMoney(m.BalanceAfter),
		CreatedAt:        m.CreatedAt.UTC(),
	}
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry
func LedgerEntryModelFromDomain(e *wallet.LedgerEntry) *LedgerEntryModel {
	return &LedgerEntryModel{
		ID:               e.ID,
		AccountID:        e.AccountID,
		IdempotencyToken: e.IdempotencyToken,
		Amount:           e.Amount.Amount(),
		BalanceAfter:     e.BalanceAfter.Amount(),
		CreatedAt:        e.CreatedAt,
	}
}

package persistence

import (
	"context"

	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/wallet"
	"gorm.io/gorm"
)

// OutboxWriter stores domain events on the given transaction
type OutboxWriter interface {
	PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error
}

// GormUnitOfWork implements wallet.UnitOfWork using GORM transactions.
// Every repository handed to fn shares the same *gorm.DB transaction.
type GormUnitOfWork struct {
	db     *gorm.DB
	outbox OutboxWriter
}

// NewGormUnitOfWork creates a new GormUnitOfWork. A nil outbox discards events.
func NewGormUnitOfWork(db *gorm.DB, outbox OutboxWriter) *GormUnitOfWork {
	return &GormUnitOfWork{db: db, outbox: outbox}
}

// Do runs fn within a database transaction.
// If fn returns an error or panics, the transaction is rolled back.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx wallet.TxStore) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormTxStore{tx: tx, outbox: u.outbox})
	})
}

type gormTxStore struct {
	tx     *gorm.DB
	outbox OutboxWriter
}

func (s *gormTxStore) Accounts() wallet.AccountRepository {
	return newTxAccountRepository(s.tx)
}

func (s *gormTxStore) Ledger() wallet.LedgerRepository {
	return NewGormLedgerRepository(s.tx)
}

func (s *gormTxStore) Events() shared.EventRecorder {
	return txEventRecorder{tx: s.tx, outbox: s.outbox}
}

type txEventRecorder struct {
	tx     *gorm.DB
	outbox OutboxWriter
}

func (r txEventRecorder) Record(ctx context.Context, events ...shared.DomainEvent) error {
	if r.outbox == nil || len(events) == 0 {
		return nil
	}
	return r.outbox.PublishWithTx(ctx, r.tx, events...)
}

var (
	_ wallet.UnitOfWork = (*GormUnitOfWork)(nil)
	_ wallet.TxStore    = (*gormTxStore)(nil)
)

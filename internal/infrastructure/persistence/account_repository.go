package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/wallet"
	"github.com/wallet/withdrawal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountRepository implements wallet.AccountRepository using GORM
type GormAccountRepository struct {
	db        *gorm.DB
	forUpdate bool
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// newTxAccountRepository returns a repository whose reads take a row lock.
// Only meaningful inside a transaction.
func newTxAccountRepository(tx *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: tx, forUpdate: true}
}

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*wallet.Account, error) {
	q := r.db.WithContext(ctx)
	if r.forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.AccountModel
	if err := q.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &wallet.AccountNotFoundError{AccountID: id}
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a new account
func (r *GormAccountRepository) Create(ctx context.Context, account *wallet.Account) error {
	return r.db.WithContext(ctx).Create(models.AccountModelFromDomain(account)).Error
}

// Update saves balance and version with optimistic locking
func (r *GormAccountRepository) Update(ctx context.Context, account *wallet.Account) error {
	result := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("id = ? AND version = ?", account.ID, account.Version-1).
		Updates(map[string]any{
			"balance":    account.Balance.Amount(),
			"version":    account.Version,
			"updated_at": account.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}

var _ wallet.AccountRepository = (*GormAccountRepository)(nil)

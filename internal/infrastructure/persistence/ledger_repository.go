package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/wallet"
	"github.com/wallet/withdrawal/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerRepository implements wallet.LedgerRepository using GORM.
// Entries are never updated or deleted.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append inserts a ledger entry
func (r *GormLedgerRepository) Append(ctx context.Context, entry *wallet.LedgerEntry) error {
	err := r.db.WithContext(ctx).Create(models.LedgerEntryModelFromDomain(entry)).Error
	if isUniqueViolation(err) {
		return wallet.ErrDuplicateToken
	}
	return err
}

// FindByToken finds the entry recorded for an idempotency token
func (r *GormLedgerRepository) FindByToken(ctx context.Context, token string) (*wallet.LedgerEntry, error) {
	var model models.LedgerEntryModel
	err := r.db.WithContext(ctx).Where("idempotency_token = ?", token).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccount returns a page of entries for an account, newest first
func (r *GormLedgerRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]wallet.LedgerEntry, int64, error) {
	filter = filter.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("account_id = ?", accountID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []wallet.LedgerEntry{}, 0, nil
	}

	var rows []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Limit(filter.PageSize).
		Offset(filter.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toLedgerEntries(rows), total, nil
}

// FindAllByAccount returns every entry for an account, oldest first
func (r *GormLedgerRepository) FindAllByAccount(ctx context.Context, accountID uuid.UUID) ([]wallet.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLedgerEntries(rows), nil
}

func toLedgerEntries(rows []models.LedgerEntryModel) []wallet.LedgerEntry {
	entries := make([]wallet.LedgerEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries
}

var _ wallet.LedgerRepository = (*GormLedgerRepository)(nil)

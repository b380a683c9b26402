package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mjpos/backend/internal/domain/shared"
	"github.com/mjpos/backend/internal/domain/trade"
)

type GormTransactionRepository struct {
	db *gorm.DB
}

func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

var _ trade.TransactionRepository = (*GormTransactionRepository)(nil)

func (r *GormTransactionRepository) Save(ctx context.Context, tx *trade.Transaction) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(tx).Error
}

func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Transaction, error) {
	var tx trade.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *GormTransactionRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*trade.Transaction, error) {
	var tx trade.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Units").
		First(&tx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *GormTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Transaction, error) {
	var txs []trade.Transaction
	query := r.db.WithContext(ctx).Order("created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *GormTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.Transaction{}).Count(&count).Error
	return count, err
}

func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&trade.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormTransactionRepository) FindRecent(ctx context.Context, filter shared.Filter) ([]trade.Transaction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&trade.Transaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []trade.Transaction
	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Units").
		Order("created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&txs).Error; err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

func (r *GormTransactionRepository) FindByUnit(ctx context.Context, unitID uuid.UUID) ([]trade.Transaction, error) {
	var txs []trade.Transaction
	err := r.db.WithContext(ctx).
		Joins("JOIN transaction_items ON transaction_items.transaction_id = transactions.id").
		Joins("JOIN transaction_item_units ON transaction_item_units.transaction_item_id = transaction_items.id").
		Where("transaction_item_units.inventory_unit_id = ?", unitID).
		Order("transactions.created_at desc").
		Find(&txs).Error
	return txs, err
}

// ReplaceItems swaps the sale's line set wholesale: old lines and unit links
// go, the given lines come in.
func (r *GormTransactionRepository) ReplaceItems(ctx context.Context, transactionID uuid.UUID, items []trade.TransactionItem) error {
	db := r.db.WithContext(ctx)

	var oldLineIDs []uuid.UUID
	if err := db.Model(&trade.TransactionItem{}).
		Where("transaction_id = ?", transactionID).
		Pluck("id", &oldLineIDs).Error; err != nil {
		return err
	}
	if len(oldLineIDs) > 0 {
		if err := db.Where("transaction_item_id IN ?", oldLineIDs).
			Delete(&trade.TransactionItemUnit{}).Error; err != nil {
			return err
		}
		if err := db.Where("id IN ?", oldLineIDs).Delete(&trade.TransactionItem{}).Error; err != nil {
			return err
		}
	}

	for i := range items {
		items[i].TransactionID = transactionID
	}
	if len(items) == 0 {
		return nil
	}
	return db.Session(&gorm.Session{FullSaveAssociations: true}).Create(&items).Error
}

func (r *GormTransactionRepository) IsUnitLinked(ctx context.Context, unitID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.TransactionItemUnit{}).
		Where("inventory_unit_id = ?", unitID).
		Count(&count).Error
	return count > 0, err
}

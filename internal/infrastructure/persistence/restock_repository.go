package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mjpos/backend/internal/domain/shared"
	"github.com/mjpos/backend/internal/domain/trade"
)

type GormRestockRepository struct {
	db *gorm.DB
}

func NewGormRestockRepository(db *gorm.DB) *GormRestockRepository {
	return &GormRestockRepository{db: db}
}

var _ trade.RestockRepository = (*GormRestockRepository)(nil)

func (r *GormRestockRepository) Save(ctx context.Context, restock *trade.Restock) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(restock).Error
}

func (r *GormRestockRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Restock, error) {
	var restock trade.Restock
	if err := r.db.WithContext(ctx).First(&restock, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &restock, nil
}

func (r *GormRestockRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*trade.Restock, error) {
	var restock trade.Restock
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Rolls").
		First(&restock, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &restock, nil
}

func (r *GormRestockRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Restock, error) {
	var restocks []trade.Restock
	query := r.db.WithContext(ctx).Order("date desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&restocks).Error; err != nil {
		return nil, err
	}
	return restocks, nil
}

func (r *GormRestockRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.Restock{}).Count(&count).Error
	return count, err
}

func (r *GormRestockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&trade.Restock{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormRestockRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]trade.Restock, int64, error) {
	base := r.db.WithContext(ctx).Model(&trade.Restock{}).Where("supplier_id = ?", supplierID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var restocks []trade.Restock
	query := base.Session(&gorm.Session{}).Preload("Items").Order("date desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&restocks).Error; err != nil {
		return nil, 0, err
	}
	return restocks, total, nil
}

func (r *GormRestockRepository) FindOutstandingBySupplier(ctx context.Context, supplierID uuid.UUID) ([]trade.Restock, error) {
	var restocks []trade.Restock
	err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND outstanding > 0", supplierID).
		Order("date asc").
		Find(&restocks).Error
	return restocks, err
}

func (r *GormRestockRepository) FindBetween(ctx context.Context, from, to time.Time, filter shared.Filter) ([]trade.Restock, int64, error) {
	base := r.db.WithContext(ctx).Model(&trade.Restock{}).Where("date >= ? AND date <= ?", from, to)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var restocks []trade.Restock
	query := base.Session(&gorm.Session{}).Preload("Items").Order("date desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&restocks).Error; err != nil {
		return nil, 0, err
	}
	return restocks, total, nil
}

func (r *GormRestockRepository) FindItemsPage(ctx context.Context, limit, offset int) ([]trade.RestockItem, error) {
	var lines []trade.RestockItem
	err := r.db.WithContext(ctx).
		Preload("Rolls").
		Order("created_at asc, id asc").
		Limit(limit).
		Offset(offset).
		Find(&lines).Error
	return lines, err
}

func (r *GormRestockRepository) CountItems(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.RestockItem{}).Count(&count).Error
	return count, err
}

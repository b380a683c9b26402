package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/shared"
)

type GormInventoryUnitRepository struct {
	db *gorm.DB
}

func NewGormInventoryUnitRepository(db *gorm.DB) *GormInventoryUnitRepository {
	return &GormInventoryUnitRepository{db: db}
}

var _ inventory.InventoryUnitRepository = (*GormInventoryUnitRepository)(nil)

func (r *GormInventoryUnitRepository) Save(ctx context.Context, unit *inventory.InventoryUnit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *GormInventoryUnitRepository) SaveBatch(ctx context.Context, units []*inventory.InventoryUnit) error {
	if len(units) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(units).Error
}

func (r *GormInventoryUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryUnit, error) {
	var unit inventory.InventoryUnit
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

func (r *GormInventoryUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryUnit, error) {
	var units []inventory.InventoryUnit
	query := applyUnitFilter(r.db.WithContext(ctx), filter).Order("created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *GormInventoryUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := applyUnitFilter(r.db.WithContext(ctx).Model(&inventory.InventoryUnit{}), filter).Count(&count).Error
	return count, err
}

func (r *GormInventoryUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.InventoryUnit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormInventoryUnitRepository) FindByBarcode(ctx context.Context, barcode string) (*inventory.InventoryUnit, error) {
	var unit inventory.InventoryUnit
	if err := r.db.WithContext(ctx).First(&unit, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

func (r *GormInventoryUnitRepository) FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]inventory.InventoryUnit, int64, error) {
	base := applyUnitFilter(r.db.WithContext(ctx).Where("item_id = ?", itemID), filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Model(&inventory.InventoryUnit{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var units []inventory.InventoryUnit
	query := base.Order("created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&units).Error; err != nil {
		return nil, 0, err
	}
	return units, total, nil
}

func (r *GormInventoryUnitRepository) FindByRoll(ctx context.Context, rollID uuid.UUID) (*inventory.InventoryUnit, error) {
	var unit inventory.InventoryUnit
	if err := r.db.WithContext(ctx).First(&unit, "roll_id = ?", rollID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

func (r *GormInventoryUnitRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.InventoryUnit, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var units []inventory.InventoryUnit
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&units).Error
	return units, err
}

func (r *GormInventoryUnitRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.InventoryUnit{}).Where("barcode = ?", barcode).Count(&count).Error
	return count > 0, err
}

func (r *GormInventoryUnitRepository) ExistsByItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.InventoryUnit{}).Where("item_id = ?", itemID).Count(&count).Error
	return count > 0, err
}

func (r *GormInventoryUnitRepository) CountByItemAndStatus(ctx context.Context, itemID uuid.UUID, status inventory.UnitStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.InventoryUnit{}).
		Where("item_id = ? AND status = ?", itemID, status).
		Count(&count).Error
	return count, err
}

func (r *GormInventoryUnitRepository) CountPlaceholders(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.InventoryUnit{}).
		Where("item_id = ? AND is_placeholder = ?", itemID, true).
		Count(&count).Error
	return count, err
}

func (r *GormInventoryUnitRepository) CountByRestockItem(ctx context.Context, restockItemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.InventoryUnit{}).
		Where("restock_item_id = ?", restockItemID).
		Count(&count).Error
	return count, err
}

func applyUnitFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "is_placeholder":
			query = query.Where("is_placeholder = ?", value)
		}
	}
	return query
}

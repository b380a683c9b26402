package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/shared"
)

type GormReturnRecordRepository struct {
	db *gorm.DB
}

func NewGormReturnRecordRepository(db *gorm.DB) *GormReturnRecordRepository {
	return &GormReturnRecordRepository{db: db}
}

var _ inventory.ReturnRecordRepository = (*GormReturnRecordRepository)(nil)

func (r *GormReturnRecordRepository) Save(ctx context.Context, rec *inventory.ReturnRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *GormReturnRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ReturnRecord, error) {
	var rec inventory.ReturnRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *GormReturnRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.ReturnRecord, error) {
	var records []inventory.ReturnRecord
	query := r.db.WithContext(ctx).Order("created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *GormReturnRecordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.ReturnRecord{}).Count(&count).Error
	return count, err
}

func (r *GormReturnRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.ReturnRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormReturnRecordRepository) FindByUnit(ctx context.Context, unitID uuid.UUID) ([]inventory.ReturnRecord, error) {
	var records []inventory.ReturnRecord
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("created_at desc").
		Find(&records).Error
	return records, err
}

func (r *GormReturnRecordRepository) ExistsPendingByUnit(ctx context.Context, unitID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.ReturnRecord{}).
		Where("unit_id = ? AND status = ?", unitID, inventory.ReturnPending).
		Count(&count).Error
	return count > 0, err
}

func (r *GormReturnRecordRepository) FindByStatus(ctx context.Context, status inventory.ReturnStatus, filter shared.Filter) ([]inventory.ReturnRecord, int64, error) {
	base := r.db.WithContext(ctx).Model(&inventory.ReturnRecord{})
	if status != "" {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []inventory.ReturnRecord
	query := base.Order("created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

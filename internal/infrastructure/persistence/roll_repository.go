package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/shared"
)

type GormRollRepository struct {
	db *gorm.DB
}

func NewGormRollRepository(db *gorm.DB) *GormRollRepository {
	return &GormRollRepository{db: db}
}

var _ catalog.RollRepository = (*GormRollRepository)(nil)

func (r *GormRollRepository) Save(ctx context.Context, roll *catalog.Roll) error {
	return r.db.WithContext(ctx).Save(roll).Error
}

func (r *GormRollRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Roll, error) {
	var roll catalog.Roll
	if err := r.db.WithContext(ctx).First(&roll, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &roll, nil
}

func (r *GormRollRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Roll, error) {
	var rolls []catalog.Roll
	query := r.db.WithContext(ctx).Order("created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&rolls).Error; err != nil {
		return nil, err
	}
	return rolls, nil
}

func (r *GormRollRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Roll{}).Count(&count).Error
	return count, err
}

func (r *GormRollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Roll{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormRollRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]catalog.Roll, error) {
	var rolls []catalog.Roll
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at desc").
		Find(&rolls).Error
	return rolls, err
}

func (r *GormRollRepository) ExistsByItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Roll{}).Where("item_id = ?", itemID).Count(&count).Error
	return count > 0, err
}

// Consume subtracts meters with a conditional update; the remaining length
// can never go negative even under concurrent cuts.
func (r *GormRollRepository) Consume(ctx context.Context, id uuid.UUID, meters decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&catalog.Roll{}).
		Where("id = ? AND remaining_m >= ?", id, meters).
		UpdateColumn("remaining_m", gorm.Expr("remaining_m - ?", meters))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&catalog.Roll{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return shared.NewDomainError(shared.CodeInsufficientStock, "roll has less than the requested length")
		}
		return shared.ErrNotFound
	}
	return nil
}

// Restore adds meters back, bounded by the roll's full length.
func (r *GormRollRepository) Restore(ctx context.Context, id uuid.UUID, meters decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&catalog.Roll{}).
		Where("id = ? AND remaining_m + ? <= length_m", id, meters).
		UpdateColumn("remaining_m", gorm.Expr("remaining_m + ?", meters))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&catalog.Roll{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return shared.NewDomainError(shared.CodeInvalidState, "restore would exceed the roll's length")
		}
		return shared.ErrNotFound
	}
	return nil
}

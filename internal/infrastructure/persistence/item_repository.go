package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/shared"
)

type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

var _ catalog.ItemRepository = (*GormItemRepository)(nil)

func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	var items []catalog.Item
	query := r.applyFilter(r.db.WithContext(ctx), filter)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Item{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Item{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormItemRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Item{}).Where("sku = ?", sku).Count(&count).Error
	return count > 0, err
}

// AdjustStock applies delta with a conditional update so concurrent
// decrements can never drive stock below zero. Zero rows affected on a
// decrement means another writer got there first.
func (r *GormItemRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	query := r.db.WithContext(ctx).Model(&catalog.Item{}).Where("id = ?", id)
	if delta.IsNegative() {
		query = query.Where("stock >= ?", delta.Neg())
	}
	result := query.UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if delta.IsNegative() {
			var count int64
			if err := r.db.WithContext(ctx).Model(&catalog.Item{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return shared.NewDomainError(shared.CodeInsufficientStock, "insufficient stock")
			}
		}
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormItemRepository) FindLowStock(ctx context.Context, threshold decimal.Decimal, limit int) ([]catalog.Item, error) {
	var items []catalog.Item
	err := r.db.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("querying low stock: %w", err)
	}
	return items, nil
}

func (r *GormItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.OrderBy != "" {
		order := filter.OrderBy
		if filter.Order == "desc" {
			order += " desc"
		}
		query = query.Order(order)
	}
	return query
}

func (r *GormItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "stock_unit":
			query = query.Where("stock_unit = ?", value)
		case "search":
			pattern := fmt.Sprintf("%%%v%%", value)
			query = query.Where("name LIKE ? OR sku LIKE ?", pattern, pattern)
		}
	}
	return query
}

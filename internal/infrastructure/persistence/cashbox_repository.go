package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mjpos/backend/internal/domain/finance"
	"github.com/mjpos/backend/internal/domain/shared"
)

type GormCashboxRepository struct {
	db *gorm.DB
}

func NewGormCashboxRepository(db *gorm.DB) *GormCashboxRepository {
	return &GormCashboxRepository{db: db}
}

var _ finance.CashboxRepository = (*GormCashboxRepository)(nil)

func (r *GormCashboxRepository) Save(ctx context.Context, cashbox *finance.Cashbox) error {
	return r.db.WithContext(ctx).Save(cashbox).Error
}

func (r *GormCashboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Cashbox, error) {
	var cashbox finance.Cashbox
	if err := r.db.WithContext(ctx).First(&cashbox, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cashbox, nil
}

func (r *GormCashboxRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Cashbox, error) {
	var cashboxes []finance.Cashbox
	if err := r.db.WithContext(ctx).Order("code asc").Find(&cashboxes).Error; err != nil {
		return nil, err
	}
	return cashboxes, nil
}

func (r *GormCashboxRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&finance.Cashbox{}).Count(&count).Error
	return count, err
}

func (r *GormCashboxRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&finance.Cashbox{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormCashboxRepository) FindByCode(ctx context.Context, code string) (*finance.Cashbox, error) {
	var cashbox finance.Cashbox
	if err := r.db.WithContext(ctx).First(&cashbox, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cashbox, nil
}

func (r *GormCashboxRepository) FindAllOrdered(ctx context.Context) ([]finance.Cashbox, error) {
	var cashboxes []finance.Cashbox
	err := r.db.WithContext(ctx).Order("code asc").Find(&cashboxes).Error
	return cashboxes, err
}

type GormCashboxEntryRepository struct {
	db *gorm.DB
}

func NewGormCashboxEntryRepository(db *gorm.DB) *GormCashboxEntryRepository {
	return &GormCashboxEntryRepository{db: db}
}

var _ finance.CashboxEntryRepository = (*GormCashboxEntryRepository)(nil)

func (r *GormCashboxEntryRepository) Save(ctx context.Context, entry *finance.CashboxEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *GormCashboxEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.CashboxEntry, error) {
	var entry finance.CashboxEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *GormCashboxEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.CashboxEntry, error) {
	var entries []finance.CashboxEntry
	query := r.db.WithContext(ctx).Order("created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormCashboxEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&finance.CashboxEntry{}).Count(&count).Error
	return count, err
}

func (r *GormCashboxEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&finance.CashboxEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormCashboxEntryRepository) FindByCashbox(ctx context.Context, cashboxID uuid.UUID, filter shared.Filter) ([]finance.CashboxEntry, int64, error) {
	base := r.db.WithContext(ctx).Model(&finance.CashboxEntry{}).Where("cashbox_id = ?", cashboxID)
	if kind, ok := filter.Filters["kind"]; ok {
		base = base.Where("kind = ?", kind)
	}
	if source, ok := filter.Filters["source"]; ok {
		base = base.Where("source = ?", source)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []finance.CashboxEntry
	page := base.Session(&gorm.Session{}).Order("created_at desc")
	if filter.Limit > 0 {
		page = page.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		page = page.Offset(filter.Offset)
	}
	if err := page.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

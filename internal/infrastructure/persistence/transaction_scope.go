package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/mjpos/backend/internal/application/inventory"
	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/finance"
	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/partner"
	"github.com/mjpos/backend/internal/domain/trade"
)

// GormTransactionScope runs callbacks inside one gorm transaction, handing
// out repositories bound to that transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

var _ appinventory.TransactionScope = (*GormTransactionScope)(nil)

func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

var _ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

func (r *gormTransactionalRepositories) Items() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) Rolls() catalog.RollRepository {
	return NewGormRollRepository(r.tx)
}

func (r *gormTransactionalRepositories) Units() inventory.InventoryUnitRepository {
	return NewGormInventoryUnitRepository(r.tx)
}

func (r *gormTransactionalRepositories) Returns() inventory.ReturnRecordRepository {
	return NewGormReturnRecordRepository(r.tx)
}

func (r *gormTransactionalRepositories) Transactions() trade.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Restocks() trade.RestockRepository {
	return NewGormRestockRepository(r.tx)
}

func (r *gormTransactionalRepositories) Suppliers() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

func (r *gormTransactionalRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormTransactionalRepositories) Cashboxes() finance.CashboxRepository {
	return NewGormCashboxRepository(r.tx)
}

func (r *gormTransactionalRepositories) CashboxEntries() finance.CashboxEntryRepository {
	return NewGormCashboxEntryRepository(r.tx)
}

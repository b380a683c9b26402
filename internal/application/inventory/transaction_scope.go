package inventory

import (
	"context"

	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/finance"
	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/partner"
	"github.com/mjpos/backend/internal/domain/trade"
)

// TransactionalRepositories exposes every repository participating in a
// stock-moving operation, all bound to the same database transaction.
type TransactionalRepositories interface {
	Items() catalog.ItemRepository
	Rolls() catalog.RollRepository
	Units() inventory.InventoryUnitRepository
	Returns() inventory.ReturnRecordRepository
	Transactions() trade.TransactionRepository
	Restocks() trade.RestockRepository
	Suppliers() partner.SupplierRepository
	Customers() partner.CustomerRepository
	Cashboxes() finance.CashboxRepository
	CashboxEntries() finance.CashboxEntryRepository
}

// TransactionScope runs fn atomically. Restocks, checkouts, sale edits and
// return resolutions each execute inside exactly one scope.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// RepositorySet is a plain bundle of repositories satisfying
// TransactionalRepositories. Used by NoOpTransactionScope and tests.
type RepositorySet struct {
	ItemRepo         catalog.ItemRepository
	RollRepo         catalog.RollRepository
	UnitRepo         inventory.InventoryUnitRepository
	ReturnRepo       inventory.ReturnRecordRepository
	TransactionRepo  trade.TransactionRepository
	RestockRepo      trade.RestockRepository
	SupplierRepo     partner.SupplierRepository
	CustomerRepo     partner.CustomerRepository
	CashboxRepo      finance.CashboxRepository
	CashboxEntryRepo finance.CashboxEntryRepository
}

var _ TransactionalRepositories = (*RepositorySet)(nil)

func (s *RepositorySet) Items() catalog.ItemRepository                  { return s.ItemRepo }
func (s *RepositorySet) Rolls() catalog.RollRepository                  { return s.RollRepo }
func (s *RepositorySet) Units() inventory.InventoryUnitRepository       { return s.UnitRepo }
func (s *RepositorySet) Returns() inventory.ReturnRecordRepository      { return s.ReturnRepo }
func (s *RepositorySet) Transactions() trade.TransactionRepository      { return s.TransactionRepo }
func (s *RepositorySet) Restocks() trade.RestockRepository              { return s.RestockRepo }
func (s *RepositorySet) Suppliers() partner.SupplierRepository          { return s.SupplierRepo }
func (s *RepositorySet) Customers() partner.CustomerRepository          { return s.CustomerRepo }
func (s *RepositorySet) Cashboxes() finance.CashboxRepository           { return s.CashboxRepo }
func (s *RepositorySet) CashboxEntries() finance.CashboxEntryRepository { return s.CashboxEntryRepo }

// NoOpTransactionScope executes fn against the bundled repositories without
// any transactional boundary. For tests.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)

func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}

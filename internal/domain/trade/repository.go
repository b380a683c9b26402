package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mjpos/backend/internal/domain/shared"
)

type TransactionRepository interface {
	shared.Repository[Transaction]
	// FindByIDWithItems loads the sale with its lines and unit links.
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindRecent(ctx context.Context, filter shared.Filter) ([]Transaction, int64, error)
	FindByUnit(ctx context.Context, unitID uuid.UUID) ([]Transaction, error)
	// ReplaceItems deletes the sale's current lines and unit links and
	// writes the given set in their place.
	ReplaceItems(ctx context.Context, transactionID uuid.UUID, items []TransactionItem) error
	// IsUnitLinked reports whether any sale line currently links the unit.
	IsUnitLinked(ctx context.Context, unitID uuid.UUID) (bool, error)
}

type RestockRepository interface {
	shared.Repository[Restock]
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*Restock, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]Restock, int64, error)
	// FindOutstandingBySupplier returns unpaid restocks, oldest first, so
	// payments settle the longest-standing debt before newer deliveries.
	FindOutstandingBySupplier(ctx context.Context, supplierID uuid.UUID) ([]Restock, error)
	FindBetween(ctx context.Context, from, to time.Time, filter shared.Filter) ([]Restock, int64, error)
	// FindItemsPage pages through all restock lines in insertion order with
	// their roll links loaded. The backfill job walks these.
	FindItemsPage(ctx context.Context, limit, offset int) ([]RestockItem, error)
	CountItems(ctx context.Context) (int64, error)
}

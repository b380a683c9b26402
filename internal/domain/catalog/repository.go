package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/shared"
)

type ItemRepository interface {
	shared.Repository[Item]
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	// AdjustStock atomically applies delta to the item's stock. A negative
	// delta that would take stock below zero fails with ErrInsufficientStock
	// without modifying the row.
	AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	FindLowStock(ctx context.Context, threshold decimal.Decimal, limit int) ([]Item, error)
}

type RollRepository interface {
	shared.Repository[Roll]
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]Roll, error)
	ExistsByItem(ctx context.Context, itemID uuid.UUID) (bool, error)
	// Consume atomically subtracts meters from the roll's remaining length.
	// Fails with ErrInsufficientStock if the roll holds less than meters.
	Consume(ctx context.Context, id uuid.UUID, meters decimal.Decimal) error
	// Restore atomically adds meters back, bounded by the roll's full length.
	Restore(ctx context.Context, id uuid.UUID, meters decimal.Decimal) error
}

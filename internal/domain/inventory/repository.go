package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/mjpos/backend/internal/domain/shared"
)

type InventoryUnitRepository interface {
	shared.Repository[InventoryUnit]
	FindByBarcode(ctx context.Context, barcode string) (*InventoryUnit, error)
	FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]InventoryUnit, int64, error)
	FindByRoll(ctx context.Context, rollID uuid.UUID) (*InventoryUnit, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]InventoryUnit, error)
	ExistsByBarcode(ctx context.Context, barcode string) (bool, error)
	ExistsByItem(ctx context.Context, itemID uuid.UUID) (bool, error)
	CountByItemAndStatus(ctx context.Context, itemID uuid.UUID, status UnitStatus) (int64, error)
	CountPlaceholders(ctx context.Context, itemID uuid.UUID) (int64, error)
	CountByRestockItem(ctx context.Context, restockItemID uuid.UUID) (int64, error)
	SaveBatch(ctx context.Context, units []*InventoryUnit) error
}

type ReturnRecordRepository interface {
	shared.Repository[ReturnRecord]
	FindByUnit(ctx context.Context, unitID uuid.UUID) ([]ReturnRecord, error)
	ExistsPendingByUnit(ctx context.Context, unitID uuid.UUID) (bool, error)
	FindByStatus(ctx context.Context, status ReturnStatus, filter shared.Filter) ([]ReturnRecord, int64, error)
}

package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/shared"
	"github.com/mjpos/backend/internal/domain/trade"
)

// UnitService covers serialized unit queries and barcode management.
type UnitService struct {
	units        inventory.InventoryUnitRepository
	items        catalog.ItemRepository
	returns      inventory.ReturnRecordRepository
	transactions trade.TransactionRepository
}

func NewUnitService(
	units inventory.InventoryUnitRepository,
	items catalog.ItemRepository,
	returns inventory.ReturnRecordRepository,
	transactions trade.TransactionRepository,
) *UnitService {
	return &UnitService{units: units, items: items, returns: returns, transactions: transactions}
}

// ListForItem returns the item's units newest first. Placeholder units are
// hidden unless asked for.
func (s *UnitService) ListForItem(ctx context.Context, itemID uuid.UUID, req ListUnitsRequest) (*shared.Paginated[UnitResponse], error) {
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	if req.Limit > 0 {
		filter.Limit = req.Limit
	}
	filter.Offset = req.Offset
	if req.Status != "" {
		status := inventory.UnitStatus(req.Status)
		if !status.Valid() {
			return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown unit status %q", req.Status)
		}
		filter.WithFilter("status", string(status))
	}
	if !req.IncludePlaceholders {
		filter.WithFilter("is_placeholder", false)
	}

	units, total, err := s.units.FindByItem(ctx, itemID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}
	responses := make([]UnitResponse, 0, len(units))
	for i := range units {
		responses = append(responses, *NewUnitResponse(&units[i]))
	}
	return shared.NewPaginated(responses, total, filter.Limit, filter.Offset), nil
}

// LookupByBarcode resolves a scanned code to its unit and item.
func (s *UnitService) LookupByBarcode(ctx context.Context, code string) (*BarcodeLookupResponse, error) {
	code, err := inventory.NormalizeBarcode(code)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "barcode is required")
	}

	unit, err := s.units.FindByBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	item, err := s.items.FindByID(ctx, unit.ItemID)
	if err != nil {
		return nil, err
	}
	return &BarcodeLookupResponse{
		Unit: *NewUnitResponse(unit),
		Item: ItemSummary{
			ID:          item.ID,
			Name:        item.Name,
			StockUnit:   string(item.StockUnit),
			RetailPrice: item.RetailPrice,
		},
	}, nil
}

// AssignBarcode sets or clears a unit's barcode. A code belonging to a
// different unit is a conflict.
func (s *UnitService) AssignBarcode(ctx context.Context, unitID uuid.UUID, req AssignBarcodeRequest) (*UnitResponse, error) {
	unit, err := s.units.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	code, err := inventory.NormalizeBarcode(req.Barcode)
	if err != nil {
		return nil, err
	}
	if code != "" && code != unit.Barcode {
		other, err := s.units.FindByBarcode(ctx, code)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("checking barcode: %w", err)
		}
		if other != nil && other.ID != unit.ID {
			return nil, shared.NewDomainErrorf(shared.CodeConflict,
				"barcode %q already belongs to another unit", code)
		}
	}

	if err := unit.AssignBarcode(code); err != nil {
		return nil, err
	}
	if err := s.units.Save(ctx, unit); err != nil {
		return nil, fmt.Errorf("saving unit: %w", err)
	}
	return NewUnitResponse(unit), nil
}

// UpdateStatus moves a unit through its lifecycle by hand, used by the back
// office for corrections such as booking a unit the customer handed back.
func (s *UnitService) UpdateStatus(ctx context.Context, unitID uuid.UUID, req UpdateUnitStatusRequest) (*UnitResponse, error) {
	status := inventory.UnitStatus(req.Status)
	if !status.Valid() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown unit status %q", req.Status)
	}

	unit, err := s.units.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit.Status == status {
		return NewUnitResponse(unit), nil
	}

	switch status {
	case inventory.UnitAvailable:
		err = unit.Release()
	case inventory.UnitReserved:
		err = unit.Reserve()
	case inventory.UnitSold:
		err = unit.MarkSold()
	case inventory.UnitReturned:
		err = unit.MarkReturned()
	case inventory.UnitDefective:
		err = unit.MarkDefective()
	}
	if err != nil {
		return nil, err
	}

	if err := s.units.Save(ctx, unit); err != nil {
		return nil, fmt.Errorf("saving unit: %w", err)
	}
	return NewUnitResponse(unit), nil
}

// History collects everything that happened to one unit.
func (s *UnitService) History(ctx context.Context, unitID uuid.UUID) (*UnitHistoryResponse, error) {
	unit, err := s.units.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	sales, err := s.transactions.FindByUnit(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("loading sales: %w", err)
	}
	returns, err := s.returns.FindByUnit(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("loading returns: %w", err)
	}

	resp := &UnitHistoryResponse{Unit: *NewUnitResponse(unit)}
	for i := range sales {
		resp.Sales = append(resp.Sales, SaleRef{TransactionID: sales[i].ID, Date: sales[i].CreatedAt})
	}
	for i := range returns {
		resp.Returns = append(resp.Returns, *NewReturnResponse(&returns[i]))
	}
	return resp, nil
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/shared"
)

// ItemService manages the product catalog.
type ItemService struct {
	items   catalog.ItemRepository
	rolls   catalog.RollRepository
	units   inventory.InventoryUnitRepository
	storage ObjectStorageService
}

func NewItemService(
	items catalog.ItemRepository,
	rolls catalog.RollRepository,
	units inventory.InventoryUnitRepository,
	storage ObjectStorageService,
) *ItemService {
	return &ItemService{items: items, rolls: rolls, units: units, storage: storage}
}

func (s *ItemService) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	item, err := catalog.NewItem(req.Name, catalog.Category(req.Category),
		catalog.StockUnit(req.StockUnit), req.RetailPrice, req.WholesalePrice)
	if err != nil {
		return nil, err
	}
	item.Note = req.Note

	if sku := strings.TrimSpace(req.SKU); sku != "" {
		exists, err := s.items.ExistsBySKU(ctx, sku)
		if err != nil {
			return nil, fmt.Errorf("checking sku: %w", err)
		}
		if exists {
			return nil, shared.NewDomainErrorf(shared.CodeAlreadyExists, "sku %q is already in use", sku)
		}
		item.SKU = &sku
	}

	if err := s.items.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}
	return NewItemResponse(item), nil
}

func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewItemResponse(item), nil
}

func (s *ItemService) UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := item.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		cat := catalog.Category(*req.Category)
		if !cat.Valid() {
			return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown category %q", *req.Category)
		}
		item.Category = cat
		item.Touch()
	}
	if req.StockUnit != nil {
		hasTracking, err := s.hasTracking(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		if err := item.ChangeStockUnit(catalog.StockUnit(*req.StockUnit), hasTracking); err != nil {
			return nil, err
		}
	}
	if req.RetailPrice != nil || req.WholesalePrice != nil {
		retail, wholesale := item.RetailPrice, item.WholesalePrice
		if req.RetailPrice != nil {
			retail = *req.RetailPrice
		}
		if req.WholesalePrice != nil {
			wholesale = *req.WholesalePrice
		}
		if err := item.SetPrices(retail, wholesale); err != nil {
			return nil, err
		}
	}
	if req.SKU != nil {
		sku := strings.TrimSpace(*req.SKU)
		if sku == "" {
			item.SKU = nil
		} else if item.SKU == nil || *item.SKU != sku {
			exists, err := s.items.ExistsBySKU(ctx, sku)
			if err != nil {
				return nil, fmt.Errorf("checking sku: %w", err)
			}
			if exists {
				return nil, shared.NewDomainErrorf(shared.CodeAlreadyExists, "sku %q is already in use", sku)
			}
			item.SKU = &sku
		}
		item.Touch()
	}
	if req.Note != nil {
		item.Note = *req.Note
		item.Touch()
	}

	if err := s.items.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}
	return NewItemResponse(item), nil
}

func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	hasTracking, err := s.hasTracking(ctx, id)
	if err != nil {
		return err
	}
	if hasTracking {
		return shared.NewDomainError(shared.CodeConflict,
			"item has rolls or serialized units and cannot be deleted")
	}
	return s.items.Delete(ctx, id)
}

func (s *ItemService) ListItems(ctx context.Context, req ListItemsRequest) (*shared.Paginated[ItemResponse], error) {
	filter := shared.DefaultFilter()
	if req.Limit > 0 {
		filter.Limit = req.Limit
	}
	filter.Offset = req.Offset
	if req.Category != "" {
		filter.WithFilter("category", req.Category)
	}
	if req.Search != "" {
		filter.WithFilter("search", req.Search)
	}
	if req.Unit != "" {
		filter.WithFilter("stock_unit", req.Unit)
	}

	items, err := s.items.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	total, err := s.items.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}

	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *NewItemResponse(&items[i]))
	}
	return shared.NewPaginated(responses, total, filter.Limit, filter.Offset), nil
}

func (s *ItemService) LowStock(ctx context.Context, threshold decimal.Decimal, limit int) ([]ItemResponse, error) {
	if threshold.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "threshold must not be negative")
	}
	if limit <= 0 {
		limit = 20
	}
	items, err := s.items.FindLowStock(ctx, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("listing low stock: %w", err)
	}
	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *NewItemResponse(&items[i]))
	}
	return responses, nil
}

// UploadPhoto stores the image and records its URL on the item.
func (s *ItemService) UploadPhoto(ctx context.Context, id uuid.UUID, filename, contentType string, body io.Reader, size int64) (*ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "photo is empty")
	}

	key := fmt.Sprintf("items/%s/photo%s", item.ID, strings.ToLower(path.Ext(filename)))
	url, err := s.storage.Upload(ctx, key, body, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("uploading photo: %w", err)
	}
	item.SetPhotoURL(url)
	if err := s.items.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}
	return NewItemResponse(item), nil
}

func (s *ItemService) ListRolls(ctx context.Context, itemID uuid.UUID) ([]RollResponse, error) {
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}
	rolls, err := s.rolls.FindByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing rolls: %w", err)
	}
	responses := make([]RollResponse, 0, len(rolls))
	for i := range rolls {
		responses = append(responses, *NewRollResponse(&rolls[i]))
	}
	return responses, nil
}

// AddRoll records an ad-hoc roll for a meter-tracked item, with a serialized
// unit representing it.
func (s *ItemService) AddRoll(ctx context.Context, req AddRollRequest) (*RollResponse, error) {
	item, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsMeterTracked() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "rolls require a meter-tracked item")
	}

	roll, err := catalog.NewRoll(item.ID, req.LengthM)
	if err != nil {
		return nil, err
	}
	if err := s.rolls.Save(ctx, roll); err != nil {
		return nil, fmt.Errorf("saving roll: %w", err)
	}

	unit, err := inventory.NewRollUnit(item.ID, roll.ID, req.Barcode, req.CostPerMeter.Mul(req.LengthM).Round(2))
	if err != nil {
		return nil, err
	}
	if err := s.units.Save(ctx, unit); err != nil {
		return nil, fmt.Errorf("saving roll unit: %w", err)
	}
	return NewRollResponse(roll), nil
}

// DeleteRoll removes an untouched roll and its unit. Rolls that have been cut
// stay, their consumption is part of sale history.
func (s *ItemService) DeleteRoll(ctx context.Context, id uuid.UUID) error {
	roll, err := s.rolls.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !roll.IsUntouched() {
		return shared.NewDomainError(shared.CodeConflict, "roll has been cut and cannot be deleted")
	}

	unit, err := s.units.FindByRoll(ctx, roll.ID)
	if err == nil {
		if err := s.units.Delete(ctx, unit.ID); err != nil {
			return fmt.Errorf("deleting roll unit: %w", err)
		}
	} else if !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("finding roll unit: %w", err)
	}
	return s.rolls.Delete(ctx, id)
}

func (s *ItemService) hasTracking(ctx context.Context, itemID uuid.UUID) (bool, error) {
	hasRolls, err := s.rolls.ExistsByItem(ctx, itemID)
	if err != nil {
		return false, fmt.Errorf("checking rolls: %w", err)
	}
	if hasRolls {
		return true, nil
	}
	hasUnits, err := s.units.ExistsByItem(ctx, itemID)
	if err != nil {
		return false, fmt.Errorf("checking units: %w", err)
	}
	return hasUnits, nil
}

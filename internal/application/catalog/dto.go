package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/catalog"
)

type CreateItemRequest struct {
	Name           string          `json:"name" binding:"required"`
	SKU            string          `json:"sku"`
	Category       string          `json:"category" binding:"required"`
	StockUnit      string          `json:"stock_unit"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	Note           string          `json:"note"`
}

type UpdateItemRequest struct {
	Name           *string          `json:"name"`
	SKU            *string          `json:"sku"`
	Category       *string          `json:"category"`
	StockUnit      *string          `json:"stock_unit"`
	RetailPrice    *decimal.Decimal `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	Note           *string          `json:"note"`
}

type ListItemsRequest struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Unit     string `form:"unit"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

type ItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	SKU            *string         `json:"sku,omitempty"`
	Category       string          `json:"category"`
	StockUnit      string          `json:"stock_unit"`
	Stock          decimal.Decimal `json:"stock"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	PhotoURL       *string         `json:"photo_url,omitempty"`
	Note           string          `json:"note"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewItemResponse(item *catalog.Item) *ItemResponse {
	return &ItemResponse{
		ID:             item.ID,
		Name:           item.Name,
		SKU:            item.SKU,
		Category:       string(item.Category),
		StockUnit:      string(item.StockUnit),
		Stock:          item.Stock,
		RetailPrice:    item.RetailPrice,
		WholesalePrice: item.WholesalePrice,
		PhotoURL:       item.PhotoURL,
		Note:           item.Note,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

type AddRollRequest struct {
	ItemID       uuid.UUID       `json:"item_id" binding:"required"`
	LengthM      decimal.Decimal `json:"length_m" binding:"required"`
	CostPerMeter decimal.Decimal `json:"cost_per_meter"`
	Barcode      string          `json:"barcode"`
}

type RollResponse struct {
	ID         uuid.UUID       `json:"id"`
	ItemID     uuid.UUID       `json:"item_id"`
	LengthM    decimal.Decimal `json:"length_m"`
	RemainingM decimal.Decimal `json:"remaining_m"`
	CreatedAt  time.Time       `json:"created_at"`
}

func NewRollResponse(roll *catalog.Roll) *RollResponse {
	return &RollResponse{
		ID:         roll.ID,
		ItemID:     roll.ItemID,
		LengthM:    roll.LengthM,
		RemainingM: roll.RemainingM,
		CreatedAt:  roll.CreatedAt,
	}
}

package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/inventory"
)

type UnitResponse struct {
	ID            uuid.UUID       `json:"id"`
	ItemID        uuid.UUID       `json:"item_id"`
	RollID        *uuid.UUID      `json:"roll_id,omitempty"`
	RestockItemID *uuid.UUID      `json:"restock_item_id,omitempty"`
	Barcode       string          `json:"barcode"`
	IsPlaceholder bool            `json:"is_placeholder"`
	Status        string          `json:"status"`
	CostEach      decimal.Decimal `json:"cost_each"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewUnitResponse(unit *inventory.InventoryUnit) *UnitResponse {
	return &UnitResponse{
		ID:            unit.ID,
		ItemID:        unit.ItemID,
		RollID:        unit.RollID,
		RestockItemID: unit.RestockItemID,
		Barcode:       unit.Barcode,
		IsPlaceholder: unit.IsPlaceholder,
		Status:        string(unit.Status),
		CostEach:      unit.CostEach,
		CreatedAt:     unit.CreatedAt,
	}
}

type ListUnitsRequest struct {
	Status              string `form:"status"`
	IncludePlaceholders bool   `form:"include_placeholders"`
	Limit               int    `form:"limit"`
	Offset              int    `form:"offset"`
}

type AssignBarcodeRequest struct {
	Barcode string `json:"barcode"`
}

type UpdateUnitStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ItemSummary is the catalog context a barcode lookup carries alongside the
// unit, enough for the cashier screen to render a line.
type ItemSummary struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	StockUnit   string          `json:"stock_unit"`
	RetailPrice decimal.Decimal `json:"retail_price"`
}

type BarcodeLookupResponse struct {
	Unit UnitResponse `json:"unit"`
	Item ItemSummary  `json:"item"`
}

type RequestReturnRequest struct {
	UnitID           *uuid.UUID `json:"unit_id"`
	Barcode          string     `json:"barcode"`
	RequestedOutcome string     `json:"requested_outcome" binding:"required"`
	Reason           string     `json:"reason"`
}

type ResolveReturnRequest struct {
	Action     string     `json:"action" binding:"required"`
	SupplierID *uuid.UUID `json:"supplier_id"`
	Note       string     `json:"note"`
}

type ListReturnsRequest struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

type ReturnResponse struct {
	ID               uuid.UUID  `json:"id"`
	UnitID           uuid.UUID  `json:"unit_id"`
	TransactionID    *uuid.UUID `json:"transaction_id,omitempty"`
	Status           string     `json:"status"`
	RequestedOutcome string     `json:"requested_outcome"`
	Reason           string     `json:"reason"`
	SupplierID       *uuid.UUID `json:"supplier_id,omitempty"`
	SupplierNote     string     `json:"supplier_note,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func NewReturnResponse(rec *inventory.ReturnRecord) *ReturnResponse {
	return &ReturnResponse{
		ID:               rec.ID,
		UnitID:           rec.UnitID,
		TransactionID:    rec.TransactionID,
		Status:           string(rec.Status),
		RequestedOutcome: string(rec.RequestedOutcome),
		Reason:           rec.Reason,
		SupplierID:       rec.SupplierID,
		SupplierNote:     rec.SupplierNote,
		ResolvedAt:       rec.ResolvedAt,
		CreatedAt:        rec.CreatedAt,
	}
}

// SaleRef points a unit's history at a sale that touched it.
type SaleRef struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Date          time.Time `json:"date"`
}

type UnitHistoryResponse struct {
	Unit    UnitResponse     `json:"unit"`
	Sales   []SaleRef        `json:"sales"`
	Returns []ReturnResponse `json:"returns"`
}

type BackfillRequest struct {
	BatchSize int  `json:"batch_size"`
	Offset    int  `json:"offset"`
	DryRun    bool `json:"dry_run"`
}

type BackfillResult struct {
	LinesScanned int  `json:"lines_scanned"`
	LinesSkipped int  `json:"lines_skipped"`
	UnitsCreated int  `json:"units_created"`
	NextOffset   int  `json:"next_offset"`
	Done         bool `json:"done"`
	DryRun       bool `json:"dry_run"`
}

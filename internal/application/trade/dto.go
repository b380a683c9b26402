package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/trade"
)

// NewItemSpec creates a catalog item on the fly from a restock line.
type NewItemSpec struct {
	Name           string          `json:"name" binding:"required"`
	Category       string          `json:"category" binding:"required"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
}

// RestockLineRequest is a tagged union on Mode. EACH lines carry Quantity and
// optionally explicit Serials; METER lines carry NewRolls, one roll per
// length.
type RestockLineRequest struct {
	ItemID   *uuid.UUID        `json:"item_id"`
	NewItem  *NewItemSpec      `json:"new_item"`
	Mode     string            `json:"mode" binding:"required"`
	Quantity int               `json:"quantity"`
	Serials  []string          `json:"serials"`
	NewRolls []decimal.Decimal `json:"new_rolls"`
	UnitCost decimal.Decimal   `json:"unit_cost"`
}

type CreateRestockRequest struct {
	SupplierID   *uuid.UUID           `json:"supplier_id"`
	SupplierName string               `json:"supplier_name"`
	Date         time.Time            `json:"date"`
	Note         string               `json:"note"`
	Tax          decimal.Decimal      `json:"tax"`
	Paid         decimal.Decimal      `json:"paid"`
	CashboxCode  string               `json:"cashbox_code"`
	Lines        []RestockLineRequest `json:"lines" binding:"required"`
}

type RestockLineResponse struct {
	ID        uuid.UUID         `json:"id"`
	ItemID    uuid.UUID         `json:"item_id"`
	ItemName  string            `json:"item_name,omitempty"`
	Mode      string            `json:"mode"`
	Quantity  decimal.Decimal   `json:"quantity"`
	UnitCost  decimal.Decimal   `json:"unit_cost"`
	LineTotal decimal.Decimal   `json:"line_total"`
	RollIDs   []uuid.UUID       `json:"roll_ids,omitempty"`
	UnitIDs   []uuid.UUID       `json:"unit_ids,omitempty"`
}

type RestockResponse struct {
	ID            uuid.UUID             `json:"id"`
	SupplierID    *uuid.UUID            `json:"supplier_id,omitempty"`
	SupplierName  string                `json:"supplier_name,omitempty"`
	Date          time.Time             `json:"date"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Tax           decimal.Decimal       `json:"tax"`
	Total         decimal.Decimal       `json:"total"`
	Paid          decimal.Decimal       `json:"paid"`
	Outstanding   decimal.Decimal       `json:"outstanding"`
	PaymentStatus string                `json:"payment_status"`
	CashboxCode   string                `json:"cashbox_code,omitempty"`
	Note          string                `json:"note"`
	Lines         []RestockLineResponse `json:"lines"`
	CreatedAt     time.Time             `json:"created_at"`
}

func NewRestockResponse(r *trade.Restock) *RestockResponse {
	resp := &RestockResponse{
		ID:            r.ID,
		SupplierID:    r.SupplierID,
		Date:          r.Date,
		Subtotal:      r.Subtotal,
		Tax:           r.Tax,
		Total:         r.Total,
		Paid:          r.Paid,
		Outstanding:   r.Outstanding,
		PaymentStatus: string(r.PaymentStatus),
		CashboxCode:   r.CashboxCode,
		Note:          r.Note,
		CreatedAt:     r.CreatedAt,
	}
	for i := range r.Items {
		line := &r.Items[i]
		lr := RestockLineResponse{
			ID:        line.ID,
			ItemID:    line.ItemID,
			Mode:      string(line.Mode),
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
			LineTotal: line.LineTotal,
		}
		for j := range line.Rolls {
			lr.RollIDs = append(lr.RollIDs, line.Rolls[j].RollID)
		}
		resp.Lines = append(resp.Lines, lr)
	}
	return resp
}

// SaleLineRequest is a tagged union on Mode. EACH lines sell serialized units
// by id or barcode, or a plain quantity for non-serialized legacy items;
// METER lines cut LengthM from a roll or from aggregate stock.
type SaleLineRequest struct {
	ItemID    uuid.UUID        `json:"item_id" binding:"required"`
	Mode      string           `json:"mode" binding:"required"`
	Quantity  int              `json:"quantity"`
	UnitIDs   []uuid.UUID      `json:"unit_ids"`
	Barcodes  []string         `json:"barcodes"`
	LengthM   decimal.Decimal  `json:"length_m"`
	RollID    *uuid.UUID       `json:"roll_id"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type CheckoutRequest struct {
	CustomerID  *uuid.UUID        `json:"customer_id"`
	Paid        decimal.Decimal   `json:"paid"`
	CashboxCode string            `json:"cashbox_code"`
	Note        string            `json:"note"`
	Wholesale   bool              `json:"wholesale"`
	Lines       []SaleLineRequest `json:"lines" binding:"required"`
}

type EditTransactionRequest struct {
	EditNote    string            `json:"edit_note" binding:"required"`
	Paid        *decimal.Decimal  `json:"paid"`
	CashboxCode *string           `json:"cashbox_code"`
	Note        *string           `json:"note"`
	Wholesale   bool              `json:"wholesale"`
	Lines       []SaleLineRequest `json:"lines" binding:"required"`
}

type SaleLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"item_id"`
	ItemName  string          `json:"item_name,omitempty"`
	Mode      string          `json:"mode"`
	Quantity  decimal.Decimal `json:"quantity"`
	RollID    *uuid.UUID      `json:"roll_id,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	UnitIDs   []uuid.UUID     `json:"unit_ids,omitempty"`
}

type TransactionResponse struct {
	ID            uuid.UUID          `json:"id"`
	CustomerID    uuid.UUID          `json:"customer_id,omitempty"`
	CustomerName  string             `json:"customer_name,omitempty"`
	Total         decimal.Decimal    `json:"total"`
	Paid          decimal.Decimal    `json:"paid"`
	PaymentStatus string             `json:"payment_status"`
	CashboxCode   string             `json:"cashbox_code"`
	Note          string             `json:"note"`
	EditNote      string             `json:"edit_note,omitempty"`
	EditedAt      *time.Time         `json:"edited_at,omitempty"`
	Lines         []SaleLineResponse `json:"lines"`
	CreatedAt     time.Time          `json:"created_at"`
}

func NewTransactionResponse(t *trade.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:            t.ID,
		CustomerID:    t.CustomerID,
		Total:         t.Total,
		Paid:          t.Paid,
		PaymentStatus: string(t.PaymentStatus),
		CashboxCode:   t.CashboxCode,
		Note:          t.Note,
		EditNote:      t.EditNote,
		EditedAt:      t.EditedAt,
		CreatedAt:     t.CreatedAt,
	}
	for i := range t.Items {
		line := &t.Items[i]
		lr := SaleLineResponse{
			ID:        line.ID,
			ItemID:    line.ItemID,
			Mode:      string(line.Mode),
			Quantity:  line.Quantity,
			RollID:    line.RollID,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		}
		for j := range line.Units {
			lr.UnitIDs = append(lr.UnitIDs, line.Units[j].InventoryUnitID)
		}
		resp.Lines = append(resp.Lines, lr)
	}
	return resp
}

type ListTransactionsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

type RestockHistoryRequest struct {
	SupplierID *uuid.UUID `form:"supplier_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Limit      int        `form:"limit"`
	Offset     int        `form:"offset"`
}

package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/shared"
)

// minEditNoteLength is the shortest accepted explanation when amending a sale.
const minEditNoteLength = 3

// Transaction is a completed customer sale.
type Transaction struct {
	shared.BaseEntity
	CustomerID    uuid.UUID         `gorm:"type:uuid;index" json:"customer_id"`
	UserID        uuid.UUID         `gorm:"type:uuid;index" json:"user_id"`
	Total         decimal.Decimal   `gorm:"type:decimal(14,2);not null" json:"total"`
	Paid          decimal.Decimal   `gorm:"type:decimal(14,2);not null" json:"paid"`
	PaymentStatus PaymentStatus     `gorm:"type:varchar(8);not null" json:"payment_status"`
	CashboxCode   string            `gorm:"type:varchar(8);not null" json:"cashbox_code"`
	Note          string            `gorm:"type:text" json:"note"`
	EditNote      string            `gorm:"type:text" json:"edit_note"`
	EditedAt      *time.Time        `json:"edited_at,omitempty"`
	Items         []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionItem is one line of a sale. EACH lines count pieces and link the
// serialized units that left the shelf; METER lines cut a length from a roll.
type TransactionItem struct {
	shared.BaseEntity
	TransactionID uuid.UUID             `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ItemID        uuid.UUID             `gorm:"type:uuid;not null;index" json:"item_id"`
	Mode          catalog.StockUnit     `gorm:"type:varchar(8);not null" json:"mode"`
	Quantity      decimal.Decimal       `gorm:"type:decimal(12,3);not null" json:"quantity"`
	RollID        *uuid.UUID            `gorm:"type:uuid" json:"roll_id,omitempty"`
	UnitPrice     decimal.Decimal       `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	LineTotal     decimal.Decimal       `gorm:"type:decimal(14,2);not null" json:"line_total"`
	Units         []TransactionItemUnit `gorm:"foreignKey:TransactionItemID" json:"units,omitempty"`
}

func (TransactionItem) TableName() string {
	return "transaction_items"
}

// TransactionItemUnit links a sale line to a serialized unit. The unique
// index on InventoryUnitID guarantees a unit is sold at most once across all
// sales.
type TransactionItemUnit struct {
	shared.BaseEntity
	TransactionItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaction_item_id"`
	InventoryUnitID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"inventory_unit_id"`
}

func (TransactionItemUnit) TableName() string {
	return "transaction_item_units"
}

func NewTransaction(customerID, userID uuid.UUID, paid decimal.Decimal, cashboxCode, note string) *Transaction {
	return &Transaction{
		BaseEntity:  shared.NewBaseEntity(),
		CustomerID:  customerID,
		UserID:      userID,
		Total:       decimal.Zero,
		Paid:        paid,
		CashboxCode: cashboxCode,
		Note:        note,
	}
}

// AddEachLine appends a piece-counted line. When serialized units are given
// the quantity is their count; without units the line is a plain quantity
// decrement with no links.
func (t *Transaction) AddEachLine(itemID uuid.UUID, quantity int, unitIDs []uuid.UUID, unitPrice decimal.Decimal) (*TransactionItem, error) {
	if len(unitIDs) > 0 {
		quantity = len(unitIDs)
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "unit price must not be negative")
	}
	qty := decimal.NewFromInt(int64(quantity))
	line := TransactionItem{
		BaseEntity:    shared.NewBaseEntity(),
		TransactionID: t.ID,
		ItemID:        itemID,
		Mode:          catalog.UnitEach,
		Quantity:      qty,
		UnitPrice:     unitPrice,
		LineTotal:     unitPrice.Mul(qty),
	}
	for _, unitID := range unitIDs {
		line.Units = append(line.Units, TransactionItemUnit{
			BaseEntity:        shared.NewBaseEntity(),
			TransactionItemID: line.ID,
			InventoryUnitID:   unitID,
		})
	}
	t.Items = append(t.Items, line)
	return &t.Items[len(t.Items)-1], nil
}

// AddMeterLine appends a length cut from one roll.
func (t *Transaction) AddMeterLine(itemID, rollID uuid.UUID, meters, pricePerMeter decimal.Decimal) (*TransactionItem, error) {
	if !meters.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "cut length must be positive")
	}
	if pricePerMeter.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "price must not be negative")
	}
	line := TransactionItem{
		BaseEntity:    shared.NewBaseEntity(),
		TransactionID: t.ID,
		ItemID:        itemID,
		Mode:          catalog.UnitMeter,
		Quantity:      meters,
		RollID:        &rollID,
		UnitPrice:     pricePerMeter,
		LineTotal:     pricePerMeter.Mul(meters).Round(2),
	}
	t.Items = append(t.Items, line)
	return &t.Items[len(t.Items)-1], nil
}

// Finalize computes the total and derives the payment status.
func (t *Transaction) Finalize() error {
	if len(t.Items) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "sale requires at least one line")
	}
	total := decimal.Zero
	for _, line := range t.Items {
		total = total.Add(line.LineTotal)
	}
	t.Total = total
	if t.Paid.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "paid amount must not be negative")
	}
	t.PaymentStatus = PaymentStatusFor(t.Total, t.Paid)
	t.Touch()
	return nil
}

// BeginEdit validates the edit note and clears the lines so the amended set
// can be written in full.
func (t *Transaction) BeginEdit(editNote string) error {
	editNote = strings.TrimSpace(editNote)
	if len(editNote) < minEditNoteLength {
		return shared.NewDomainErrorf(shared.CodeInvalidInput,
			"edit note must be at least %d characters", minEditNoteLength)
	}
	now := time.Now()
	t.EditNote = editNote
	t.EditedAt = &now
	t.Items = nil
	t.Touch()
	return nil
}

// UnitIDs collects every serialized unit linked to the sale.
func (t *Transaction) UnitIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, line := range t.Items {
		for _, link := range line.Units {
			ids = append(ids, link.InventoryUnitID)
		}
	}
	return ids
}

package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/shared"
)

// Restock is a supplier delivery. Unpaid remainder becomes supplier debt.
type Restock struct {
	shared.BaseEntity
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	UserID        uuid.UUID       `gorm:"type:uuid;index" json:"user_id"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
	Paid          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"paid"`
	Outstanding   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"outstanding"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(8);not null;index" json:"payment_status"`
	CashboxCode   string          `gorm:"type:varchar(8)" json:"cashbox_code"`
	Note          string          `gorm:"type:text" json:"note"`
	Items         []RestockItem   `gorm:"foreignKey:RestockID" json:"items"`
}

func (Restock) TableName() string {
	return "restocks"
}

// RestockItem is one delivered line. METER lines create one roll per length
// in the delivery; EACH lines create one serialized unit per piece.
type RestockItem struct {
	shared.BaseEntity
	RestockID uuid.UUID         `gorm:"type:uuid;not null;index" json:"restock_id"`
	ItemID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"item_id"`
	Mode      catalog.StockUnit `gorm:"type:varchar(8);not null" json:"mode"`
	Quantity  decimal.Decimal   `gorm:"type:decimal(12,3);not null" json:"quantity"`
	UnitCost  decimal.Decimal   `gorm:"type:decimal(14,2);not null" json:"unit_cost"`
	LineTotal decimal.Decimal   `gorm:"type:decimal(14,2);not null" json:"line_total"`
	Rolls     []RestockRoll     `gorm:"foreignKey:RestockItemID" json:"rolls,omitempty"`
}

func (RestockItem) TableName() string {
	return "restock_items"
}

// RestockRoll records which roll a METER line created and at what length.
// The backfill job walks these links to find rolls missing their unit.
type RestockRoll struct {
	shared.BaseEntity
	RestockItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"restock_item_id"`
	RollID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"roll_id"`
	LengthM       decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"length_m"`
}

func (RestockRoll) TableName() string {
	return "restock_rolls"
}

// LinkRoll attaches a created roll to the delivery line.
func (ri *RestockItem) LinkRoll(rollID uuid.UUID, lengthM decimal.Decimal) {
	ri.Rolls = append(ri.Rolls, RestockRoll{
		BaseEntity:    shared.NewBaseEntity(),
		RestockItemID: ri.ID,
		RollID:        rollID,
		LengthM:       lengthM,
	})
}

func NewRestock(supplierID *uuid.UUID, userID uuid.UUID, date time.Time, tax, paid decimal.Decimal, cashboxCode, note string) (*Restock, error) {
	if tax.IsNegative() || paid.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "tax and paid amounts must not be negative")
	}
	if date.IsZero() {
		date = time.Now()
	}
	return &Restock{
		BaseEntity:  shared.NewBaseEntity(),
		SupplierID:  supplierID,
		UserID:      userID,
		Date:        date,
		Tax:         tax,
		Paid:        paid,
		CashboxCode: cashboxCode,
		Note:        note,
	}, nil
}

// AddEachLine appends a piece-counted delivery line.
func (r *Restock) AddEachLine(itemID uuid.UUID, quantity int, unitCost decimal.Decimal) (*RestockItem, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "quantity must be positive")
	}
	return r.addLine(itemID, catalog.UnitEach, decimal.NewFromInt(int64(quantity)), unitCost)
}

// AddMeterLine appends a delivery line measured in meters.
func (r *Restock) AddMeterLine(itemID uuid.UUID, totalMeters, costPerMeter decimal.Decimal) (*RestockItem, error) {
	if !totalMeters.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "delivered length must be positive")
	}
	return r.addLine(itemID, catalog.UnitMeter, totalMeters, costPerMeter)
}

func (r *Restock) addLine(itemID uuid.UUID, mode catalog.StockUnit, qty, unitCost decimal.Decimal) (*RestockItem, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "restock line requires an item")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "unit cost must not be negative")
	}
	line := RestockItem{
		BaseEntity: shared.NewBaseEntity(),
		RestockID:  r.ID,
		ItemID:     itemID,
		Mode:       mode,
		Quantity:   qty,
		UnitCost:   unitCost,
		LineTotal:  unitCost.Mul(qty).Round(2),
	}
	r.Items = append(r.Items, line)
	return &r.Items[len(r.Items)-1], nil
}

// Finalize computes totals and the outstanding supplier debt.
func (r *Restock) Finalize() error {
	if len(r.Items) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "restock requires at least one line")
	}
	subtotal := decimal.Zero
	for _, line := range r.Items {
		subtotal = subtotal.Add(line.LineTotal)
	}
	r.Subtotal = subtotal
	r.Total = subtotal.Add(r.Tax)
	if r.Paid.GreaterThan(r.Total) {
		return shared.NewDomainError(shared.CodeInvalidInput, "paid amount exceeds restock total")
	}
	r.Outstanding = r.Total.Sub(r.Paid)
	r.PaymentStatus = PaymentStatusFor(r.Total, r.Paid)
	r.Touch()
	return nil
}

// ApplyPayment reduces the outstanding debt, bounded by what is owed, and
// returns the amount actually applied.
func (r *Restock) ApplyPayment(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, shared.NewDomainError(shared.CodeInvalidInput, "payment must be positive")
	}
	if r.Outstanding.IsZero() {
		return decimal.Zero, nil
	}
	applied := decimal.Min(amount, r.Outstanding)
	r.Paid = r.Paid.Add(applied)
	r.Outstanding = r.Outstanding.Sub(applied)
	r.PaymentStatus = PaymentStatusFor(r.Total, r.Paid)
	r.Touch()
	return applied, nil
}

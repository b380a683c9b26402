package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/shared"
)

// UnitStatus is the lifecycle state of a serialized inventory unit.
type UnitStatus string

const (
	UnitAvailable UnitStatus = "available"
	UnitReserved  UnitStatus = "reserved"
	UnitSold      UnitStatus = "sold"
	UnitReturned  UnitStatus = "returned"
	UnitDefective UnitStatus = "defective"
)

func (s UnitStatus) Valid() bool {
	switch s {
	case UnitAvailable, UnitReserved, UnitSold, UnitReturned, UnitDefective:
		return true
	}
	return false
}

// InventoryUnit is one physical piece of an item. EACH items get one unit per
// piece; METER items get one unit per roll. Every unit carries a barcode,
// auto-generated when the real label is not known yet.
type InventoryUnit struct {
	shared.BaseEntity
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	RollID        *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"roll_id,omitempty"`
	RestockItemID *uuid.UUID      `gorm:"type:uuid;index" json:"restock_item_id,omitempty"`
	Barcode       string          `gorm:"type:varchar(191);not null;uniqueIndex" json:"barcode"`
	IsPlaceholder bool            `gorm:"not null;default:false" json:"is_placeholder"`
	Status        UnitStatus      `gorm:"type:varchar(16);not null;default:available;index" json:"status"`
	CostEach      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"cost_each"`
}

func (InventoryUnit) TableName() string {
	return "inventory_units"
}

// NewUnit creates an available unit. An empty barcode gets a generated
// placeholder code so the unique index always holds.
func NewUnit(itemID uuid.UUID, barcode string, cost decimal.Decimal) (*InventoryUnit, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "unit requires an item")
	}
	barcode, err := NormalizeBarcode(barcode)
	if err != nil {
		return nil, err
	}
	u := &InventoryUnit{
		BaseEntity: shared.NewBaseEntity(),
		ItemID:     itemID,
		Status:     UnitAvailable,
		CostEach:   cost,
	}
	if barcode == "" {
		u.Barcode = NewPlaceholderBarcode()
		u.IsPlaceholder = true
	} else {
		u.Barcode = barcode
	}
	return u, nil
}

// NewRollUnit creates the single unit that represents a roll.
func NewRollUnit(itemID, rollID uuid.UUID, barcode string, cost decimal.Decimal) (*InventoryUnit, error) {
	u, err := NewUnit(itemID, barcode, cost)
	if err != nil {
		return nil, err
	}
	if rollID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "roll unit requires a roll")
	}
	u.RollID = &rollID
	return u, nil
}

// AssignBarcode replaces the unit's barcode with the scanned label. An empty
// code clears the label back to a generated placeholder.
func (u *InventoryUnit) AssignBarcode(barcode string) error {
	barcode, err := NormalizeBarcode(barcode)
	if err != nil {
		return err
	}
	if barcode == "" {
		u.Barcode = NewPlaceholderBarcode()
		u.IsPlaceholder = true
	} else {
		u.Barcode = barcode
		u.IsPlaceholder = false
	}
	u.Touch()
	return nil
}

// Reserve holds an available unit for a cart in progress.
func (u *InventoryUnit) Reserve() error {
	if u.Status != UnitAvailable {
		return shared.NewDomainErrorf(shared.CodeInvalidState,
			"unit %s is %s, cannot reserve", u.ID, u.Status)
	}
	u.Status = UnitReserved
	u.Touch()
	return nil
}

// MarkSold transitions the unit into the sold state. Only available or
// reserved units can be sold.
func (u *InventoryUnit) MarkSold() error {
	if u.Status != UnitAvailable && u.Status != UnitReserved {
		return shared.NewDomainErrorf(shared.CodeInvalidState,
			"unit %s is %s, cannot sell", u.ID, u.Status)
	}
	u.Status = UnitSold
	u.Touch()
	return nil
}

// Release puts a unit back on the shelf, used when an edited sale drops it or
// a return is resolved as restock.
func (u *InventoryUnit) Release() error {
	if u.Status != UnitSold && u.Status != UnitReserved {
		return shared.NewDomainErrorf(shared.CodeInvalidState,
			"unit %s is %s, cannot release", u.ID, u.Status)
	}
	u.Status = UnitAvailable
	u.Touch()
	return nil
}

// MarkReturned records that the customer handed the unit back but it left
// sellable stock for good.
func (u *InventoryUnit) MarkReturned() error {
	if u.Status != UnitSold {
		return shared.NewDomainErrorf(shared.CodeInvalidState,
			"unit %s is %s, cannot mark returned", u.ID, u.Status)
	}
	u.Status = UnitReturned
	u.Touch()
	return nil
}

// MarkDefective removes the unit from sellable stock.
func (u *InventoryUnit) MarkDefective() error {
	if u.Status == UnitDefective {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "unit %s is already defective", u.ID)
	}
	u.Status = UnitDefective
	u.Touch()
	return nil
}

package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/shared"
)

// StockUnit says how an item's stock is counted.
type StockUnit string

const (
	// UnitEach counts whole pieces. Stock moves in integer steps.
	UnitEach StockUnit = "EACH"
	// UnitMeter counts length. Stock lives on the item's rolls as remaining
	// meters; the aggregate counter is not maintained for meter items.
	UnitMeter StockUnit = "METER"
)

func (u StockUnit) Valid() bool {
	return u == UnitEach || u == UnitMeter
}

// Category is the product line an item belongs to.
type Category string

const (
	CategoryInternet  Category = "internet"
	CategorySolar     Category = "solar"
	CategoryCamera    Category = "camera"
	CategorySatellite Category = "satellite"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryInternet, CategorySolar, CategoryCamera, CategorySatellite:
		return true
	}
	return false
}

// Item is a sellable product. Serialized identity of individual pieces is
// tracked by the inventory context; Item keeps the aggregate stock figure.
type Item struct {
	shared.BaseEntity
	Name           string          `gorm:"type:varchar(191);not null;index" json:"name"`
	SKU            *string         `gorm:"type:varchar(64);uniqueIndex" json:"sku,omitempty"`
	Category       Category        `gorm:"type:varchar(32);not null;index" json:"category"`
	StockUnit      StockUnit       `gorm:"type:varchar(8);not null;default:EACH" json:"stock_unit"`
	Stock          decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0" json:"stock"`
	RetailPrice    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"retail_price"`
	WholesalePrice decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"wholesale_price"`
	PhotoURL       *string         `gorm:"type:varchar(512)" json:"photo_url,omitempty"`
	Note           string          `gorm:"type:text" json:"note"`
}

func (Item) TableName() string {
	return "items"
}

func NewItem(name string, category Category, unit StockUnit, retail, wholesale decimal.Decimal) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "item name is required")
	}
	if !category.Valid() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown category %q", category)
	}
	if unit == "" {
		unit = UnitEach
	}
	if !unit.Valid() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown stock unit %q", unit)
	}
	if retail.IsNegative() || wholesale.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "prices must not be negative")
	}
	return &Item{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           name,
		Category:       category,
		StockUnit:      unit,
		Stock:          decimal.Zero,
		RetailPrice:    retail,
		WholesalePrice: wholesale,
	}, nil
}

// IsMeterTracked reports whether stock is measured in meters on rolls.
func (i *Item) IsMeterTracked() bool {
	return i.StockUnit == UnitMeter
}

func (i *Item) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "item name is required")
	}
	i.Name = name
	i.Touch()
	return nil
}

func (i *Item) SetPrices(retail, wholesale decimal.Decimal) error {
	if retail.IsNegative() || wholesale.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "prices must not be negative")
	}
	i.RetailPrice = retail
	i.WholesalePrice = wholesale
	i.Touch()
	return nil
}

// ChangeStockUnit switches how stock is counted. The service layer rejects
// the change once rolls or serialized units exist for the item; hasTracking
// carries that check's result.
func (i *Item) ChangeStockUnit(unit StockUnit, hasTracking bool) error {
	if !unit.Valid() {
		return shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown stock unit %q", unit)
	}
	if unit == i.StockUnit {
		return nil
	}
	if hasTracking {
		return shared.NewDomainError(shared.CodeInvalidState,
			"stock unit cannot change while rolls or serialized units exist")
	}
	i.StockUnit = unit
	i.Touch()
	return nil
}

func (i *Item) SetPhotoURL(url string) {
	if url == "" {
		i.PhotoURL = nil
	} else {
		i.PhotoURL = &url
	}
	i.Touch()
}

package finance

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/shared"
)

// EntryKind is the direction of a cashbox movement.
type EntryKind string

const (
	EntryIncome  EntryKind = "income"
	EntryExpense EntryKind = "expense"
)

func (k EntryKind) Valid() bool {
	return k == EntryIncome || k == EntryExpense
}

// EntrySource says what produced a movement.
type EntrySource string

const (
	SourceManual          EntrySource = "manual"
	SourceSale            EntrySource = "sale"
	SourceRestock         EntrySource = "restock"
	SourceSupplierPayment EntrySource = "supplier_payment"
)

// Cashbox is one of the shop's cash drawers. Balance is the running sum of
// its entries and is kept consistent inside the same transaction that writes
// an entry.
type Cashbox struct {
	shared.BaseEntity
	Code    string          `gorm:"type:varchar(8);not null;uniqueIndex" json:"code"`
	Name    string          `gorm:"type:varchar(64);not null" json:"name"`
	Balance decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"balance"`
}

func (Cashbox) TableName() string {
	return "cashboxes"
}

func NewCashbox(code, name string) (*Cashbox, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "cashbox code is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "cashbox name is required")
	}
	return &Cashbox{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Balance:    decimal.Zero,
	}, nil
}

// Apply adjusts the balance for an entry. Expenses may not take the drawer
// below zero.
func (c *Cashbox) Apply(kind EntryKind, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "amount must be positive")
	}
	switch kind {
	case EntryIncome:
		c.Balance = c.Balance.Add(amount)
	case EntryExpense:
		if amount.GreaterThan(c.Balance) {
			return shared.NewDomainErrorf("INSUFFICIENT_BALANCE",
				"cashbox %s holds %s, cannot pay %s", c.Code, c.Balance, amount)
		}
		c.Balance = c.Balance.Sub(amount)
	default:
		return shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown entry kind %q", kind)
	}
	c.Touch()
	return nil
}

// CashboxEntry is one movement in a drawer's ledger.
type CashboxEntry struct {
	shared.BaseEntity
	CashboxID uuid.UUID       `gorm:"type:uuid;not null;index" json:"cashbox_id"`
	Kind      EntryKind       `gorm:"type:varchar(8);not null;index" json:"kind"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Source    EntrySource     `gorm:"type:varchar(24);not null;index" json:"source"`
	RefID     *uuid.UUID      `gorm:"type:uuid;index" json:"ref_id,omitempty"`
	Note      string          `gorm:"type:text" json:"note"`
	UserID    uuid.UUID       `gorm:"type:uuid" json:"user_id"`
}

func (CashboxEntry) TableName() string {
	return "cashbox_entries"
}

func NewCashboxEntry(cashboxID uuid.UUID, kind EntryKind, amount decimal.Decimal, source EntrySource, refID *uuid.UUID, note string, userID uuid.UUID) (*CashboxEntry, error) {
	if cashboxID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "entry requires a cashbox")
	}
	if !kind.Valid() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown entry kind %q", kind)
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "amount must be positive")
	}
	return &CashboxEntry{
		BaseEntity: shared.NewBaseEntity(),
		CashboxID:  cashboxID,
		Kind:       kind,
		Amount:     amount,
		Source:     source,
		RefID:      refID,
		Note:       note,
		UserID:     userID,
	}, nil
}

package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/mjpos/backend/internal/domain/shared"
)

// ReturnStatus is the workflow state of a customer return.
type ReturnStatus string

const (
	ReturnPending            ReturnStatus = "pending"
	ReturnRestocked          ReturnStatus = "restocked"
	ReturnTrashed            ReturnStatus = "trashed"
	ReturnReturnedToSupplier ReturnStatus = "returned_to_supplier"
)

func (s ReturnStatus) Valid() bool {
	switch s {
	case ReturnPending, ReturnRestocked, ReturnTrashed, ReturnReturnedToSupplier:
		return true
	}
	return false
}

func (s ReturnStatus) Terminal() bool {
	return s != ReturnPending
}

// ReturnOutcome is what the operator intends to do with the unit when the
// return is filed. The actual resolution may differ.
type ReturnOutcome string

const (
	OutcomeRestock   ReturnOutcome = "restock"
	OutcomeDefective ReturnOutcome = "defective"
)

func (o ReturnOutcome) Valid() bool {
	return o == OutcomeRestock || o == OutcomeDefective
}

// ReturnRecord tracks a sold unit a customer brought back. The unit stays
// sold until the return is resolved one way, exactly once.
type ReturnRecord struct {
	shared.BaseEntity
	UnitID           uuid.UUID     `gorm:"type:uuid;not null;index" json:"unit_id"`
	TransactionID    *uuid.UUID    `gorm:"type:uuid;index" json:"transaction_id,omitempty"`
	Status           ReturnStatus  `gorm:"type:varchar(24);not null;default:pending;index" json:"status"`
	RequestedOutcome ReturnOutcome `gorm:"type:varchar(16);not null" json:"requested_outcome"`
	Reason           string        `gorm:"type:text" json:"reason"`
	SupplierID       *uuid.UUID    `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	SupplierNote     string        `gorm:"type:text" json:"supplier_note"`
	ResolvedAt       *time.Time    `json:"resolved_at,omitempty"`
}

func (ReturnRecord) TableName() string {
	return "inventory_return_records"
}

func NewReturnRecord(unitID uuid.UUID, transactionID *uuid.UUID, outcome ReturnOutcome, reason string) (*ReturnRecord, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "return requires a unit")
	}
	if !outcome.Valid() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown requested outcome %q", outcome)
	}
	return &ReturnRecord{
		BaseEntity:       shared.NewBaseEntity(),
		UnitID:           unitID,
		TransactionID:    transactionID,
		Status:           ReturnPending,
		RequestedOutcome: outcome,
		Reason:           reason,
	}, nil
}

func (r *ReturnRecord) IsPending() bool {
	return r.Status == ReturnPending
}

func (r *ReturnRecord) resolve(status ReturnStatus) error {
	if !r.IsPending() {
		return shared.NewDomainErrorf(shared.CodeInvalidState,
			"return %s is already %s", r.ID, r.Status)
	}
	now := time.Now()
	r.Status = status
	r.ResolvedAt = &now
	r.Touch()
	return nil
}

// ResolveRestocked puts the unit back into sellable stock.
func (r *ReturnRecord) ResolveRestocked() error {
	return r.resolve(ReturnRestocked)
}

// ResolveTrashed writes the unit off as defective.
func (r *ReturnRecord) ResolveTrashed() error {
	return r.resolve(ReturnTrashed)
}

// ResolveReturnedToSupplier sends the unit back to the supplier it came from.
func (r *ReturnRecord) ResolveReturnedToSupplier(supplierID uuid.UUID, note string) error {
	if supplierID == uuid.Nil {
		return shared.NewDomainError(shared.CodeInvalidInput,
			"returning to supplier requires a supplier")
	}
	if err := r.resolve(ReturnReturnedToSupplier); err != nil {
		return err
	}
	r.SupplierID = &supplierID
	r.SupplierNote = note
	return nil
}

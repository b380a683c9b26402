package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/shared"
)

// Roll is a physical spool of a meter-tracked item. RemainingM never goes
// below zero and never exceeds LengthM.
type Roll struct {
	shared.BaseEntity
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	LengthM    decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"length_m"`
	RemainingM decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"remaining_m"`
}

func (Roll) TableName() string {
	return "rolls"
}

func NewRoll(itemID uuid.UUID, lengthM decimal.Decimal) (*Roll, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "roll requires an item")
	}
	if !lengthM.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "roll length must be positive")
	}
	return &Roll{
		BaseEntity: shared.NewBaseEntity(),
		ItemID:     itemID,
		LengthM:    lengthM,
		RemainingM: lengthM,
	}, nil
}

// IsUntouched reports whether nothing has been cut from the roll yet.
func (r *Roll) IsUntouched() bool {
	return r.RemainingM.Equal(r.LengthM)
}

func (r *Roll) IsEmpty() bool {
	return r.RemainingM.IsZero()
}

// Cut removes meters from the roll. The persistence layer enforces the same
// bound with a conditional update; this guard catches it before the round trip.
func (r *Roll) Cut(meters decimal.Decimal) error {
	if !meters.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "cut length must be positive")
	}
	if meters.GreaterThan(r.RemainingM) {
		return shared.NewDomainErrorf(shared.CodeInsufficientStock,
			"roll has %s m remaining, cannot cut %s m", r.RemainingM, meters)
	}
	r.RemainingM = r.RemainingM.Sub(meters)
	r.Touch()
	return nil
}

// Restore puts meters back, e.g. when an edited sale releases a cut.
func (r *Roll) Restore(meters decimal.Decimal) error {
	if !meters.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "restore length must be positive")
	}
	next := r.RemainingM.Add(meters)
	if next.GreaterThan(r.LengthM) {
		return shared.NewDomainErrorf(shared.CodeInvalidState,
			"restoring %s m would exceed roll length %s m", meters, r.LengthM)
	}
	r.RemainingM = next
	r.Touch()
	return nil
}

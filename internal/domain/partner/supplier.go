package partner

import (
	"strings"

	"github.com/mjpos/backend/internal/domain/shared"
)

// Supplier delivers stock. Debt toward a supplier is derived from the
// outstanding amounts on its restocks, never stored here.
type Supplier struct {
	shared.BaseEntity
	Name  string `gorm:"type:varchar(191);not null;index" json:"name"`
	Phone string `gorm:"type:varchar(32);index" json:"phone"`
	Note  string `gorm:"type:text" json:"note"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

func NewSupplier(name, phone, note string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "supplier name is required")
	}
	return &Supplier{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Phone:      strings.TrimSpace(phone),
		Note:       note,
	}, nil
}

func (s *Supplier) Update(name, phone, note string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "supplier name is required")
	}
	s.Name = name
	s.Phone = strings.TrimSpace(phone)
	s.Note = note
	s.Touch()
	return nil
}

package partner

import (
	"strings"

	"github.com/mjpos/backend/internal/domain/shared"
)

// Customer is a buyer known to the shop. Walk-in sales carry no customer.
type Customer struct {
	shared.BaseEntity
	Name  string `gorm:"type:varchar(191);not null;index" json:"name"`
	Phone string `gorm:"type:varchar(32);index" json:"phone"`
	Note  string `gorm:"type:text" json:"note"`
}

func (Customer) TableName() string {
	return "customers"
}

func NewCustomer(name, phone, note string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "customer name is required")
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Phone:      strings.TrimSpace(phone),
		Note:       note,
	}, nil
}

func (c *Customer) Update(name, phone, note string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "customer name is required")
	}
	c.Name = name
	c.Phone = strings.TrimSpace(phone)
	c.Note = note
	c.Touch()
	return nil
}

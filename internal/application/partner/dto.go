package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/partner"
)

type CreatePartnerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Note  string `json:"note"`
}

type UpdatePartnerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Note  string `json:"note"`
}

type ListPartnersRequest struct {
	Search string `form:"search"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewCustomerResponse(c *partner.Customer) *CustomerResponse {
	return &CustomerResponse{ID: c.ID, Name: c.Name, Phone: c.Phone, Note: c.Note, CreatedAt: c.CreatedAt}
}

type SupplierResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewSupplierResponse(s *partner.Supplier) *SupplierResponse {
	return &SupplierResponse{ID: s.ID, Name: s.Name, Phone: s.Phone, Note: s.Note, CreatedAt: s.CreatedAt}
}

// SupplierDebtSummary is one row of the debt overview.
type SupplierDebtSummary struct {
	SupplierID   uuid.UUID       `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	OpenRestocks int             `json:"open_restocks"`
	OldestDebt   *time.Time      `json:"oldest_debt,omitempty"`
}

// OutstandingRestock is one unpaid delivery in a supplier's debt detail.
type OutstandingRestock struct {
	RestockID   uuid.UUID       `json:"restock_id"`
	Date        time.Time       `json:"date"`
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type SupplierDebtDetail struct {
	SupplierID   uuid.UUID            `json:"supplier_id"`
	SupplierName string               `json:"supplier_name"`
	Outstanding  decimal.Decimal      `json:"outstanding"`
	Restocks     []OutstandingRestock `json:"restocks"`
}

type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	CashboxCode string          `json:"cashbox_code" binding:"required"`
	Note        string          `json:"note"`
}

// PaymentAllocation says how much of a payment settled which delivery.
type PaymentAllocation struct {
	RestockID uuid.UUID       `json:"restock_id"`
	Applied   decimal.Decimal `json:"applied"`
}

type PaymentResult struct {
	SupplierID  uuid.UUID           `json:"supplier_id"`
	Amount      decimal.Decimal     `json:"amount"`
	Applied     decimal.Decimal     `json:"applied"`
	Allocations []PaymentAllocation `json:"allocations"`
	Outstanding decimal.Decimal     `json:"outstanding"`
}

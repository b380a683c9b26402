package handler

import (
	"github.com/gin-gonic/gin"

	apppartner "github.com/mjpos/backend/internal/application/partner"
)

// PartnerHandler exposes customers, suppliers, and the supplier debt ledger
type PartnerHandler struct {
	BaseHandler
	partners *apppartner.PartnerService
	debts    *apppartner.DebtService
}

func NewPartnerHandler(partners *apppartner.PartnerService, debts *apppartner.DebtService) *PartnerHandler {
	return &PartnerHandler{partners: partners, debts: debts}
}

// ListCustomers searches customers
// GET /api/v1/customers
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	var req apppartner.ListPartnersRequest
	if !h.BindQuery(c, &req) {
		return
	}

	page, err := h.partners.ListCustomers(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// CreateCustomer adds a customer
// POST /api/v1/customers
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	var req apppartner.CreatePartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.partners.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetCustomer returns one customer
// GET /api/v1/customers/:id
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.partners.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// UpdateCustomer edits a customer
// PUT /api/v1/customers/:id
func (h *PartnerHandler) UpdateCustomer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}
	var req apppartner.UpdatePartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.partners.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// ListSuppliers searches suppliers
// GET /api/v1/suppliers
func (h *PartnerHandler) ListSuppliers(c *gin.Context) {
	var req apppartner.ListPartnersRequest
	if !h.BindQuery(c, &req) {
		return
	}

	page, err := h.partners.ListSuppliers(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// CreateSupplier adds a supplier
// POST /api/v1/suppliers
func (h *PartnerHandler) CreateSupplier(c *gin.Context) {
	var req apppartner.CreatePartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	supplier, err := h.partners.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// ListDebts summarizes what is owed to each supplier
// GET /api/v1/suppliers/debt
func (h *PartnerHandler) ListDebts(c *gin.Context) {
	debts, err := h.debts.ListDebts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, debts)
}

// GetDebt details one supplier's open deliveries
// GET /api/v1/suppliers/:id/debt
func (h *PartnerHandler) GetDebt(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	detail, err := h.debts.GetDebt(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// RecordPayment settles supplier debt, oldest delivery first
// POST /api/v1/suppliers/:id/payments
func (h *PartnerHandler) RecordPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}
	var req apppartner.RecordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.debts.RecordPayment(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

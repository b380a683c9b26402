package handler

import (
	"github.com/gin-gonic/gin"

	apptrade "github.com/mjpos/backend/internal/application/trade"
)

// SaleHandler exposes checkout and sale history
type SaleHandler struct {
	BaseHandler
	sales *apptrade.SaleService
}

func NewSaleHandler(sales *apptrade.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// Checkout finalizes a cart into a sale
// POST /api/v1/transactions
func (h *SaleHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req apptrade.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.sales.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// Recent lists sales, newest first
// GET /api/v1/transactions/recent
func (h *SaleHandler) Recent(c *gin.Context) {
	var req apptrade.ListTransactionsRequest
	if !h.BindQuery(c, &req) {
		return
	}

	page, err := h.sales.Recent(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Receipt returns one sale with its lines
// GET /api/v1/transactions/:id/receipt
func (h *SaleHandler) Receipt(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	sale, err := h.sales.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Edit amends a sale, replacing its lines
// PATCH /api/v1/transactions/:id
func (h *SaleHandler) Edit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}
	var req apptrade.EditTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.sales.Edit(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

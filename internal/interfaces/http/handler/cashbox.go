package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appfinance "github.com/mjpos/backend/internal/application/finance"
)

// CashboxHandler exposes the cash drawers and their ledgers
type CashboxHandler struct {
	BaseHandler
	cashboxes *appfinance.CashboxService
}

func NewCashboxHandler(cashboxes *appfinance.CashboxService) *CashboxHandler {
	return &CashboxHandler{cashboxes: cashboxes}
}

// List returns all drawers with balances
// GET /api/v1/cashboxes
func (h *CashboxHandler) List(c *gin.Context) {
	boxes, err := h.cashboxes.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, boxes)
}

// Entries pages through one drawer's ledger
// GET /api/v1/cashboxes/entries?code=A
func (h *CashboxHandler) Entries(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		h.BadRequest(c, "Missing cashbox code")
		return
	}
	var req appfinance.ListEntriesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	page, err := h.cashboxes.Entries(c.Request.Context(), code, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

type manualEntryBody struct {
	CashboxCode string          `json:"cashbox_code" binding:"required"`
	Kind        string          `json:"kind" binding:"required,oneof=income expense"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Note        string          `json:"note"`
}

// RecordEntry posts a manual income or expense
// POST /api/v1/cashboxes/entries
func (h *CashboxHandler) RecordEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var body manualEntryBody
	if !h.BindJSON(c, &body) {
		return
	}

	box, err := h.cashboxes.RecordManualEntry(c.Request.Context(), userID, body.CashboxCode,
		appfinance.ManualEntryRequest{Kind: body.Kind, Amount: body.Amount, Note: body.Note})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, box)
}

package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/mjpos/backend/internal/application/inventory"
)

// InventoryHandler exposes serialized units and the returns workflow
type InventoryHandler struct {
	BaseHandler
	units   *appinventory.UnitService
	returns *appinventory.ReturnService
}

func NewInventoryHandler(units *appinventory.UnitService, returns *appinventory.ReturnService) *InventoryHandler {
	return &InventoryHandler{units: units, returns: returns}
}

// ListUnits lists an item's serialized units
// GET /api/v1/inventory/items/:itemId/units
func (h *InventoryHandler) ListUnits(c *gin.Context) {
	itemID, err := parseUUIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}
	var req appinventory.ListUnitsRequest
	if !h.BindQuery(c, &req) {
		return
	}

	page, err := h.units.ListForItem(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// LookupBarcode resolves a barcode to its unit and item
// GET /api/v1/inventory/barcodes/:barcode
func (h *InventoryHandler) LookupBarcode(c *gin.Context) {
	code := c.Param("barcode")
	if code == "" {
		h.BadRequest(c, "Missing barcode")
		return
	}

	resp, err := h.units.LookupByBarcode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AssignBarcode sets or replaces a unit's barcode
// PATCH /api/v1/inventory/units/:unitId/barcode
func (h *InventoryHandler) AssignBarcode(c *gin.Context) {
	unitID, err := parseUUIDParam(c, "unitId")
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}
	var req appinventory.AssignBarcodeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	unit, err := h.units.AssignBarcode(c.Request.Context(), unitID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// UpdateStatus moves a unit through its lifecycle by hand
// PATCH /api/v1/inventory/units/:unitId/status
func (h *InventoryHandler) UpdateStatus(c *gin.Context) {
	unitID, err := parseUUIDParam(c, "unitId")
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}
	var req appinventory.UpdateUnitStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	unit, err := h.units.UpdateStatus(c.Request.Context(), unitID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// UnitHistory returns a unit's sale and return history
// GET /api/v1/inventory/units/:unitId/history
func (h *InventoryHandler) UnitHistory(c *gin.Context) {
	unitID, err := parseUUIDParam(c, "unitId")
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	history, err := h.units.History(c.Request.Context(), unitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// RequestReturn flags a sold unit for return
// POST /api/v1/inventory/units/:unitId/return
func (h *InventoryHandler) RequestReturn(c *gin.Context) {
	unitID, err := parseUUIDParam(c, "unitId")
	if err != nil {
		h.BadRequest(c, "Invalid unit ID")
		return
	}
	var req appinventory.RequestReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.UnitID = &unitID

	record, err := h.returns.Request(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// ListReturns pages through return records
// GET /api/v1/inventory/returns
func (h *InventoryHandler) ListReturns(c *gin.Context) {
	var req appinventory.ListReturnsRequest
	if !h.BindQuery(c, &req) {
		return
	}

	page, err := h.returns.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// ResolveReturn moves a pending return to its terminal state
// PATCH /api/v1/inventory/returns/:id
func (h *InventoryHandler) ResolveReturn(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid return ID")
		return
	}
	var req appinventory.ResolveReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	record, err := h.returns.Resolve(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

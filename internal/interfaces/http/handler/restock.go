package handler

import (
	"github.com/gin-gonic/gin"

	apptrade "github.com/mjpos/backend/internal/application/trade"
)

// RestockHandler exposes goods receipts
type RestockHandler struct {
	BaseHandler
	restocks *apptrade.RestockService
}

func NewRestockHandler(restocks *apptrade.RestockService) *RestockHandler {
	return &RestockHandler{restocks: restocks}
}

// Create records a supplier delivery
// POST /api/v1/restocks
func (h *RestockHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req apptrade.CreateRestockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	restock, err := h.restocks.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, restock)
}

// History pages through past deliveries
// GET /api/v1/restocks/history
func (h *RestockHandler) History(c *gin.Context) {
	var req apptrade.RestockHistoryRequest
	if !h.BindQuery(c, &req) {
		return
	}

	page, err := h.restocks.History(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Get returns one restock with its lines
// GET /api/v1/restocks/:id
// GET /api/v1/restocks/:id/receipt
func (h *RestockHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid restock ID")
		return
	}

	restock, err := h.restocks.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, restock)
}

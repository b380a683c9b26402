package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appcatalog "github.com/mjpos/backend/internal/application/catalog"
)

const maxPhotoBytes = 5 << 20

// ItemHandler exposes the product catalog
type ItemHandler struct {
	BaseHandler
	items *appcatalog.ItemService
}

func NewItemHandler(items *appcatalog.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// List returns a page of catalog items
// GET /api/v1/items
func (h *ItemHandler) List(c *gin.Context) {
	var req appcatalog.ListItemsRequest
	if !h.BindQuery(c, &req) {
		return
	}

	page, err := h.items.ListItems(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Create adds a catalog item
// POST /api/v1/items
func (h *ItemHandler) Create(c *gin.Context) {
	var req appcatalog.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.items.CreateItem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Get returns one item
// GET /api/v1/items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	item, err := h.items.GetItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update applies a partial update to an item
// PUT /api/v1/items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}
	var req appcatalog.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.items.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete removes an item without rolls or units
// DELETE /api/v1/items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	if err := h.items.DeleteItem(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// LowStock lists items at or below the threshold
// GET /api/v1/items/low-stock
func (h *ItemHandler) LowStock(c *gin.Context) {
	threshold := decimal.NewFromInt(5)
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			h.BadRequest(c, "Invalid threshold")
			return
		}
		threshold = parsed
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, err := h.items.LowStock(c.Request.Context(), threshold, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// UploadPhoto stores an item photo
// POST /api/v1/items/:id/photo
func (h *ItemHandler) UploadPhoto(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		h.BadRequest(c, "Missing photo file")
		return
	}
	defer file.Close()
	if header.Size > maxPhotoBytes {
		h.BadRequest(c, "Photo exceeds maximum size")
		return
	}

	item, err := h.items.UploadPhoto(c.Request.Context(), id,
		header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListRolls lists an item's rolls
// GET /api/v1/rolls/item/:itemId
func (h *ItemHandler) ListRolls(c *gin.Context) {
	itemID, err := parseUUIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	rolls, err := h.items.ListRolls(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rolls)
}

// AddRoll records an ad-hoc roll for a meter-tracked item
// POST /api/v1/rolls
func (h *ItemHandler) AddRoll(c *gin.Context) {
	var req appcatalog.AddRollRequest
	if !h.BindJSON(c, &req) {
		return
	}

	roll, err := h.items.AddRoll(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, roll)
}

// DeleteRoll removes an untouched roll
// DELETE /api/v1/rolls/:id
func (h *ItemHandler) DeleteRoll(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "Invalid roll ID")
		return
	}

	if err := h.items.DeleteRoll(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/application/report"
)

// StatsHandler exposes the dashboard overview and the receipts feed
type StatsHandler struct {
	BaseHandler
	stats *report.StatsService
}

func NewStatsHandler(stats *report.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Overview aggregates the last 30 days of trading
// GET /api/v1/stats/overview
func (h *StatsHandler) Overview(c *gin.Context) {
	threshold := decimal.Zero
	if raw := c.Query("low_stock_threshold"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			h.BadRequest(c, "Invalid low stock threshold")
			return
		}
		threshold = parsed
	}

	overview, err := h.stats.Overview(c.Request.Context(), threshold)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}

// Receipts merges sales and restocks into one feed
// GET /api/v1/receipts/history
func (h *StatsHandler) Receipts(c *gin.Context) {
	var req report.ReceiptsRequest
	if !h.BindQuery(c, &req) {
		return
	}

	page, err := h.stats.Receipts(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Health reports liveness
// GET /api/v1/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/shared"
)

// DailyTotal is one day's aggregate for the dashboard chart.
type DailyTotal struct {
	Day   time.Time       `json:"day"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// CashboxBalance is one drawer's current balance on the overview.
type CashboxBalance struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// LowStockItem flags an item running out.
type LowStockItem struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	StockUnit string          `json:"stock_unit"`
	Stock     decimal.Decimal `json:"stock"`
}

type Overview struct {
	From                time.Time       `json:"from"`
	To                  time.Time       `json:"to"`
	SalesTotal          decimal.Decimal `json:"sales_total"`
	SalesCount          int             `json:"sales_count"`
	RestockTotal        decimal.Decimal `json:"restock_total"`
	RestockCount        int             `json:"restock_count"`
	DailySales          []DailyTotal    `json:"daily_sales"`
	DailyRestocks       []DailyTotal    `json:"daily_restocks"`
	CashboxBalances     []CashboxBalance `json:"cashbox_balances"`
	SupplierOutstanding decimal.Decimal `json:"supplier_outstanding"`
	PendingReturns      int             `json:"pending_returns"`
	LowStock            []LowStockItem  `json:"low_stock"`
}

// Receipt is one row of the merged sales and restocks feed.
type Receipt struct {
	Kind    string          `json:"kind"`
	RefID   uuid.UUID       `json:"ref_id"`
	Date    time.Time       `json:"date"`
	Total   decimal.Decimal `json:"total"`
	Paid    decimal.Decimal `json:"paid"`
	Partner string          `json:"partner,omitempty"`
}

type ReceiptsRequest struct {
	Kind   string `form:"kind"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// StatsRepository answers the dashboard's aggregate queries, implemented with
// raw SQL in persistence.
type StatsRepository interface {
	DailySales(ctx context.Context, from, to time.Time) ([]DailyTotal, error)
	DailyRestocks(ctx context.Context, from, to time.Time) ([]DailyTotal, error)
	CashboxBalances(ctx context.Context) ([]CashboxBalance, error)
	SupplierOutstanding(ctx context.Context) (decimal.Decimal, error)
	PendingReturnCount(ctx context.Context) (int64, error)
	LowStock(ctx context.Context, threshold decimal.Decimal, limit int) ([]LowStockItem, error)
	Receipts(ctx context.Context, kind string, limit, offset int) ([]Receipt, int64, error)
}

const overviewWindowDays = 30

// StatsService builds the dashboard overview and the receipts feed.
type StatsService struct {
	stats StatsRepository
}

func NewStatsService(stats StatsRepository) *StatsService {
	return &StatsService{stats: stats}
}

// Overview aggregates the last 30 days of trading.
func (s *StatsService) Overview(ctx context.Context, lowStockThreshold decimal.Decimal) (*Overview, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -overviewWindowDays)

	dailySales, err := s.stats.DailySales(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	dailyRestocks, err := s.stats.DailyRestocks(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily restocks: %w", err)
	}
	balances, err := s.stats.CashboxBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("cashbox balances: %w", err)
	}
	outstanding, err := s.stats.SupplierOutstanding(ctx)
	if err != nil {
		return nil, fmt.Errorf("supplier outstanding: %w", err)
	}
	pending, err := s.stats.PendingReturnCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("pending returns: %w", err)
	}
	if lowStockThreshold.IsNegative() || lowStockThreshold.IsZero() {
		lowStockThreshold = decimal.NewFromInt(5)
	}
	lowStock, err := s.stats.LowStock(ctx, lowStockThreshold, 10)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}

	overview := &Overview{
		From:                from,
		To:                  to,
		DailySales:          dailySales,
		DailyRestocks:       dailyRestocks,
		CashboxBalances:     balances,
		SupplierOutstanding: outstanding,
		PendingReturns:      int(pending),
		LowStock:            lowStock,
		SalesTotal:          decimal.Zero,
		RestockTotal:        decimal.Zero,
	}
	for _, d := range dailySales {
		overview.SalesTotal = overview.SalesTotal.Add(d.Total)
		overview.SalesCount += d.Count
	}
	for _, d := range dailyRestocks {
		overview.RestockTotal = overview.RestockTotal.Add(d.Total)
		overview.RestockCount += d.Count
	}
	return overview, nil
}

// Receipts returns the merged feed of sales and restocks, newest first.
func (s *StatsService) Receipts(ctx context.Context, req ReceiptsRequest) (*shared.Paginated[Receipt], error) {
	switch req.Kind {
	case "", "sale", "restock":
	default:
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown receipt kind %q", req.Kind)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	receipts, total, err := s.stats.Receipts(ctx, req.Kind, limit, req.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return shared.NewPaginated(receipts, total, limit, req.Offset), nil
}

package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apppartner "github.com/mjpos/backend/internal/application/partner"
	"github.com/mjpos/backend/internal/application/report"
)

// GormStatsRepository answers dashboard aggregates with raw SQL. It backs both
// the overview queries and the supplier debt list.
type GormStatsRepository struct {
	db *gorm.DB
}

func NewGormStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

var (
	_ report.StatsRepository = (*GormStatsRepository)(nil)
	_ apppartner.DebtQueries = (*GormStatsRepository)(nil)
)

type dailyTotalRow struct {
	Day   time.Time
	Total decimal.Decimal
	Count int
}

func (r *GormStatsRepository) DailySales(ctx context.Context, from, to time.Time) ([]report.DailyTotal, error) {
	var rows []dailyTotalRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT DATE(created_at) AS day, COALESCE(SUM(total), 0) AS total, COUNT(*) AS count
		FROM transactions
		WHERE created_at >= ? AND created_at <= ?
		GROUP BY DATE(created_at)
		ORDER BY day ASC`, from, to).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return dailyTotals(rows), nil
}

func (r *GormStatsRepository) DailyRestocks(ctx context.Context, from, to time.Time) ([]report.DailyTotal, error) {
	var rows []dailyTotalRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT DATE(date) AS day, COALESCE(SUM(total), 0) AS total, COUNT(*) AS count
		FROM restocks
		WHERE date >= ? AND date <= ?
		GROUP BY DATE(date)
		ORDER BY day ASC`, from, to).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return dailyTotals(rows), nil
}

func dailyTotals(rows []dailyTotalRow) []report.DailyTotal {
	totals := make([]report.DailyTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, report.DailyTotal{
			Day:   row.Day,
			Total: row.Total,
			Count: row.Count,
		})
	}
	return totals
}

func (r *GormStatsRepository) CashboxBalances(ctx context.Context) ([]report.CashboxBalance, error) {
	var balances []report.CashboxBalance
	err := r.db.WithContext(ctx).Raw(`
		SELECT code, name, balance
		FROM cashboxes
		ORDER BY code ASC`).Scan(&balances).Error
	return balances, err
}

func (r *GormStatsRepository) SupplierOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(outstanding), 0) AS total
		FROM restocks
		WHERE outstanding > 0`).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *GormStatsRepository) PendingReturnCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM inventory_return_records WHERE status = 'pending'`).Scan(&count).Error
	return count, err
}

func (r *GormStatsRepository) LowStock(ctx context.Context, threshold decimal.Decimal, limit int) ([]report.LowStockItem, error) {
	var items []report.LowStockItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT i.id AS item_id, i.name, i.stock_unit,
		       CASE WHEN i.stock_unit = 'METER'
		            THEN COALESCE((SELECT SUM(r.remaining_m) FROM rolls r WHERE r.item_id = i.id), 0)
		            ELSE i.stock END AS stock
		FROM items i
		WHERE CASE WHEN i.stock_unit = 'METER'
		           THEN COALESCE((SELECT SUM(r.remaining_m) FROM rolls r WHERE r.item_id = i.id), 0)
		           ELSE i.stock END <= ?
		ORDER BY stock ASC, i.name ASC
		LIMIT ?`, threshold, limit).Scan(&items).Error
	return items, err
}

func (r *GormStatsRepository) Receipts(ctx context.Context, kind string, limit, offset int) ([]report.Receipt, int64, error) {
	feed := `
		SELECT 'sale' AS kind, t.id AS ref_id, t.created_at AS date, t.total, t.paid,
		       COALESCE(c.name, '') AS partner
		FROM transactions t
		LEFT JOIN customers c ON c.id = t.customer_id
		UNION ALL
		SELECT 'restock' AS kind, rs.id AS ref_id, rs.date AS date, rs.total, rs.paid,
		       COALESCE(s.name, '') AS partner
		FROM restocks rs
		LEFT JOIN suppliers s ON s.id = rs.supplier_id`

	query := `SELECT * FROM (` + feed + `) receipts`
	countQuery := `SELECT COUNT(*) FROM (` + feed + `) receipts`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = ?`
		countQuery += ` WHERE kind = ?`
		args = append(args, kind)
	}

	var total int64
	if err := r.db.WithContext(ctx).Raw(countQuery, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY date DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	var receipts []report.Receipt
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&receipts).Error; err != nil {
		return nil, 0, err
	}
	return receipts, total, nil
}

func (r *GormStatsRepository) SupplierDebts(ctx context.Context) ([]apppartner.SupplierDebtSummary, error) {
	var debts []apppartner.SupplierDebtSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.id AS supplier_id, s.name AS supplier_name,
		       COALESCE(SUM(r.outstanding), 0) AS outstanding,
		       COUNT(r.id) AS open_restocks,
		       MIN(r.date) AS oldest_debt
		FROM suppliers s
		JOIN restocks r ON r.supplier_id = s.id AND r.outstanding > 0
		GROUP BY s.id, s.name
		ORDER BY outstanding DESC`).Scan(&debts).Error
	return debts, err
}

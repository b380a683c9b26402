package finance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/finance"
	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/partner"
	"github.com/mjpos/backend/internal/domain/shared"
	"github.com/mjpos/backend/internal/domain/trade"
	"github.com/mjpos/backend/internal/infrastructure/persistence"
)

func setupFinanceDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Item{}, &catalog.Roll{},
		&inventory.InventoryUnit{}, &inventory.ReturnRecord{},
		&trade.Transaction{}, &trade.TransactionItem{}, &trade.TransactionItemUnit{},
		&trade.Restock{}, &trade.RestockItem{}, &trade.RestockRoll{},
		&partner.Customer{}, &partner.Supplier{},
		&finance.Cashbox{}, &finance.CashboxEntry{},
	)
	require.NoError(t, err)
	return db
}

func seedBox(t *testing.T, db *gorm.DB, code string, balance int64) *finance.Cashbox {
	box, err := finance.NewCashbox(code, "Cashbox "+code)
	require.NoError(t, err)
	box.Balance = decimal.NewFromInt(balance)
	require.NoError(t, db.Create(box).Error)
	return box
}

func financeDomainCode(t *testing.T, err error) string {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	return derr.Code
}

func TestCashboxService_List(t *testing.T) {
	ctx := context.Background()
	db := setupFinanceDB(t)
	seedBox(t, db, "C", 30)
	seedBox(t, db, "A", 10)
	seedBox(t, db, "B", 20)
	svc := NewCashboxService(persistence.NewGormTransactionScope(db))

	boxes, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, boxes, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{boxes[0].Code, boxes[1].Code, boxes[2].Code})
	assert.True(t, boxes[0].Balance.Equal(decimal.NewFromInt(10)))
}

func TestCashboxService_RecordManualEntry(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("income raises the balance and writes a ledger row", func(t *testing.T) {
		db := setupFinanceDB(t)
		box := seedBox(t, db, "A", 100)
		svc := NewCashboxService(persistence.NewGormTransactionScope(db))

		resp, err := svc.RecordManualEntry(ctx, userID, "A", ManualEntryRequest{
			Kind:   "income",
			Amount: decimal.NewFromInt(50),
			Note:   "opening float",
		})
		require.NoError(t, err)
		assert.True(t, resp.Balance.Equal(decimal.NewFromInt(150)))

		var entry finance.CashboxEntry
		require.NoError(t, db.First(&entry, "cashbox_id = ?", box.ID).Error)
		assert.Equal(t, finance.EntryIncome, entry.Kind)
		assert.Equal(t, finance.SourceManual, entry.Source)
		assert.Equal(t, "opening float", entry.Note)
		assert.Equal(t, userID, entry.UserID)
	})

	t.Run("expense lowers the balance", func(t *testing.T) {
		db := setupFinanceDB(t)
		seedBox(t, db, "A", 100)
		svc := NewCashboxService(persistence.NewGormTransactionScope(db))

		resp, err := svc.RecordManualEntry(ctx, userID, "A", ManualEntryRequest{
			Kind:   "expense",
			Amount: decimal.NewFromInt(40),
		})
		require.NoError(t, err)
		assert.True(t, resp.Balance.Equal(decimal.NewFromInt(60)))
	})

	t.Run("a drawer never goes negative", func(t *testing.T) {
		db := setupFinanceDB(t)
		box := seedBox(t, db, "A", 30)
		svc := NewCashboxService(persistence.NewGormTransactionScope(db))

		_, err := svc.RecordManualEntry(ctx, userID, "A", ManualEntryRequest{
			Kind:   "expense",
			Amount: decimal.NewFromInt(31),
		})
		assert.Equal(t, "INSUFFICIENT_BALANCE", financeDomainCode(t, err))

		// the failed movement leaves no trace
		var saved finance.Cashbox
		require.NoError(t, db.First(&saved, "id = ?", box.ID).Error)
		assert.True(t, saved.Balance.Equal(decimal.NewFromInt(30)))
		var count int64
		require.NoError(t, db.Model(&finance.CashboxEntry{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("rejects an unknown kind", func(t *testing.T) {
		db := setupFinanceDB(t)
		seedBox(t, db, "A", 10)
		svc := NewCashboxService(persistence.NewGormTransactionScope(db))

		_, err := svc.RecordManualEntry(ctx, userID, "A", ManualEntryRequest{
			Kind:   "transfer",
			Amount: decimal.NewFromInt(5),
		})
		assert.Equal(t, shared.CodeInvalidInput, financeDomainCode(t, err))
	})

	t.Run("fails for an unknown drawer", func(t *testing.T) {
		db := setupFinanceDB(t)
		svc := NewCashboxService(persistence.NewGormTransactionScope(db))

		_, err := svc.RecordManualEntry(ctx, userID, "Z", ManualEntryRequest{
			Kind:   "income",
			Amount: decimal.NewFromInt(5),
		})
		assert.Equal(t, shared.CodeNotFound, financeDomainCode(t, err))
	})
}

func TestCashboxService_Entries(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	db := setupFinanceDB(t)
	seedBox(t, db, "A", 1000)
	svc := NewCashboxService(persistence.NewGormTransactionScope(db))

	for i := 0; i < 3; i++ {
		_, err := svc.RecordManualEntry(ctx, userID, "A", ManualEntryRequest{
			Kind: "income", Amount: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
	}
	_, err := svc.RecordManualEntry(ctx, userID, "A", ManualEntryRequest{
		Kind: "expense", Amount: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	page, err := svc.Entries(ctx, "A", ListEntriesRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)

	page, err = svc.Entries(ctx, "A", ListEntriesRequest{Kind: "expense"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "expense", page.Items[0].Kind)

	page, err = svc.Entries(ctx, "A", ListEntriesRequest{Source: "manual", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Len(t, page.Items, 2)

	_, err = svc.Entries(ctx, "Z", ListEntriesRequest{})
	assert.Equal(t, shared.CodeNotFound, financeDomainCode(t, err))
}

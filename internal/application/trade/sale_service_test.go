package trade

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

func setupTradeDB(t *testing.T) *gorm.DB {
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

func seedCashbox(t *testing.T, db *gorm.DB, code string) *finance.Cashbox {
	box, err := finance.NewCashbox(code, "Cashbox "+code)
	require.NoError(t, err)
	require.NoError(t, db.Create(box).Error)
	return box
}

func seedEachItem(t *testing.T, db *gorm.DB, name string, stock int64) *catalog.Item {
	item, err := catalog.NewItem(name, catalog.CategoryInternet, catalog.UnitEach,
		decimal.NewFromInt(100), decimal.NewFromInt(80))
	require.NoError(t, err)
	item.Stock = decimal.NewFromInt(stock)
	require.NoError(t, db.Create(item).Error)
	return item
}

func seedMeterItem(t *testing.T, db *gorm.DB, name string) *catalog.Item {
	item, err := catalog.NewItem(name, catalog.CategoryInternet, catalog.UnitMeter,
		decimal.NewFromInt(10), decimal.NewFromInt(8))
	require.NoError(t, err)
	require.NoError(t, db.Create(item).Error)
	return item
}

func seedAvailableUnit(t *testing.T, db *gorm.DB, itemID uuid.UUID, barcode string) *inventory.InventoryUnit {
	unit, err := inventory.NewUnit(itemID, barcode, decimal.NewFromInt(60))
	require.NoError(t, err)
	require.NoError(t, db.Create(unit).Error)
	return unit
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	return derr.Code
}

func TestSaleService_Checkout(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("sells a serialized unit", func(t *testing.T) {
		db := setupTradeDB(t)
		seedCashbox(t, db, "A")
		item := seedEachItem(t, db, "Router X", 1)
		unit := seedAvailableUnit(t, db, item.ID, "RTR-001")
		svc := NewSaleService(persistence.NewGormTransactionScope(db))

		resp, err := svc.Checkout(ctx, userID, CheckoutRequest{
			Paid:        decimal.NewFromInt(100),
			CashboxCode: "A",
			Lines: []SaleLineRequest{
				{ItemID: item.ID, Mode: "EACH", UnitIDs: []uuid.UUID{unit.ID}},
			},
		})
		require.NoError(t, err)
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, "PAID", resp.PaymentStatus)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, []uuid.UUID{unit.ID}, resp.Lines[0].UnitIDs)

		var savedUnit inventory.InventoryUnit
		require.NoError(t, db.First(&savedUnit, "id = ?", unit.ID).Error)
		assert.Equal(t, inventory.UnitSold, savedUnit.Status)

		var savedItem catalog.Item
		require.NoError(t, db.First(&savedItem, "id = ?", item.ID).Error)
		assert.True(t, savedItem.Stock.IsZero())

		var box finance.Cashbox
		require.NoError(t, db.First(&box, "code = ?", "A").Error)
		assert.True(t, box.Balance.Equal(decimal.NewFromInt(100)))

		var entries int64
		require.NoError(t, db.Model(&finance.CashboxEntry{}).
			Where("source = ?", finance.SourceSale).Count(&entries).Error)
		assert.Equal(t, int64(1), entries)
	})

	t.Run("sells by barcode", func(t *testing.T) {
		db := setupTradeDB(t)
		seedCashbox(t, db, "A")
		item := seedEachItem(t, db, "Router X", 1)
		seedAvailableUnit(t, db, item.ID, "RTR-002")
		svc := NewSaleService(persistence.NewGormTransactionScope(db))

		resp, err := svc.Checkout(ctx, userID, CheckoutRequest{
			Paid:        decimal.NewFromInt(100),
			CashboxCode: "A",
			Lines: []SaleLineRequest{
				{ItemID: item.ID, Mode: "EACH", Barcodes: []string{"RTR-002"}},
			},
		})
		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		require.Len(t, resp.Lines[0].UnitIDs, 1)
	})

	t.Run("rejects a unit already sold on another sale", func(t *testing.T) {
		db := setupTradeDB(t)
		seedCashbox(t, db, "A")
		item := seedEachItem(t, db, "Router X", 2)
		unit := seedAvailableUnit(t, db, item.ID, "RTR-003")
		svc := NewSaleService(persistence.NewGormTransactionScope(db))

		line := SaleLineRequest{ItemID: item.ID, Mode: "EACH", UnitIDs: []uuid.UUID{unit.ID}}
		_, err := svc.Checkout(ctx, userID, CheckoutRequest{
			Paid: decimal.NewFromInt(100), CashboxCode: "A", Lines: []SaleLineRequest{line},
		})
		require.NoError(t, err)

		_, err = svc.Checkout(ctx, userID, CheckoutRequest{
			Paid: decimal.NewFromInt(100), CashboxCode: "A", Lines: []SaleLineRequest{line},
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeConflict, domainCode(t, err))
	})

	t.Run("legacy quantity line decrements aggregate stock", func(t *testing.T) {
		db := setupTradeDB(t)
		seedCashbox(t, db, "A")
		item := seedEachItem(t, db, "Cable Tie", 5)
		svc := NewSaleService(persistence.NewGormTransactionScope(db))

		_, err := svc.Checkout(ctx, userID, CheckoutRequest{
			Paid:        decimal.NewFromInt(200),
			CashboxCode: "A",
			Lines: []SaleLineRequest{
				{ItemID: item.ID, Mode: "EACH", Quantity: 2},
			},
		})
		require.NoError(t, err)

		var savedItem catalog.Item
		require.NoError(t, db.First(&savedItem, "id = ?", item.ID).Error)
		assert.True(t, savedItem.Stock.Equal(decimal.NewFromInt(3)))
	})

	t.Run("rejects oversell of aggregate stock", func(t *testing.T) {
		db := setupTradeDB(t)
		seedCashbox(t, db, "A")
		item := seedEachItem(t, db, "Cable Tie", 1)
		svc := NewSaleService(persistence.NewGormTransactionScope(db))

		_, err := svc.Checkout(ctx, userID, CheckoutRequest{
			CashboxCode: "A",
			Lines: []SaleLineRequest{
				{ItemID: item.ID, Mode: "EACH", Quantity: 2},
			},
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInsufficientStock, domainCode(t, err))
	})

	t.Run("cuts a meter line from a roll", func(t *testing.T) {
		db := setupTradeDB(t)
		seedCashbox(t, db, "A")
		item := seedMeterItem(t, db, "Cat6 Cable")
		roll, err := catalog.NewRoll(item.ID, decimal.RequireFromString("10.5"))
		require.NoError(t, err)
		require.NoError(t, db.Create(roll).Error)
		svc := NewSaleService(persistence.NewGormTransactionScope(db))

		resp, err := svc.Checkout(ctx, userID, CheckoutRequest{
			CashboxCode: "A",
			Lines: []SaleLineRequest{
				{ItemID: item.ID, Mode: "METER", LengthM: decimal.NewFromInt(3), RollID: &roll.ID},
			},
		})
		require.NoError(t, err)
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(30)))

		var savedRoll catalog.Roll
		require.NoError(t, db.First(&savedRoll, "id = ?", roll.ID).Error)
		assert.True(t, savedRoll.RemainingM.Equal(decimal.RequireFromString("7.5")))
	})

	t.Run("rejects a cut longer than the roll", func(t *testing.T) {
		db := setupTradeDB(t)
		seedCashbox(t, db, "A")
		item := seedMeterItem(t, db, "Cat6 Cable")
		roll, err := catalog.NewRoll(item.ID, decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NoError(t, db.Create(roll).Error)
		svc := NewSaleService(persistence.NewGormTransactionScope(db))

		_, err = svc.Checkout(ctx, userID, CheckoutRequest{
			CashboxCode: "A",
			Lines: []SaleLineRequest{
				{ItemID: item.ID, Mode: "METER", LengthM: decimal.NewFromInt(6), RollID: &roll.ID},
			},
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInsufficientStock, domainCode(t, err))
	})

	t.Run("partial payment derives PARTIAL status", func(t *testing.T) {
		db := setupTradeDB(t)
		seedCashbox(t, db, "B")
		item := seedEachItem(t, db, "Router X", 1)
		unit := seedAvailableUnit(t, db, item.ID, "RTR-004")
		svc := NewSaleService(persistence.NewGormTransactionScope(db))

		resp, err := svc.Checkout(ctx, userID, CheckoutRequest{
			Paid:        decimal.NewFromInt(40),
			CashboxCode: "B",
			Lines: []SaleLineRequest{
				{ItemID: item.ID, Mode: "EACH", UnitIDs: []uuid.UUID{unit.ID}},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "PARTIAL", resp.PaymentStatus)
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		db := setupTradeDB(t)
		svc := NewSaleService(persistence.NewGormTransactionScope(db))

		_, err := svc.Checkout(ctx, userID, CheckoutRequest{CashboxCode: "A"})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidInput, domainCode(t, err))
	})
}

func TestSaleService_Edit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	checkout := func(t *testing.T, svc *SaleService, item *catalog.Item, unit *inventory.InventoryUnit, paid int64) *TransactionResponse {
		resp, err := svc.Checkout(ctx, userID, CheckoutRequest{
			Paid:        decimal.NewFromInt(paid),
			CashboxCode: "A",
			Lines: []SaleLineRequest{
				{ItemID: item.ID, Mode: "EACH", UnitIDs: []uuid.UUID{unit.ID}},
			},
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("rejects a too-short edit note", func(t *testing.T) {
		db := setupTradeDB(t)
		seedCashbox(t, db, "A")
		item := seedEachItem(t, db, "Router X", 1)
		unit := seedAvailableUnit(t, db, item.ID, "RTR-010")
		svc := NewSaleService(persistence.NewGormTransactionScope(db))
		sale := checkout(t, svc, item, unit, 100)

		_, err := svc.Edit(ctx, userID, sale.ID, EditTransactionRequest{
			EditNote: "no",
			Lines: []SaleLineRequest{
				{ItemID: item.ID, Mode: "EACH", UnitIDs: []uuid.UUID{unit.ID}},
			},
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidInput, domainCode(t, err))
	})

	t.Run("swapping units releases the dropped unit", func(t *testing.T) {
		db := setupTradeDB(t)
		seedCashbox(t, db, "A")
		item := seedEachItem(t, db, "Router X", 2)
		first := seedAvailableUnit(t, db, item.ID, "RTR-011")
		second := seedAvailableUnit(t, db, item.ID, "RTR-012")
		svc := NewSaleService(persistence.NewGormTransactionScope(db))
		sale := checkout(t, svc, item, first, 100)

		resp, err := svc.Edit(ctx, userID, sale.ID, EditTransactionRequest{
			EditNote: "customer swapped the box",
			Lines: []SaleLineRequest{
				{ItemID: item.ID, Mode: "EACH", UnitIDs: []uuid.UUID{second.ID}},
			},
		})
		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, []uuid.UUID{second.ID}, resp.Lines[0].UnitIDs)

		var dropped, added inventory.InventoryUnit
		require.NoError(t, db.First(&dropped, "id = ?", first.ID).Error)
		require.NoError(t, db.First(&added, "id = ?", second.ID).Error)
		assert.Equal(t, inventory.UnitAvailable, dropped.Status)
		assert.Equal(t, inventory.UnitSold, added.Status)

		// one out, one in: aggregate stock unchanged
		var savedItem catalog.Item
		require.NoError(t, db.First(&savedItem, "id = ?", item.ID).Error)
		assert.True(t, savedItem.Stock.Equal(decimal.NewFromInt(1)))
	})

	t.Run("raising paid posts the cash delta", func(t *testing.T) {
		db := setupTradeDB(t)
		seedCashbox(t, db, "A")
		item := seedEachItem(t, db, "Router X", 1)
		unit := seedAvailableUnit(t, db, item.ID, "RTR-013")
		svc := NewSaleService(persistence.NewGormTransactionScope(db))
		sale := checkout(t, svc, item, unit, 40)

		newPaid := decimal.NewFromInt(100)
		resp, err := svc.Edit(ctx, userID, sale.ID, EditTransactionRequest{
			EditNote: "settled the balance",
			Paid:     &newPaid,
			Lines: []SaleLineRequest{
				{ItemID: item.ID, Mode: "EACH", UnitIDs: []uuid.UUID{unit.ID}},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "PAID", resp.PaymentStatus)

		var box finance.Cashbox
		require.NoError(t, db.First(&box, "code = ?", "A").Error)
		assert.True(t, box.Balance.Equal(decimal.NewFromInt(100)))
	})

	t.Run("kept unit survives the amendment untouched", func(t *testing.T) {
		db := setupTradeDB(t)
		seedCashbox(t, db, "A")
		item := seedEachItem(t, db, "Router X", 1)
		unit := seedAvailableUnit(t, db, item.ID, "RTR-014")
		svc := NewSaleService(persistence.NewGormTransactionScope(db))
		sale := checkout(t, svc, item, unit, 100)

		resp, err := svc.Edit(ctx, userID, sale.ID, EditTransactionRequest{
			EditNote: "note fixed",
			Lines: []SaleLineRequest{
				{ItemID: item.ID, Mode: "EACH", UnitIDs: []uuid.UUID{unit.ID}},
			},
		})
		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)

		var savedUnit inventory.InventoryUnit
		require.NoError(t, db.First(&savedUnit, "id = ?", unit.ID).Error)
		assert.Equal(t, inventory.UnitSold, savedUnit.Status)

		var savedItem catalog.Item
		require.NoError(t, db.First(&savedItem, "id = ?", item.ID).Error)
		assert.True(t, savedItem.Stock.IsZero())
	})
}

func TestSaleService_Recent(t *testing.T) {
	ctx := context.Background()
	db := setupTradeDB(t)
	seedCashbox(t, db, "A")
	item := seedEachItem(t, db, "Router X", 3)
	svc := NewSaleService(persistence.NewGormTransactionScope(db))

	for i := 0; i < 3; i++ {
		_, err := svc.Checkout(ctx, uuid.New(), CheckoutRequest{
			Paid:        decimal.NewFromInt(100),
			CashboxCode: "A",
			Lines:       []SaleLineRequest{{ItemID: item.ID, Mode: "EACH", Quantity: 1}},
		})
		require.NoError(t, err)
	}

	page, err := svc.Recent(ctx, ListTransactionsRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
}

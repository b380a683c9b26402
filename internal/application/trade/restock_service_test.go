package trade

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/finance"
	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/partner"
	"github.com/mjpos/backend/internal/domain/shared"
	"github.com/mjpos/backend/internal/infrastructure/persistence"
)

func TestRestockService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("EACH line with no serials creates one placeholder unit per piece", func(t *testing.T) {
		db := setupTradeDB(t)
		item := seedEachItem(t, db, "Router X", 0)
		svc := NewRestockService(persistence.NewGormTransactionScope(db))

		resp, err := svc.Create(ctx, userID, CreateRestockRequest{
			Date: time.Now(),
			Lines: []RestockLineRequest{
				{ItemID: &item.ID, Mode: "EACH", Quantity: 5,
					UnitCost: decimal.NewFromInt(60)},
			},
		})
		require.NoError(t, err)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, "UNPAID", resp.PaymentStatus)

		var savedItem catalog.Item
		require.NoError(t, db.First(&savedItem, "id = ?", item.ID).Error)
		assert.True(t, savedItem.Stock.Equal(decimal.NewFromInt(5)))

		var units []inventory.InventoryUnit
		require.NoError(t, db.Find(&units, "item_id = ?", item.ID).Error)
		require.Len(t, units, 5)
		for _, u := range units {
			assert.True(t, u.IsPlaceholder)
			assert.Equal(t, inventory.UnitAvailable, u.Status)
			assert.NotEmpty(t, u.Barcode)
		}
	})

	t.Run("EACH line with explicit serials keeps them", func(t *testing.T) {
		db := setupTradeDB(t)
		item := seedEachItem(t, db, "Router X", 0)
		svc := NewRestockService(persistence.NewGormTransactionScope(db))

		_, err := svc.Create(ctx, userID, CreateRestockRequest{
			Date: time.Now(),
			Lines: []RestockLineRequest{
				{ItemID: &item.ID, Mode: "EACH", Serials: []string{"SN-1", "SN-2"},
					UnitCost: decimal.NewFromInt(60)},
			},
		})
		require.NoError(t, err)

		var units []inventory.InventoryUnit
		require.NoError(t, db.Order("barcode asc").Find(&units, "item_id = ?", item.ID).Error)
		require.Len(t, units, 2)
		assert.Equal(t, "SN-1", units[0].Barcode)
		assert.False(t, units[0].IsPlaceholder)
	})

	t.Run("rejects serial count mismatching quantity", func(t *testing.T) {
		db := setupTradeDB(t)
		item := seedEachItem(t, db, "Router X", 0)
		svc := NewRestockService(persistence.NewGormTransactionScope(db))

		_, err := svc.Create(ctx, userID, CreateRestockRequest{
			Date: time.Now(),
			Lines: []RestockLineRequest{
				{ItemID: &item.ID, Mode: "EACH", Quantity: 3, Serials: []string{"SN-1"}},
			},
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidInput, domainCode(t, err))
	})

	t.Run("METER line creates one roll and one unit per length", func(t *testing.T) {
		db := setupTradeDB(t)
		item := seedMeterItem(t, db, "Cat6 Cable")
		svc := NewRestockService(persistence.NewGormTransactionScope(db))

		resp, err := svc.Create(ctx, userID, CreateRestockRequest{
			Date: time.Now(),
			Lines: []RestockLineRequest{
				{ItemID: &item.ID, Mode: "METER",
					NewRolls: []decimal.Decimal{decimal.RequireFromString("10.5"), decimal.RequireFromString("5.25")},
					UnitCost: decimal.NewFromInt(2)},
			},
		})
		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.Len(t, resp.Lines[0].RollIDs, 2)

		var rolls []catalog.Roll
		require.NoError(t, db.Find(&rolls, "item_id = ?", item.ID).Error)
		require.Len(t, rolls, 2)

		var units []inventory.InventoryUnit
		require.NoError(t, db.Find(&units, "item_id = ?", item.ID).Error)
		require.Len(t, units, 2)
		for _, u := range units {
			require.NotNil(t, u.RollID)
			require.NotNil(t, u.RestockItemID)
		}

		// meter stock lives on rolls, the aggregate counter stays put
		var savedItem catalog.Item
		require.NoError(t, db.First(&savedItem, "id = ?", item.ID).Error)
		assert.True(t, savedItem.Stock.IsZero())
	})

	t.Run("rejects a METER line on a piece-tracked item", func(t *testing.T) {
		db := setupTradeDB(t)
		item := seedEachItem(t, db, "Router X", 0)
		svc := NewRestockService(persistence.NewGormTransactionScope(db))

		_, err := svc.Create(ctx, userID, CreateRestockRequest{
			Date: time.Now(),
			Lines: []RestockLineRequest{
				{ItemID: &item.ID, Mode: "METER", NewRolls: []decimal.Decimal{decimal.NewFromInt(10)}},
			},
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidInput, domainCode(t, err))
	})

	t.Run("immediate payment posts a cashbox expense", func(t *testing.T) {
		db := setupTradeDB(t)
		box := seedCashbox(t, db, "A")
		box.Balance = decimal.NewFromInt(500)
		require.NoError(t, db.Save(box).Error)
		item := seedEachItem(t, db, "Router X", 0)
		svc := NewRestockService(persistence.NewGormTransactionScope(db))

		resp, err := svc.Create(ctx, userID, CreateRestockRequest{
			Date:        time.Now(),
			Paid:        decimal.NewFromInt(120),
			CashboxCode: "A",
			Lines: []RestockLineRequest{
				{ItemID: &item.ID, Mode: "EACH", Quantity: 2, UnitCost: decimal.NewFromInt(60)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "PAID", resp.PaymentStatus)
		assert.True(t, resp.Outstanding.IsZero())

		var savedBox finance.Cashbox
		require.NoError(t, db.First(&savedBox, "code = ?", "A").Error)
		assert.True(t, savedBox.Balance.Equal(decimal.NewFromInt(380)))

		var entries int64
		require.NoError(t, db.Model(&finance.CashboxEntry{}).
			Where("source = ? AND kind = ?", finance.SourceRestock, finance.EntryExpense).
			Count(&entries).Error)
		assert.Equal(t, int64(1), entries)
	})

	t.Run("creates the supplier by name on the fly", func(t *testing.T) {
		db := setupTradeDB(t)
		item := seedEachItem(t, db, "Router X", 0)
		svc := NewRestockService(persistence.NewGormTransactionScope(db))

		resp, err := svc.Create(ctx, userID, CreateRestockRequest{
			SupplierName: "Acme Wholesale",
			Date:         time.Now(),
			Lines: []RestockLineRequest{
				{ItemID: &item.ID, Mode: "EACH", Quantity: 1, UnitCost: decimal.NewFromInt(60)},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, resp.SupplierID)

		var supplier partner.Supplier
		require.NoError(t, db.First(&supplier, "name = ?", "Acme Wholesale").Error)
		assert.Equal(t, supplier.ID, *resp.SupplierID)
	})

	t.Run("creates a new item from the line spec", func(t *testing.T) {
		db := setupTradeDB(t)
		svc := NewRestockService(persistence.NewGormTransactionScope(db))

		resp, err := svc.Create(ctx, userID, CreateRestockRequest{
			Date: time.Now(),
			Lines: []RestockLineRequest{
				{Mode: "EACH", Quantity: 3, UnitCost: decimal.NewFromInt(10),
					NewItem: &NewItemSpec{
						Name:        "Solar Panel S",
						Category:    "solar",
						RetailPrice: decimal.NewFromInt(20),
					}},
			},
		})
		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)

		var created catalog.Item
		require.NoError(t, db.First(&created, "name = ?", "Solar Panel S").Error)
		assert.Equal(t, catalog.UnitEach, created.StockUnit)
		assert.True(t, created.Stock.Equal(decimal.NewFromInt(3)))
	})

	t.Run("rejects an unknown supplier id", func(t *testing.T) {
		db := setupTradeDB(t)
		item := seedEachItem(t, db, "Router X", 0)
		svc := NewRestockService(persistence.NewGormTransactionScope(db))
		missing := uuid.New()

		_, err := svc.Create(ctx, userID, CreateRestockRequest{
			SupplierID: &missing,
			Date:       time.Now(),
			Lines: []RestockLineRequest{
				{ItemID: &item.ID, Mode: "EACH", Quantity: 1},
			},
		})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidInput, domainCode(t, err))
	})
}

func TestRestockService_History(t *testing.T) {
	ctx := context.Background()
	db := setupTradeDB(t)
	item := seedEachItem(t, db, "Router X", 0)
	supplier, err := partner.NewSupplier("Acme Wholesale", "", "")
	require.NoError(t, err)
	require.NoError(t, db.Create(supplier).Error)
	svc := NewRestockService(persistence.NewGormTransactionScope(db))

	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, uuid.New(), CreateRestockRequest{
			SupplierID: &supplier.ID,
			Date:       time.Now(),
			Lines: []RestockLineRequest{
				{ItemID: &item.ID, Mode: "EACH", Quantity: 1, UnitCost: decimal.NewFromInt(60)},
			},
		})
		require.NoError(t, err)
	}
	_, err = svc.Create(ctx, uuid.New(), CreateRestockRequest{
		Date: time.Now(),
		Lines: []RestockLineRequest{
			{ItemID: &item.ID, Mode: "EACH", Quantity: 1, UnitCost: decimal.NewFromInt(60)},
		},
	})
	require.NoError(t, err)

	t.Run("filters by supplier", func(t *testing.T) {
		page, err := svc.History(ctx, RestockHistoryRequest{SupplierID: &supplier.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("lists everything without filters", func(t *testing.T) {
		page, err := svc.History(ctx, RestockHistoryRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
	})
}

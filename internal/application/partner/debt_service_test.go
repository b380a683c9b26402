package partner_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apppartner "github.com/mjpos/backend/internal/application/partner"
	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/finance"
	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/partner"
	"github.com/mjpos/backend/internal/domain/shared"
	"github.com/mjpos/backend/internal/domain/trade"
	"github.com/mjpos/backend/internal/infrastructure/persistence"
)

type MockDebtQueries struct {
	mock.Mock
}

func (m *MockDebtQueries) SupplierDebts(ctx context.Context) ([]apppartner.SupplierDebtSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]apppartner.SupplierDebtSummary), args.Error(1)
}

func setupPartnerDB(t *testing.T) *gorm.DB {
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

func seedSupplier(t *testing.T, db *gorm.DB, name string) *partner.Supplier {
	supplier, err := partner.NewSupplier(name, "", "")
	require.NoError(t, err)
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

func seedCashboxA(t *testing.T, db *gorm.DB, balance int64) *finance.Cashbox {
	box, err := finance.NewCashbox("A", "Cashbox A")
	require.NoError(t, err)
	box.Balance = decimal.NewFromInt(balance)
	require.NoError(t, db.Create(box).Error)
	return box
}

// seedDebt books an unpaid delivery of the given total on the given day.
func seedDebt(t *testing.T, db *gorm.DB, supplierID uuid.UUID, date time.Time, total int64) *trade.Restock {
	item, err := catalog.NewItem("Stock "+uuid.NewString()[:8], catalog.CategoryInternet,
		catalog.UnitEach, decimal.NewFromInt(10), decimal.NewFromInt(8))
	require.NoError(t, err)
	require.NoError(t, db.Create(item).Error)

	restock, err := trade.NewRestock(&supplierID, uuid.New(), date, decimal.Zero, decimal.Zero, "", "")
	require.NoError(t, err)
	_, err = restock.AddEachLine(item.ID, 1, decimal.NewFromInt(total))
	require.NoError(t, err)
	require.NoError(t, restock.Finalize())
	require.NoError(t, db.Session(&gorm.Session{FullSaveAssociations: true}).Create(restock).Error)
	return restock
}

func partnerDomainCode(t *testing.T, err error) string {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	return derr.Code
}

func TestDebtService_ListDebts(t *testing.T) {
	ctx := context.Background()
	queries := new(MockDebtQueries)
	svc := apppartner.NewDebtService(nil, queries)

	summaries := []apppartner.SupplierDebtSummary{
		{SupplierID: uuid.New(), SupplierName: "Acme", Outstanding: decimal.NewFromInt(300), OpenRestocks: 2},
	}
	queries.On("SupplierDebts", ctx).Return(summaries, nil)

	debts, err := svc.ListDebts(ctx)
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, "Acme", debts[0].SupplierName)
	queries.AssertExpectations(t)
}

func TestDebtService_GetDebt(t *testing.T) {
	ctx := context.Background()

	t.Run("sums a supplier's open deliveries", func(t *testing.T) {
		db := setupPartnerDB(t)
		supplier := seedSupplier(t, db, "Acme")
		day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		seedDebt(t, db, supplier.ID, day, 100)
		seedDebt(t, db, supplier.ID, day.AddDate(0, 0, 5), 250)
		svc := apppartner.NewDebtService(persistence.NewGormTransactionScope(db), nil)

		detail, err := svc.GetDebt(ctx, supplier.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", detail.SupplierName)
		assert.True(t, detail.Outstanding.Equal(decimal.NewFromInt(350)))
		require.Len(t, detail.Restocks, 2)
		// oldest delivery first
		assert.True(t, detail.Restocks[0].Outstanding.Equal(decimal.NewFromInt(100)))
	})

	t.Run("fails for an unknown supplier", func(t *testing.T) {
		db := setupPartnerDB(t)
		svc := apppartner.NewDebtService(persistence.NewGormTransactionScope(db), nil)

		_, err := svc.GetDebt(ctx, uuid.New())
		assert.Equal(t, shared.CodeNotFound, partnerDomainCode(t, err))
	})
}

func TestDebtService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("settles the oldest delivery first", func(t *testing.T) {
		db := setupPartnerDB(t)
		supplier := seedSupplier(t, db, "Acme")
		box := seedCashboxA(t, db, 1000)
		day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		oldest := seedDebt(t, db, supplier.ID, day, 100)
		newer := seedDebt(t, db, supplier.ID, day.AddDate(0, 0, 7), 200)
		svc := apppartner.NewDebtService(persistence.NewGormTransactionScope(db), nil)

		result, err := svc.RecordPayment(ctx, userID, supplier.ID, apppartner.RecordPaymentRequest{
			Amount:      decimal.NewFromInt(150),
			CashboxCode: "A",
		})
		require.NoError(t, err)
		assert.True(t, result.Applied.Equal(decimal.NewFromInt(150)))
		assert.True(t, result.Outstanding.Equal(decimal.NewFromInt(150)))
		require.Len(t, result.Allocations, 2)
		assert.Equal(t, oldest.ID, result.Allocations[0].RestockID)
		assert.True(t, result.Allocations[0].Applied.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, newer.ID, result.Allocations[1].RestockID)
		assert.True(t, result.Allocations[1].Applied.Equal(decimal.NewFromInt(50)))

		var savedOldest trade.Restock
		require.NoError(t, db.First(&savedOldest, "id = ?", oldest.ID).Error)
		assert.Equal(t, trade.PaymentPaid, savedOldest.PaymentStatus)
		assert.True(t, savedOldest.Outstanding.IsZero())

		var savedBox finance.Cashbox
		require.NoError(t, db.First(&savedBox, "id = ?", box.ID).Error)
		assert.True(t, savedBox.Balance.Equal(decimal.NewFromInt(850)))

		var entry finance.CashboxEntry
		require.NoError(t, db.First(&entry, "source = ?", finance.SourceSupplierPayment).Error)
		assert.Equal(t, finance.EntryExpense, entry.Kind)
		require.NotNil(t, entry.RefID)
		assert.Equal(t, supplier.ID, *entry.RefID)
	})

	t.Run("caps the payment at the supplier's debt", func(t *testing.T) {
		db := setupPartnerDB(t)
		supplier := seedSupplier(t, db, "Acme")
		seedCashboxA(t, db, 1000)
		seedDebt(t, db, supplier.ID, time.Now(), 80)
		svc := apppartner.NewDebtService(persistence.NewGormTransactionScope(db), nil)

		result, err := svc.RecordPayment(ctx, userID, supplier.ID, apppartner.RecordPaymentRequest{
			Amount:      decimal.NewFromInt(500),
			CashboxCode: "A",
		})
		require.NoError(t, err)
		assert.True(t, result.Applied.Equal(decimal.NewFromInt(80)))
		assert.True(t, result.Outstanding.IsZero())
	})

	t.Run("rejects paying a supplier with no debt", func(t *testing.T) {
		db := setupPartnerDB(t)
		supplier := seedSupplier(t, db, "Acme")
		seedCashboxA(t, db, 1000)
		svc := apppartner.NewDebtService(persistence.NewGormTransactionScope(db), nil)

		_, err := svc.RecordPayment(ctx, userID, supplier.ID, apppartner.RecordPaymentRequest{
			Amount:      decimal.NewFromInt(10),
			CashboxCode: "A",
		})
		assert.Equal(t, shared.CodeInvalidState, partnerDomainCode(t, err))
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		svc := apppartner.NewDebtService(nil, nil)

		_, err := svc.RecordPayment(ctx, userID, uuid.New(), apppartner.RecordPaymentRequest{
			Amount:      decimal.Zero,
			CashboxCode: "A",
		})
		assert.Equal(t, shared.CodeInvalidInput, partnerDomainCode(t, err))
	})

	t.Run("an underfunded drawer rolls the whole payment back", func(t *testing.T) {
		db := setupPartnerDB(t)
		supplier := seedSupplier(t, db, "Acme")
		seedCashboxA(t, db, 10)
		restock := seedDebt(t, db, supplier.ID, time.Now(), 100)
		svc := apppartner.NewDebtService(persistence.NewGormTransactionScope(db), nil)

		_, err := svc.RecordPayment(ctx, userID, supplier.ID, apppartner.RecordPaymentRequest{
			Amount:      decimal.NewFromInt(100),
			CashboxCode: "A",
		})
		require.Error(t, err)

		var saved trade.Restock
		require.NoError(t, db.First(&saved, "id = ?", restock.ID).Error)
		assert.True(t, saved.Outstanding.Equal(decimal.NewFromInt(100)))
	})
}

package persistence

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
	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/shared"
	"github.com/mjpos/backend/internal/domain/trade"
)

func setupRepositoryDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Item{}, &catalog.Roll{},
		&inventory.InventoryUnit{}, &inventory.ReturnRecord{},
		&trade.Transaction{}, &trade.TransactionItem{}, &trade.TransactionItemUnit{},
		&trade.Restock{}, &trade.RestockItem{}, &trade.RestockRoll{},
	)
	require.NoError(t, err)
	return db
}

func createItem(t *testing.T, db *gorm.DB) *catalog.Item {
	item, err := catalog.NewItem("Router", catalog.CategoryInternet, catalog.UnitEach,
		decimal.NewFromInt(100), decimal.NewFromInt(80))
	require.NoError(t, err)
	require.NoError(t, db.Create(item).Error)
	return item
}

func createUnit(t *testing.T, db *gorm.DB, itemID uuid.UUID, barcode string) *inventory.InventoryUnit {
	unit, err := inventory.NewUnit(itemID, barcode, decimal.NewFromInt(60))
	require.NoError(t, err)
	require.NoError(t, db.Create(unit).Error)
	return unit
}

func TestGormInventoryUnitRepository_FindByBarcode(t *testing.T) {
	ctx := context.Background()
	db := setupRepositoryDB(t)
	repo := NewGormInventoryUnitRepository(db)
	item := createItem(t, db)
	unit := createUnit(t, db, item.ID, "SN-42")

	found, err := repo.FindByBarcode(ctx, "SN-42")
	require.NoError(t, err)
	assert.Equal(t, unit.ID, found.ID)

	_, err = repo.FindByBarcode(ctx, "SN-404")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInventoryUnitRepository_FindByRoll(t *testing.T) {
	ctx := context.Background()
	db := setupRepositoryDB(t)
	repo := NewGormInventoryUnitRepository(db)
	item := createItem(t, db)

	roll, err := catalog.NewRoll(item.ID, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, db.Create(roll).Error)
	unit, err := inventory.NewRollUnit(item.ID, roll.ID, "", decimal.NewFromInt(20))
	require.NoError(t, err)
	require.NoError(t, db.Create(unit).Error)

	found, err := repo.FindByRoll(ctx, roll.ID)
	require.NoError(t, err)
	assert.Equal(t, unit.ID, found.ID)

	_, err = repo.FindByRoll(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInventoryUnitRepository_CountByRestockItem(t *testing.T) {
	ctx := context.Background()
	db := setupRepositoryDB(t)
	repo := NewGormInventoryUnitRepository(db)
	item := createItem(t, db)

	lineID := uuid.New()
	for i := 0; i < 2; i++ {
		unit, err := inventory.NewUnit(item.ID, "", decimal.NewFromInt(60))
		require.NoError(t, err)
		id := lineID
		unit.RestockItemID = &id
		require.NoError(t, db.Create(unit).Error)
	}
	createUnit(t, db, item.ID, "SN-other")

	count, err := repo.CountByRestockItem(ctx, lineID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormInventoryUnitRepository_FindByItem(t *testing.T) {
	ctx := context.Background()
	db := setupRepositoryDB(t)
	repo := NewGormInventoryUnitRepository(db)
	item := createItem(t, db)

	createUnit(t, db, item.ID, "SN-1")
	sold := createUnit(t, db, item.ID, "SN-2")
	sold.Status = inventory.UnitSold
	require.NoError(t, db.Save(sold).Error)

	filter := shared.DefaultFilter()
	filter.WithFilter("status", string(inventory.UnitSold))
	units, total, err := repo.FindByItem(ctx, item.ID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, units, 1)
	assert.Equal(t, "SN-2", units[0].Barcode)
}

func TestGormInventoryUnitRepository_SaveBatch(t *testing.T) {
	ctx := context.Background()
	db := setupRepositoryDB(t)
	repo := NewGormInventoryUnitRepository(db)
	item := createItem(t, db)

	var units []*inventory.InventoryUnit
	for i := 0; i < 3; i++ {
		unit, err := inventory.NewUnit(item.ID, "", decimal.NewFromInt(60))
		require.NoError(t, err)
		units = append(units, unit)
	}
	require.NoError(t, repo.SaveBatch(ctx, units))
	require.NoError(t, repo.SaveBatch(ctx, nil))

	count, err := repo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mjpos/backend/internal/domain/shared"
	"github.com/mjpos/backend/internal/domain/trade"
)

func createSale(t *testing.T, db *gorm.DB, itemID uuid.UUID, unitIDs ...uuid.UUID) *trade.Transaction {
	tx := trade.NewTransaction(uuid.Nil, uuid.New(), decimal.NewFromInt(100), "A", "")
	_, err := tx.AddEachLine(itemID, 0, unitIDs, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, tx.Finalize())
	require.NoError(t, db.Session(&gorm.Session{FullSaveAssociations: true}).Create(tx).Error)
	return tx
}

func TestGormTransactionRepository_IsUnitLinked(t *testing.T) {
	ctx := context.Background()
	db := setupRepositoryDB(t)
	repo := NewGormTransactionRepository(db)
	item := createItem(t, db)
	unit := createUnit(t, db, item.ID, "SN-1")
	createSale(t, db, item.ID, unit.ID)

	linked, err := repo.IsUnitLinked(ctx, unit.ID)
	require.NoError(t, err)
	assert.True(t, linked)

	linked, err = repo.IsUnitLinked(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, linked)
}

func TestGormTransactionRepository_FindByUnit(t *testing.T) {
	ctx := context.Background()
	db := setupRepositoryDB(t)
	repo := NewGormTransactionRepository(db)
	item := createItem(t, db)
	unit := createUnit(t, db, item.ID, "SN-1")
	other := createUnit(t, db, item.ID, "SN-2")
	sale := createSale(t, db, item.ID, unit.ID)
	createSale(t, db, item.ID, other.ID)

	txs, err := repo.FindByUnit(ctx, unit.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, sale.ID, txs[0].ID)
}

func TestGormTransactionRepository_ReplaceItems(t *testing.T) {
	ctx := context.Background()
	db := setupRepositoryDB(t)
	repo := NewGormTransactionRepository(db)
	item := createItem(t, db)
	unit := createUnit(t, db, item.ID, "SN-1")
	swapped := createUnit(t, db, item.ID, "SN-2")
	sale := createSale(t, db, item.ID, unit.ID)

	replacement := trade.NewTransaction(uuid.Nil, uuid.New(), decimal.NewFromInt(100), "A", "")
	_, err := replacement.AddEachLine(item.ID, 0, []uuid.UUID{swapped.ID}, decimal.NewFromInt(100))
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceItems(ctx, sale.ID, replacement.Items))

	loaded, err := repo.FindByIDWithItems(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	require.Len(t, loaded.Items[0].Units, 1)
	assert.Equal(t, swapped.ID, loaded.Items[0].Units[0].InventoryUnitID)

	// the dropped unit's link is gone
	linked, err := repo.IsUnitLinked(ctx, unit.ID)
	require.NoError(t, err)
	assert.False(t, linked)
}

func TestGormTransactionRepository_FindRecent(t *testing.T) {
	ctx := context.Background()
	db := setupRepositoryDB(t)
	repo := NewGormTransactionRepository(db)
	item := createItem(t, db)

	for i := 0; i < 3; i++ {
		unit := createUnit(t, db, item.ID, "")
		createSale(t, db, item.ID, unit.ID)
	}

	filter := shared.DefaultFilter()
	filter.Limit = 2
	page, total, err := repo.FindRecent(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)
	require.NotEmpty(t, page[0].Items)
}

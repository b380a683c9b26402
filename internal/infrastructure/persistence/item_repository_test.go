package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/shared"
)

func TestGormItemRepository_AdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("applies increments and decrements", func(t *testing.T) {
		db := setupRepositoryDB(t)
		repo := NewGormItemRepository(db)
		item := createItem(t, db)

		require.NoError(t, repo.AdjustStock(ctx, item.ID, decimal.NewFromInt(5)))
		require.NoError(t, repo.AdjustStock(ctx, item.ID, decimal.NewFromInt(-2)))

		saved, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, saved.Stock.Equal(decimal.NewFromInt(3)))
	})

	t.Run("a decrement below zero changes nothing", func(t *testing.T) {
		db := setupRepositoryDB(t)
		repo := NewGormItemRepository(db)
		item := createItem(t, db)
		require.NoError(t, repo.AdjustStock(ctx, item.ID, decimal.NewFromInt(1)))

		err := repo.AdjustStock(ctx, item.ID, decimal.NewFromInt(-2))
		require.Error(t, err)

		saved, findErr := repo.FindByID(ctx, item.ID)
		require.NoError(t, findErr)
		assert.True(t, saved.Stock.Equal(decimal.NewFromInt(1)))
	})

	t.Run("zero delta is a no-op", func(t *testing.T) {
		db := setupRepositoryDB(t)
		repo := NewGormItemRepository(db)
		item := createItem(t, db)

		require.NoError(t, repo.AdjustStock(ctx, item.ID, decimal.Zero))
	})

	t.Run("an unknown item is reported as missing", func(t *testing.T) {
		db := setupRepositoryDB(t)
		repo := NewGormItemRepository(db)

		err := repo.AdjustStock(ctx, uuid.New(), decimal.NewFromInt(1))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormItemRepository_ExistsBySKU(t *testing.T) {
	ctx := context.Background()
	db := setupRepositoryDB(t)
	repo := NewGormItemRepository(db)

	item, err := catalog.NewItem("Switch", catalog.CategoryInternet, catalog.UnitEach,
		decimal.NewFromInt(40), decimal.NewFromInt(30))
	require.NoError(t, err)
	sku := "SW-01"
	item.SKU = &sku
	require.NoError(t, db.Create(item).Error)

	exists, err := repo.ExistsBySKU(ctx, "SW-01")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySKU(ctx, "SW-99")
	require.NoError(t, err)
	assert.False(t, exists)
}

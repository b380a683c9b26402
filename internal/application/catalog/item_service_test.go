package catalog

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/shared"
	"github.com/mjpos/backend/internal/infrastructure/persistence"
)

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, body, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func setupCatalogDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Item{}, &catalog.Roll{}, &inventory.InventoryUnit{}))
	return db
}

func newItemService(db *gorm.DB, storage ObjectStorageService) *ItemService {
	return NewItemService(
		persistence.NewGormItemRepository(db),
		persistence.NewGormRollRepository(db),
		persistence.NewGormInventoryUnitRepository(db),
		storage,
	)
}

func catalogDomainCode(t *testing.T, err error) string {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	return derr.Code
}

func TestItemService_CreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an item with a trimmed sku", func(t *testing.T) {
		db := setupCatalogDB(t)
		svc := newItemService(db, nil)

		resp, err := svc.CreateItem(ctx, CreateItemRequest{
			Name:           "Fiber Router",
			SKU:            "  FR-01  ",
			Category:       "internet",
			StockUnit:      "EACH",
			RetailPrice:    decimal.NewFromInt(150),
			WholesalePrice: decimal.NewFromInt(120),
		})
		require.NoError(t, err)
		require.NotNil(t, resp.SKU)
		assert.Equal(t, "FR-01", *resp.SKU)
		assert.Equal(t, "EACH", resp.StockUnit)
		assert.True(t, resp.Stock.IsZero())
	})

	t.Run("rejects a duplicate sku", func(t *testing.T) {
		db := setupCatalogDB(t)
		svc := newItemService(db, nil)

		_, err := svc.CreateItem(ctx, CreateItemRequest{
			Name: "A", SKU: "DUP-1", Category: "internet", StockUnit: "EACH",
			RetailPrice: decimal.NewFromInt(10), WholesalePrice: decimal.NewFromInt(8),
		})
		require.NoError(t, err)

		_, err = svc.CreateItem(ctx, CreateItemRequest{
			Name: "B", SKU: "DUP-1", Category: "internet", StockUnit: "EACH",
			RetailPrice: decimal.NewFromInt(10), WholesalePrice: decimal.NewFromInt(8),
		})
		assert.Equal(t, shared.CodeAlreadyExists, catalogDomainCode(t, err))
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		db := setupCatalogDB(t)
		svc := newItemService(db, nil)

		_, err := svc.CreateItem(ctx, CreateItemRequest{
			Name: "X", Category: "groceries", StockUnit: "EACH",
			RetailPrice: decimal.NewFromInt(10), WholesalePrice: decimal.NewFromInt(8),
		})
		assert.Equal(t, shared.CodeInvalidInput, catalogDomainCode(t, err))
	})
}

func TestItemService_UpdateItem(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, db *gorm.DB) *catalog.Item {
		item, err := catalog.NewItem("Cable", catalog.CategoryInternet, catalog.UnitMeter,
			decimal.NewFromInt(5), decimal.NewFromInt(3))
		require.NoError(t, err)
		require.NoError(t, db.Create(item).Error)
		return item
	}

	t.Run("updates prices and note", func(t *testing.T) {
		db := setupCatalogDB(t)
		item := seed(t, db)
		svc := newItemService(db, nil)

		retail := decimal.NewFromInt(6)
		note := "new pricing"
		resp, err := svc.UpdateItem(ctx, item.ID, UpdateItemRequest{RetailPrice: &retail, Note: &note})
		require.NoError(t, err)
		assert.True(t, resp.RetailPrice.Equal(retail))
		assert.Equal(t, "new pricing", resp.Note)
	})

	t.Run("blocks a stock unit change once units exist", func(t *testing.T) {
		db := setupCatalogDB(t)
		item := seed(t, db)
		unit, err := inventory.NewUnit(item.ID, "SN-1", decimal.NewFromInt(3))
		require.NoError(t, err)
		require.NoError(t, db.Create(unit).Error)
		svc := newItemService(db, nil)

		each := "EACH"
		_, err = svc.UpdateItem(ctx, item.ID, UpdateItemRequest{StockUnit: &each})
		require.Error(t, err)
	})

	t.Run("fails for an unknown item", func(t *testing.T) {
		db := setupCatalogDB(t)
		svc := newItemService(db, nil)

		name := "ghost"
		_, err := svc.UpdateItem(ctx, uuid.New(), UpdateItemRequest{Name: &name})
		assert.Equal(t, shared.CodeNotFound, catalogDomainCode(t, err))
	})
}

func TestItemService_DeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an untracked item", func(t *testing.T) {
		db := setupCatalogDB(t)
		svc := newItemService(db, nil)
		resp, err := svc.CreateItem(ctx, CreateItemRequest{
			Name: "Spare", Category: "solar", StockUnit: "EACH",
			RetailPrice: decimal.NewFromInt(10), WholesalePrice: decimal.NewFromInt(8),
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteItem(ctx, resp.ID))
		_, err = svc.GetItem(ctx, resp.ID)
		assert.Equal(t, shared.CodeNotFound, catalogDomainCode(t, err))
	})

	t.Run("refuses while serialized units exist", func(t *testing.T) {
		db := setupCatalogDB(t)
		item, err := catalog.NewItem("Tracked", catalog.CategoryCamera, catalog.UnitEach,
			decimal.NewFromInt(10), decimal.NewFromInt(8))
		require.NoError(t, err)
		require.NoError(t, db.Create(item).Error)
		unit, err := inventory.NewUnit(item.ID, "SN-9", decimal.NewFromInt(6))
		require.NoError(t, err)
		require.NoError(t, db.Create(unit).Error)
		svc := newItemService(db, nil)

		err = svc.DeleteItem(ctx, item.ID)
		assert.Equal(t, shared.CodeConflict, catalogDomainCode(t, err))
	})
}

func TestItemService_ListItems(t *testing.T) {
	ctx := context.Background()
	db := setupCatalogDB(t)
	svc := newItemService(db, nil)

	for _, spec := range []struct {
		name     string
		category string
	}{
		{"Router A", "internet"},
		{"Router B", "internet"},
		{"Panel", "solar"},
	} {
		_, err := svc.CreateItem(ctx, CreateItemRequest{
			Name: spec.name, Category: spec.category, StockUnit: "EACH",
			RetailPrice: decimal.NewFromInt(10), WholesalePrice: decimal.NewFromInt(8),
		})
		require.NoError(t, err)
	}

	page, err := svc.ListItems(ctx, ListItemsRequest{Category: "internet"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = svc.ListItems(ctx, ListItemsRequest{Search: "panel"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	page, err = svc.ListItems(ctx, ListItemsRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
}

func TestItemService_LowStock(t *testing.T) {
	ctx := context.Background()
	db := setupCatalogDB(t)
	svc := newItemService(db, nil)

	low, err := catalog.NewItem("Low", catalog.CategoryInternet, catalog.UnitEach,
		decimal.NewFromInt(10), decimal.NewFromInt(8))
	require.NoError(t, err)
	require.NoError(t, db.Create(low).Error)

	stocked, err := catalog.NewItem("Stocked", catalog.CategoryInternet, catalog.UnitEach,
		decimal.NewFromInt(10), decimal.NewFromInt(8))
	require.NoError(t, err)
	stocked.Stock = decimal.NewFromInt(50)
	require.NoError(t, db.Create(stocked).Error)

	items, err := svc.LowStock(ctx, decimal.NewFromInt(5), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Low", items[0].Name)

	_, err = svc.LowStock(ctx, decimal.NewFromInt(-1), 10)
	assert.Equal(t, shared.CodeInvalidInput, catalogDomainCode(t, err))
}

func TestItemService_UploadPhoto(t *testing.T) {
	ctx := context.Background()
	db := setupCatalogDB(t)
	storage := new(MockObjectStorage)
	svc := newItemService(db, storage)

	resp, err := svc.CreateItem(ctx, CreateItemRequest{
		Name: "Camera Dome", Category: "camera", StockUnit: "EACH",
		RetailPrice: decimal.NewFromInt(90), WholesalePrice: decimal.NewFromInt(70),
	})
	require.NoError(t, err)

	body := strings.NewReader("fake-jpeg-bytes")
	storage.On("Upload", ctx, "items/"+resp.ID.String()+"/photo.jpg", body, int64(body.Len()), "image/jpeg").
		Return("https://cdn.example.com/photo.jpg", nil)

	updated, err := svc.UploadPhoto(ctx, resp.ID, "dome.JPG", "image/jpeg", body, int64(body.Len()))
	require.NoError(t, err)
	require.NotNil(t, updated.PhotoURL)
	assert.Equal(t, "https://cdn.example.com/photo.jpg", *updated.PhotoURL)
	storage.AssertExpectations(t)

	_, err = svc.UploadPhoto(ctx, resp.ID, "dome.jpg", "image/jpeg", strings.NewReader(""), 0)
	assert.Equal(t, shared.CodeInvalidInput, catalogDomainCode(t, err))
}

func TestItemService_Rolls(t *testing.T) {
	ctx := context.Background()

	seedMeter := func(t *testing.T, db *gorm.DB) *catalog.Item {
		item, err := catalog.NewItem("Coax", catalog.CategorySatellite, catalog.UnitMeter,
			decimal.NewFromInt(4), decimal.NewFromInt(2))
		require.NoError(t, err)
		require.NoError(t, db.Create(item).Error)
		return item
	}

	t.Run("adds a roll with its companion unit", func(t *testing.T) {
		db := setupCatalogDB(t)
		item := seedMeter(t, db)
		svc := newItemService(db, nil)

		roll, err := svc.AddRoll(ctx, AddRollRequest{
			ItemID:       item.ID,
			LengthM:      decimal.RequireFromString("25.5"),
			CostPerMeter: decimal.NewFromInt(2),
			Barcode:      "ROLL-1",
		})
		require.NoError(t, err)
		assert.True(t, roll.RemainingM.Equal(decimal.RequireFromString("25.5")))

		var unit inventory.InventoryUnit
		require.NoError(t, db.First(&unit, "roll_id = ?", roll.ID).Error)
		assert.Equal(t, "ROLL-1", unit.Barcode)
		// cost is per-meter times length
		assert.True(t, unit.CostEach.Equal(decimal.NewFromInt(51)))
	})

	t.Run("rejects a roll on a piece-tracked item", func(t *testing.T) {
		db := setupCatalogDB(t)
		item, err := catalog.NewItem("Boxed", catalog.CategoryInternet, catalog.UnitEach,
			decimal.NewFromInt(10), decimal.NewFromInt(8))
		require.NoError(t, err)
		require.NoError(t, db.Create(item).Error)
		svc := newItemService(db, nil)

		_, err = svc.AddRoll(ctx, AddRollRequest{ItemID: item.ID, LengthM: decimal.NewFromInt(10)})
		assert.Equal(t, shared.CodeInvalidInput, catalogDomainCode(t, err))
	})

	t.Run("deletes an untouched roll and its unit", func(t *testing.T) {
		db := setupCatalogDB(t)
		item := seedMeter(t, db)
		svc := newItemService(db, nil)

		roll, err := svc.AddRoll(ctx, AddRollRequest{
			ItemID: item.ID, LengthM: decimal.NewFromInt(10), CostPerMeter: decimal.NewFromInt(2),
		})
		require.NoError(t, err)
		require.NoError(t, svc.DeleteRoll(ctx, roll.ID))

		var count int64
		require.NoError(t, db.Model(&inventory.InventoryUnit{}).Where("roll_id = ?", roll.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("refuses to delete a cut roll", func(t *testing.T) {
		db := setupCatalogDB(t)
		item := seedMeter(t, db)
		svc := newItemService(db, nil)

		resp, err := svc.AddRoll(ctx, AddRollRequest{
			ItemID: item.ID, LengthM: decimal.NewFromInt(10), CostPerMeter: decimal.NewFromInt(2),
		})
		require.NoError(t, err)

		var roll catalog.Roll
		require.NoError(t, db.First(&roll, "id = ?", resp.ID).Error)
		require.NoError(t, roll.Cut(decimal.NewFromInt(3)))
		require.NoError(t, db.Save(&roll).Error)

		err = svc.DeleteRoll(ctx, resp.ID)
		assert.Equal(t, shared.CodeConflict, catalogDomainCode(t, err))
	})

	t.Run("lists an item's rolls", func(t *testing.T) {
		db := setupCatalogDB(t)
		item := seedMeter(t, db)
		svc := newItemService(db, nil)

		for _, l := range []int64{10, 20} {
			_, err := svc.AddRoll(ctx, AddRollRequest{
				ItemID: item.ID, LengthM: decimal.NewFromInt(l), CostPerMeter: decimal.NewFromInt(2),
			})
			require.NoError(t, err)
		}
		rolls, err := svc.ListRolls(ctx, item.ID)
		require.NoError(t, err)
		assert.Len(t, rolls, 2)
	})
}

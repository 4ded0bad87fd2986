package cart

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func TestGormRepositoryGetOrCreateIsStable(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRepository(newTestDB(t))

	first, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	second, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	other, err := repo.GetOrCreate(ctx, "u2")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestGormRepositoryItemLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRepository(newTestDB(t))

	record, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)

	item, err := repo.CreateItem(ctx, &models.CartItem{CartID: record.ID, ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	require.NotEmpty(t, item.ID)

	found, err := repo.FindItemByProduct(ctx, record.ID, "p1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, item.ID, found.ID)

	missing, err := repo.FindItemByProduct(ctx, record.ID, "p2")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.UpdateItemQuantity(ctx, record.ID, item.ID, 9))
	items, err := repo.ListItems(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 9, items[0].Quantity)

	assert.ErrorIs(t, repo.UpdateItemQuantity(ctx, "other-cart", item.ID, 1), ErrItemNotFound)
	assert.ErrorIs(t, repo.DeleteItem(ctx, "other-cart", item.ID), ErrItemNotFound)

	require.NoError(t, repo.DeleteItem(ctx, record.ID, item.ID))
	assert.ErrorIs(t, repo.DeleteItem(ctx, record.ID, item.ID), ErrItemNotFound)
}

func TestGormRepositoryClearItemsScopedToCart(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRepository(newTestDB(t))

	mine, err := repo.GetOrCreate(ctx, "mine")
	require.NoError(t, err)
	theirs, err := repo.GetOrCreate(ctx, "theirs")
	require.NoError(t, err)
	for _, cartID := range []string{mine.ID, theirs.ID} {
		_, err := repo.CreateItem(ctx, &models.CartItem{CartID: cartID, ProductID: "p1", Quantity: 1})
		require.NoError(t, err)
	}

	require.NoError(t, repo.ClearItems(ctx, mine.ID))

	left, err := repo.ListItems(ctx, mine.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	kept, err := repo.ListItems(ctx, theirs.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestServiceOverGormWithTransactions(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	catalog := products.NewGormRepository(conn)
	widget := models.Product{ID: "1", Name: "Widget", Description: "w", Price: decimal.NewFromInt(100)}
	_, err := catalog.Create(ctx, &widget)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(reg)
	svc, err := NewService(NewGormRepository(conn), catalog,
		WithTxRunner(db.NewFromConn(conn)),
		WithMetrics(cartMetrics),
	)
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, "u1", "1", 2)
	require.NoError(t, err)
	cart, err := svc.AddToCart(ctx, "u1", "1", 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, cart.ItemCount)
	assert.Equal(t, 500.0, cart.Total)

	_, err = svc.RemoveFromCart(ctx, "u1", "missing")
	require.Error(t, err)

	// one add/success series and one remove/failure series
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "storefront_cart_mutations_total"))
}

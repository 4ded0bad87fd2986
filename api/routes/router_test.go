package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	products "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

type testServer struct {
	handler  http.Handler
	registry *prometheus.Registry
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.RunEmbedded(ctx, sqlDB, migrate.Dialect(config.DriverSQLite), "up"))

	catalog := products.NewGormRepository(conn)
	_, err = catalog.Create(ctx, &models.Product{ID: "1", Name: "Widget", Description: "w", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	productSvc, err := products.NewService(catalog)
	require.NoError(t, err)
	client := db.NewFromConn(conn)
	cartSvc, err := cart.NewService(cart.NewGormRepository(conn), catalog, cart.WithTxRunner(client))
	require.NoError(t, err)

	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	reg := prometheus.NewRegistry()
	return testServer{
		handler:  NewRouter(cfg, logg, client, nil, reg, productSvc, cartSvc),
		registry: reg,
	}
}

func (s testServer) do(t *testing.T, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) types.Cart {
	t.Helper()
	var out types.Cart
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestAddToCartEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/cart/add", "u1", `{"productId":"1","quantity":2}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	got := decodeCart(t, w)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, 200.0, got.Total)
	assert.Equal(t, 2, got.ItemCount)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Widget", got.Items[0].Name)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestCartLifecycle(t *testing.T) {
	srv := newTestServer(t)

	srv.do(t, http.MethodPost, "/api/cart/add", "u1", `{"productId":"1","quantity":1}`)
	w := srv.do(t, http.MethodPost, "/api/cart/add", "u1", `{"productId":"1","quantity":2}`)
	got := decodeCart(t, w)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)
	itemID := got.Items[0].ID

	// other users neither see nor remove u1's lines
	w = srv.do(t, http.MethodGet, "/api/cart", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	guest := decodeCart(t, w)
	assert.Equal(t, middleware.DefaultUserID, guest.UserID)
	assert.Empty(t, guest.Items)

	w = srv.do(t, http.MethodDelete, "/api/cart/item/"+itemID, "u2", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = srv.do(t, http.MethodPut, "/api/cart/update", "u1", fmt.Sprintf(`{"itemId":%q,"quantity":4}`, itemID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 400.0, decodeCart(t, w).Total)

	w = srv.do(t, http.MethodDelete, "/api/cart/item/"+itemID, "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decodeCart(t, w).ItemCount)

	srv.do(t, http.MethodPost, "/api/cart/add", "u1", `{"productId":"1","quantity":1}`)
	w = srv.do(t, http.MethodDelete, "/api/cart/clear", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	cleared := decodeCart(t, w)
	assert.Empty(t, cleared.Items)
	assert.Equal(t, 0.0, cleared.Total)
}

func TestAddUnknownProductReturns404(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/cart/add", "u1", `{"productId":"nope","quantity":1}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	var body types.ErrorBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Product not found", body.Message)
}

func TestProductRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/products", "", `{"name":"Gadget","description":"g","price":10.5,"priceSale":9}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created types.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	require.NotNil(t, created.PriceSale)
	assert.Equal(t, 9.0, *created.PriceSale)

	w = srv.do(t, http.MethodGet, "/api/products/"+created.ID, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodGet, "/api/products", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []types.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, "Gadget", list[0].Name)
}

func TestCreateProductImageURL(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/products", "", `{"name":"A","description":"d","price":10,"imageUrl":""}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placeholder types.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&placeholder))
	require.NotNil(t, placeholder.ImageURL)
	assert.True(t, strings.HasPrefix(*placeholder.ImageURL, products.DefaultPlaceholderImage+"?random="), *placeholder.ImageURL)

	w = srv.do(t, http.MethodPost, "/api/products", "", `{"name":"B","description":"d","price":10,"imageUrl":"/img/a.png"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var echoed types.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&echoed))
	require.NotNil(t, echoed.ImageURL)
	assert.Equal(t, "/img/a.png", *echoed.ImageURL)
}

func TestCartQuantityAcceptsWholeFloats(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/cart/add", "u1", `{"productId":"1","quantity":2.0}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	added := decodeCart(t, w)
	require.Len(t, added.Items, 1)
	assert.Equal(t, 2, added.ItemCount)

	w = srv.do(t, http.MethodPut, "/api/cart/update", "u1", `{"itemId":"`+added.Items[0].ID+`","quantity":3.0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 3, decodeCart(t, w).ItemCount)

	w = srv.do(t, http.MethodPost, "/api/cart/add", "u1", `{"productId":"1","quantity":2.5}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartLineQuantityIsCapped(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/cart/add", "u1", `{"productId":"1","quantity":2147483647}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = srv.do(t, http.MethodPost, "/api/cart/add", "u1", `{"productId":"1","quantity":2147483647}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = srv.do(t, http.MethodPost, "/api/cart/add", "u1", `{"productId":"1","quantity":2147483648}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = srv.do(t, http.MethodGet, "/api/cart", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2147483647, decodeCart(t, w).ItemCount)
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/health/ready", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health types.Health
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, "up", health.Checks["database"])
	_, hasRedis := health.Checks["redis"]
	assert.False(t, hasRedis)

	srv.do(t, http.MethodGet, "/api/products/1", "", "")
	w = srv.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/api/products/{id}"`)
}

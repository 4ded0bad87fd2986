package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/pkg/types"
)

type recordedRequest struct {
	method      string
	path        string
	userID      string
	idempotency string
	body        map[string]any
}

func newTestAPI(t *testing.T, status int, payload any) (*Client, *recordedRequest) {
	t.Helper()
	seen := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.method = r.Method
		seen.path = r.URL.Path
		seen.userID = r.Header.Get("x-user-id")
		seen.idempotency = r.Header.Get("Idempotency-Key")
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&seen.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL+"/", WithUserID("u1"), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return client, seen
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient("localhost:3000")
	require.Error(t, err)
}

func TestAddToCartSendsIdentityAndBody(t *testing.T) {
	client, seen := newTestAPI(t, http.StatusCreated, types.Cart{ID: "c1", UserID: "u1", Total: 200, ItemCount: 2})

	cart, err := client.AddToCart(context.Background(), "1", 2, "key-1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, seen.method)
	assert.Equal(t, "/api/cart/add", seen.path)
	assert.Equal(t, "u1", seen.userID)
	assert.Equal(t, "key-1", seen.idempotency)
	assert.Equal(t, "1", seen.body["productId"])
	assert.Equal(t, float64(2), seen.body["quantity"])
	assert.Equal(t, 200.0, cart.Total)
	assert.NotNil(t, cart.Items)
}

func TestRemoveEscapesItemID(t *testing.T) {
	client, seen := newTestAPI(t, http.StatusOK, types.EmptyCart())

	_, err := client.RemoveFromCart(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, seen.method)
	assert.Equal(t, "/api/cart/item/a b", seen.path)
}

func TestCreateProductEncodesDecimals(t *testing.T) {
	client, seen := newTestAPI(t, http.StatusCreated, types.Product{ID: "p1", Name: "Boné", Price: 59.9})

	sale := decimal.RequireFromString("49.90")
	product, err := client.CreateProduct(context.Background(), CreateProductRequest{
		Name:        "Boné",
		Description: "Aba reta",
		Price:       decimal.RequireFromString("59.90"),
		PriceSale:   &sale,
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "p1", product.ID)
	assert.Equal(t, "59.9", seen.body["price"])
	assert.Equal(t, "49.9", seen.body["priceSale"])
	assert.Empty(t, seen.idempotency)
}

func TestErrorBodyBecomesAPIError(t *testing.T) {
	client, _ := newTestAPI(t, http.StatusNotFound, types.ErrorBody{Message: "Product not found", Code: "NOT_FOUND"})

	_, err := client.GetProduct(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Product not found", apiErr.Message)
}

func TestErrorWithoutBodyUsesStatusText(t *testing.T) {
	client, _ := newTestAPI(t, http.StatusInternalServerError, nil)

	_, err := client.ClearCart(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), apiErr.Message)
	assert.False(t, IsNotFound(err))
}

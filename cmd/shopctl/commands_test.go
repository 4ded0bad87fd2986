package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/pkg/types"
)

func runCLI(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--api", srv.URL}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCartAddSendsQuantityAndUser(t *testing.T) {
	var got map[string]any
	var user string
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cart/add", r.URL.Path)
		user = r.Header.Get("x-user-id")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(types.Cart{ID: "c1", Total: 200, ItemCount: 2})
	}, "cart", "add", "1", "2", "--user", "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", user)
	assert.Equal(t, "1", got["productId"])
	assert.Equal(t, float64(2), got["quantity"])
	assert.Contains(t, out, `"total": 200`)
}

func TestCartAddRejectsBadQuantity(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server must not be called")
	}, "cart", "add", "1", "0")
	require.Error(t, err)
}

func TestCartShowResetsOnServerError(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(types.ErrorBody{Message: "Internal error"})
	}, "cart", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Internal error")
}

func TestProductsCreateRequiresPrice(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server must not be called")
	}, "products", "create", "Boné", "--description", "Aba reta")
	require.Error(t, err)
}

func TestBuildCreateRequest(t *testing.T) {
	req, err := buildCreateRequest("Boné", "Aba reta", "59.90", "49.90", "")
	require.NoError(t, err)
	assert.Equal(t, "59.9", req.Price.String())
	require.NotNil(t, req.PriceSale)
	assert.Equal(t, "49.9", req.PriceSale.String())
	assert.Nil(t, req.ImageURL)

	_, err = buildCreateRequest("Boné", "d", "abc", "", "")
	require.Error(t, err)
}

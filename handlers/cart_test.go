package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"floure-storefront/api"
	"floure-storefront/apitest"
	"floure-storefront/cache"
	"floure-storefront/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeCart(t *testing.T, body []byte) dtos.CartView {
	t.Helper()
	var view dtos.CartView
	require.NoError(t, json.Unmarshal(body, &view))
	return view
}

func TestGetCartInitializes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodGet, "/api/cart", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	view := decodeCart(t, w.Body.Bytes())
	assert.NotZero(t, view.ID)
	assert.Equal(t, "ready", view.State)
	assert.Equal(t, "0.00", view.Subtotal)
	assert.NotNil(t, view.Items)
	assert.Equal(t, 1, env.srv.Hits(apitest.RouteCreateCart))
}

func TestAddItemBySlugAndID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{
		"product_slug": "ramo-de-rosas",
		"quantity":     2,
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{
		"product_id": 3,
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	view := decodeCart(t, w.Body.Bytes())
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Ramo de rosas", view.Items[0].ProductName)
	assert.Equal(t, "ramo-de-rosas", view.Items[0].ProductSlug)
	assert.Equal(t, "25.00", view.Items[0].LineTotal)
	assert.Equal(t, 1, view.Items[1].Quantity)
	assert.Equal(t, 3, view.ItemCount)
	assert.Equal(t, "33.75", view.Subtotal)
}

func TestAddItemValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{"quantity": 1}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "product_slug or product_id is required", parseResponse(w)["error"])

	w = env.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{"product_slug": "missing"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, env.srv.Hits(apitest.RouteUpdateCart))
}

func TestAddRejectedProductIsRefetched(t *testing.T) {
	env := newTestEnv(t, api.WithCache(cache.NewMemoryCache(), time.Minute))

	w := env.do(jsonRequest(http.MethodGet, "/api/products/caja-de-girasoles", nil))
	require.Equal(t, http.StatusOK, w.Code)
	env.srv.RemoveProduct(3)

	// The cached product still resolves, but the API refuses the line.
	w = env.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{"product_slug": "caja-de-girasoles"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, env.srv.Hits(apitest.RouteProduct))

	w = env.do(jsonRequest(http.MethodGet, "/api/products/caja-de-girasoles", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 2, env.srv.Hits(apitest.RouteProduct))
	assert.Equal(t, 0, env.engine.ItemCount())
}

func TestUpdateAndRemoveItem(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{"product_slug": "ramo-de-tulipanes"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	lineID := decodeCart(t, w.Body.Bytes()).Items[0].ID

	w = env.do(jsonRequest(http.MethodPut, fmt.Sprintf("/api/cart/items/%d", lineID), map[string]interface{}{"quantity": 4}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 4, decodeCart(t, w.Body.Bytes()).ItemCount)

	w = env.do(jsonRequest(http.MethodPut, "/api/cart/items/999999", map[string]interface{}{"quantity": 4}))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(jsonRequest(http.MethodPut, fmt.Sprintf("/api/cart/items/%d", lineID), map[string]interface{}{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(jsonRequest(http.MethodDelete, fmt.Sprintf("/api/cart/items/%d", lineID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w.Body.Bytes()).Items)

	w = env.do(jsonRequest(http.MethodDelete, "/api/cart/items/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateToZeroRemoves(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{"product_id": 1}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	lineID := decodeCart(t, w.Body.Bytes()).Items[0].ID

	w = env.do(jsonRequest(http.MethodPut, fmt.Sprintf("/api/cart/items/%d", lineID), map[string]interface{}{"quantity": 0}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, decodeCart(t, w.Body.Bytes()).ItemCount)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)

	env.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{"product_id": 1, "quantity": 3}))
	w := env.do(jsonRequest(http.MethodDelete, "/api/cart", nil))
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeCart(t, w.Body.Bytes())
	assert.Empty(t, view.Items)
	assert.Equal(t, "0.00", view.Subtotal)
}

func TestCartUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.srv.Fail(apitest.RouteCreateCart, http.StatusInternalServerError)

	w := env.do(jsonRequest(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = env.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{"product_id": 1}))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAddItemSyncFailure(t *testing.T) {
	env := newTestEnv(t)
	env.srv.Fail(apitest.RouteUpdateCart, http.StatusInternalServerError)

	w := env.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{"product_id": 1}))
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = env.do(jsonRequest(http.MethodGet, "/api/cart", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w.Body.Bytes()).Items)
}

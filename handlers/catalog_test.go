package handlers

import (
	"net/http"
	"testing"

	"floure-storefront/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogProxies(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodGet, "/api/site-config", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Floure", parseResponse(w)["store_name"])

	w = env.do(jsonRequest(http.MethodGet, "/api/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseResponseArray(w), 2)

	w = env.do(jsonRequest(http.MethodGet, "/api/categories/ramos", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ramos", parseResponse(w)["name"])

	w = env.do(jsonRequest(http.MethodGet, "/api/categories/ramos/products", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseResponseArray(w), 2)

	w = env.do(jsonRequest(http.MethodGet, "/api/products/caja-de-girasoles", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "8.75", parseResponse(w)["price"])
}

func TestGetProductsQuery(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodGet, "/api/products?is_featured=true", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseResponseArray(w), 1)

	w = env.do(jsonRequest(http.MethodGet, "/api/products?search=ramo&category=ramos", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseResponseArray(w), 2)

	w = env.do(jsonRequest(http.MethodGet, "/api/products?is_featured=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(jsonRequest(http.MethodGet, "/api/products?page=0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogNotFoundAndUpstreamErrors(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodGet, "/api/categories/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	env.srv.Fail(apitest.RouteSiteConfig, http.StatusInternalServerError)
	w = env.do(jsonRequest(http.MethodGet, "/api/site-config", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Storefront API error", parseResponse(w)["error"])
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", parseResponse(w)["status"])
	assert.Equal(t, "uninitialized", parseResponse(w)["cart_state"])
}

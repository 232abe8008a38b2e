package handlers

import (
	"net/http"
	"testing"

	"floure-storefront/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutBody() map[string]interface{} {
	return map[string]interface{}{
		"shipping_full_name":    "Ana Torres",
		"shipping_phone":        "999111222",
		"shipping_email":        "ana@example.pe",
		"shipping_address_text": "Av. Larco 123",
		"payment_method":        "plin",
	}
}

func TestCheckoutPlacesOrder(t *testing.T) {
	env := newTestEnv(t)
	env.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{"product_id": 2, "quantity": 2}))

	w := env.do(jsonRequest(http.MethodPost, "/api/checkout", checkoutBody()))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := parseResponse(w)
	assert.Equal(t, "60.00", resp["total"])
	assert.Equal(t, "PLIN", resp["payment_method"])
	assert.Equal(t, "PENDING", resp["payment_status"])
	assert.Equal(t, 0, env.engine.ItemCount())
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest(http.MethodPost, "/api/checkout", checkoutBody()))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, env.srv.Hits(apitest.RouteCreateOrder))
}

func TestCheckoutValidation(t *testing.T) {
	env := newTestEnv(t)
	env.do(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{"product_id": 1}))

	body := checkoutBody()
	delete(body, "shipping_phone")
	w := env.do(jsonRequest(http.MethodPost, "/api/checkout", body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "shipping_phone is required", parseResponse(w)["error"])

	body = checkoutBody()
	body["payment_method"] = "bitcoin"
	w = env.do(jsonRequest(http.MethodPost, "/api/checkout", body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "payment_method", parseResponse(w)["field"])
	assert.Equal(t, 0, env.srv.Hits(apitest.RouteCreateOrder))
}

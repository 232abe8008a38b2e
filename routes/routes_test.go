package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"floure-storefront/api"
	"floure-storefront/apitest"
	"floure-storefront/cart"
	"floure-storefront/checkout"
	"floure-storefront/identity"
	"floure-storefront/middleware"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T, limiter *middleware.RateLimiter) *gin.Engine {
	t.Helper()
	srv := apitest.NewServer(t)
	client := api.NewClient(srv.BaseURL())
	engine := cart.NewEngine(client, identity.NewStore(nil, nil), nil)

	r := gin.New()
	SetupRoutes(r, Dependencies{
		API:      client,
		Engine:   engine,
		Checkout: checkout.NewService(engine, client, nil),
		Limiter:  limiter,
	})
	return r
}

func TestRoutesRegistered(t *testing.T) {
	r := setupRouter(t, nil)

	want := []string{
		"GET /healthz",
		"GET /api/site-config",
		"GET /api/categories",
		"GET /api/categories/:slug",
		"GET /api/categories/:slug/products",
		"GET /api/products",
		"GET /api/products/:slug",
		"GET /api/cart",
		"POST /api/cart/items",
		"PUT /api/cart/items/:id",
		"DELETE /api/cart/items/:id",
		"DELETE /api/cart",
		"POST /api/checkout",
		"POST /api/contact",
	}
	have := map[string]bool{}
	for _, route := range r.Routes() {
		have[route.Method+" "+route.Path] = true
	}
	for _, route := range want {
		if !have[route] {
			t.Errorf("route %s not registered", route)
		}
	}
}

func TestHealthCheck(t *testing.T) {
	r := setupRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestPublicProductsRoute(t *testing.T) {
	r := setupRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWritesAreRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, time.Minute)
	t.Cleanup(limiter.Close)
	r := setupRouter(t, limiter)

	post := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"product_id":1}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w.Code
	}
	if code := post(); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}

	// Reads are not limited.
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("read %d: expected 200, got %d", i, w.Code)
		}
	}
}

package routes

import (
	"floure-storefront/api"
	"floure-storefront/cart"
	"floure-storefront/checkout"
	"floure-storefront/handlers"
	"floure-storefront/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the services the gateway routes are wired to. Limiter
// may be nil to disable rate limiting.
type Dependencies struct {
	API      *api.Client
	Engine   *cart.Engine
	Checkout *checkout.Service
	Limiter  *middleware.RateLimiter
	Log      *zap.Logger
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	healthHandler := &handlers.HealthHandler{Engine: deps.Engine}
	catalogHandler := &handlers.CatalogHandler{API: deps.API, Log: deps.Log}
	cartHandler := &handlers.CartHandler{Engine: deps.Engine, API: deps.API, Log: deps.Log}
	checkoutHandler := &handlers.CheckoutHandler{Service: deps.Checkout, Engine: deps.Engine, Log: deps.Log}
	contactHandler := &handlers.ContactHandler{API: deps.API, Log: deps.Log}

	r.GET("/healthz", healthHandler.Healthz)

	// Read-only routes
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/site-config", catalogHandler.GetSiteConfig)
		apiGroup.GET("/categories", catalogHandler.GetCategories)
		apiGroup.GET("/categories/:slug", catalogHandler.GetCategory)
		apiGroup.GET("/categories/:slug/products", catalogHandler.GetCategoryProducts)
		apiGroup.GET("/products", catalogHandler.GetProducts)
		apiGroup.GET("/products/:slug", catalogHandler.GetProduct)
		apiGroup.GET("/cart", cartHandler.GetCart)
	}

	// Writes go through the rate limiter
	writes := apiGroup.Group("")
	if deps.Limiter != nil {
		writes.Use(deps.Limiter.Middleware())
	}
	{
		writes.POST("/cart/items", cartHandler.AddItem)
		writes.PUT("/cart/items/:id", cartHandler.UpdateItem)
		writes.DELETE("/cart/items/:id", cartHandler.RemoveItem)
		writes.DELETE("/cart", cartHandler.ClearCart)
		writes.POST("/checkout", checkoutHandler.PlaceOrder)
		writes.POST("/contact", contactHandler.Submit)
	}
}

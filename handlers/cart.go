package handlers

import (
	"context"
	"net/http"
	"strconv"

	"floure-storefront/api"
	"floure-storefront/cart"
	"floure-storefront/dtos"
	"floure-storefront/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CartHandler exposes the cart engine. Every route makes sure the cart is
// loaded first so line ids in requests refer to the current cart.
type CartHandler struct {
	Engine *cart.Engine
	API    *api.Client
	Log    *zap.Logger
}

func (h *CartHandler) view() dtos.CartView {
	return dtos.NewCartView(h.Engine.Snapshot(), h.Engine)
}

func (h *CartHandler) ensureCart(c *gin.Context) bool {
	if _, err := h.Engine.Initialize(c.Request.Context()); err != nil {
		respondError(c, h.Log, err)
		return false
	}
	return true
}

func (h *CartHandler) GetCart(c *gin.Context) {
	if !h.ensureCart(c) {
		return
	}
	c.JSON(http.StatusOK, h.view())
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dtos.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.resolveProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	if _, err := h.Engine.AddToCart(c.Request.Context(), *product, req.Quantity); err != nil {
		if api.StatusCode(err) == http.StatusBadRequest {
			h.API.ForgetProduct(c.Request.Context(), *product)
		}
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, h.view())
}

func (h *CartHandler) resolveProduct(ctx context.Context, req dtos.AddCartItemRequest) (*models.Product, error) {
	if req.ProductSlug != "" {
		return h.API.GetProduct(ctx, req.ProductSlug)
	}
	return h.API.GetProductByID(ctx, req.ProductID)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := lineID(c)
	if !ok {
		return
	}
	var req dtos.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if !h.ensureCart(c) {
		return
	}
	if _, err := h.Engine.UpdateItemQuantity(c.Request.Context(), itemID, *req.Quantity); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, h.view())
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := lineID(c)
	if !ok {
		return
	}
	if !h.ensureCart(c) {
		return
	}
	if _, err := h.Engine.RemoveItem(c.Request.Context(), itemID); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, h.view())
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if !h.ensureCart(c) {
		return
	}
	if _, err := h.Engine.ClearCart(c.Request.Context()); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, h.view())
}

func lineID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item id"})
		return 0, false
	}
	return id, true
}

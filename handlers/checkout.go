package handlers

import (
	"net/http"

	"floure-storefront/cart"
	"floure-storefront/checkout"
	"floure-storefront/dtos"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	Service *checkout.Service
	Engine  *cart.Engine
	Log     *zap.Logger
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req dtos.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if _, err := h.Engine.Initialize(c.Request.Context()); err != nil {
		respondError(c, h.Log, err)
		return
	}

	order, err := h.Service.PlaceOrder(c.Request.Context(), req.Form())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NewOrderResponse(order))
}

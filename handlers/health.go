package handlers

import (
	"net/http"

	"floure-storefront/cart"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Engine *cart.Engine
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"cart_state": h.Engine.State().String(),
	})
}

package handlers

import (
	"net/http"

	"floure-storefront/api"
	"floure-storefront/dtos"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContactHandler struct {
	API *api.Client
	Log *zap.Logger
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req dtos.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := h.API.CreateContactRequest(c.Request.Context(), req.Model())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

package handlers

import (
	"net/http"
	"strconv"

	"floure-storefront/api"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler proxies read-only catalog endpoints.
type CatalogHandler struct {
	API *api.Client
	Log *zap.Logger
}

func (h *CatalogHandler) GetSiteConfig(c *gin.Context) {
	cfg, err := h.API.GetSiteConfig(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.API.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.API.GetCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) GetCategoryProducts(c *gin.Context) {
	products, err := h.API.GetCategoryProducts(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProducts accepts category, search, is_featured and page query params.
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	filter := api.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("is_featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "is_featured must be true or false"})
			return
		}
		filter.Featured = &featured
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive number"})
			return
		}
		filter.Page = page
	}

	products, err := h.API.GetProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.API.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"floure-storefront/api"
	"floure-storefront/cart"
	"floure-storefront/checkout"
	"floure-storefront/models"
	"floure-storefront/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errorStatus maps domain and upstream errors to a status and a message
// that is safe to show the shopper.
func errorStatus(err error) (int, string) {
	var formErr *checkout.FormError
	var apiErr *api.Error
	var urlErr *url.Error

	switch {
	case errors.As(err, &formErr):
		return http.StatusBadRequest, formErr.Message
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, "Tu carrito está vacío"
	case errors.Is(err, cart.ErrInvalidProduct):
		return http.StatusBadRequest, "Invalid product"
	case errors.Is(err, models.ErrAmountOutOfRange):
		return http.StatusBadRequest, "Amount out of range"
	case errors.Is(err, cart.ErrItemNotFound):
		return http.StatusNotFound, "Cart item not found"
	case errors.Is(err, cart.ErrCartUnavailable), errors.Is(err, api.ErrUnavailable):
		return http.StatusServiceUnavailable, "The store is unavailable right now, please try again later"
	case errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "The store took too long to answer"
	case errors.As(err, &apiErr):
		if apiErr.Status < 500 {
			return http.StatusBadRequest, "Request rejected by the store"
		}
		return http.StatusBadGateway, "Storefront API error"
	case errors.As(err, &urlErr):
		return http.StatusBadGateway, "Storefront API error"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func respondError(c *gin.Context, log *zap.Logger, err error) {
	status, message := errorStatus(err)
	if status >= 500 && log != nil {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	_ = c.Error(err)

	body := gin.H{"error": message}
	var formErr *checkout.FormError
	if errors.As(err, &formErr) {
		body["field"] = formErr.Field
	}
	c.JSON(status, body)
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
}

package api

import (
	"context"
	"net/http"

	"floure-storefront/models"
)

func (c *Client) CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.Order, error) {
	raw, err := c.do(ctx, http.MethodPost, "orders/", nil, payload)
	if err != nil {
		return nil, err
	}
	return decode[models.Order](raw, "order")
}

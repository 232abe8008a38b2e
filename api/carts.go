package api

import (
	"context"
	"fmt"
	"net/http"

	"floure-storefront/models"
)

func (c *Client) CreateCart(ctx context.Context, payload models.CartCreatePayload) (*models.Cart, error) {
	raw, err := c.do(ctx, http.MethodPost, "carts/", nil, payload)
	if err != nil {
		return nil, err
	}
	return decode[models.Cart](raw, "cart")
}

// GetCart fails with an error matching ErrNotFound for stale ids.
func (c *Client) GetCart(ctx context.Context, id int64) (*models.Cart, error) {
	raw, err := c.do(ctx, http.MethodGet, cartPath(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[models.Cart](raw, "cart")
}

// UpdateCart replaces the cart's full state, item list included, and
// returns the server's authoritative copy.
func (c *Client) UpdateCart(ctx context.Context, id int64, payload models.CartUpdatePayload) (*models.Cart, error) {
	if payload.Items == nil {
		payload.Items = []models.CartItem{}
	}
	raw, err := c.do(ctx, http.MethodPatch, cartPath(id), nil, payload)
	if err != nil {
		return nil, err
	}
	return decode[models.Cart](raw, "cart")
}

func cartPath(id int64) string {
	return fmt.Sprintf("carts/%d/", id)
}

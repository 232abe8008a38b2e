package dtos

import (
	"floure-storefront/cart"
	"floure-storefront/models"
)

// AddCartItemRequest identifies the product by slug or id. A zero quantity
// means one unit.
type AddCartItemRequest struct {
	ProductSlug string `json:"product_slug" binding:"required_without=ProductID"`
	ProductID   int64  `json:"product_id" binding:"gte=0"`
	Quantity    int    `json:"quantity" binding:"gte=0"`
}

// UpdateCartItemRequest sets a line's quantity; zero removes the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type CartLineView struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	ProductSlug string  `json:"product_slug,omitempty"`
	Image       *string `json:"image,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   string  `json:"unit_price"`
	LineTotal   string  `json:"line_total"`
}

type CartView struct {
	ID        int64          `json:"id,omitempty"`
	SessionID *string        `json:"session_id,omitempty"`
	Status    string         `json:"status,omitempty"`
	Items     []CartLineView `json:"items"`
	ItemCount int            `json:"item_count"`
	Subtotal  string         `json:"subtotal"`
	State     string         `json:"state"`
	Syncing   bool           `json:"syncing"`
	Error     string         `json:"error,omitempty"`
}

// ProductLookup resolves display data for a cart line.
type ProductLookup interface {
	Product(id int64) (models.Product, bool)
	ProductLabel(id int64) string
}

func NewCartView(snap cart.Snapshot, products ProductLookup) CartView {
	view := CartView{
		Items:     []CartLineView{},
		ItemCount: snap.ItemCount,
		Subtotal:  snap.Subtotal.String(),
		State:     snap.State.String(),
		Syncing:   snap.Syncing,
	}
	if snap.Err != nil {
		view.Error = snap.Err.Error()
	}
	if snap.Cart == nil {
		return view
	}

	view.ID = snap.Cart.ID
	view.SessionID = snap.Cart.SessionID
	view.Status = string(snap.Cart.Status)
	for _, item := range snap.Cart.Items {
		line := CartLineView{
			ID:          item.ID,
			ProductID:   item.Product,
			ProductName: products.ProductLabel(item.Product),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPriceSnapshot,
		}
		if total, err := item.LineTotal(); err == nil {
			line.LineTotal = total.String()
		}
		if p, ok := products.Product(item.Product); ok {
			line.ProductSlug = p.Slug
			line.Image = p.ImagePrincipal
		}
		view.Items = append(view.Items, line)
	}
	return view
}

package models

import (
	"fmt"
	"time"
)

// Product mirrors the remote catalog record. Price is a decimal string
// with two places, exactly as the API sends it.
type Product struct {
	ID               int64          `json:"id"`
	Category         int64          `json:"category"`
	Name             string         `json:"name"`
	Slug             string         `json:"slug"`
	SKU              *string        `json:"sku"`
	ShortDescription string         `json:"short_description"`
	Description      string         `json:"description"`
	Price            string         `json:"price"`
	Stock            int            `json:"stock"`
	ImagePrincipal   *string        `json:"image_principal"`
	IsFeatured       bool           `json:"is_featured"`
	IsActive         bool           `json:"is_active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Images           []ProductImage `json:"images"`
}

// FallbackProductLabel is shown for cart lines whose product is not in the
// lookup cache.
func FallbackProductLabel(productID int64) string {
	return fmt.Sprintf("Producto #%d", productID)
}

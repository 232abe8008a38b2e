package models

import (
	"fmt"
	"time"
)

type CartStatus string

const (
	CartStatusOpen      CartStatus = "OPEN"
	CartStatusConverted CartStatus = "CONVERTED"
	CartStatusAbandoned CartStatus = "ABANDONED"
)

// CartItem is one cart line. ID is zero until the remote API has persisted
// the line; UnitPriceSnapshot is frozen when the product is first added.
type CartItem struct {
	ID                int64  `json:"id,omitempty"`
	Product           int64  `json:"product"`
	Quantity          int    `json:"quantity"`
	UnitPriceSnapshot string `json:"unit_price_snapshot"`
}

// LineTotal is Quantity x UnitPriceSnapshot.
func (i CartItem) LineTotal() (Cents, error) {
	price, err := ParseCents(i.UnitPriceSnapshot)
	if err != nil {
		return 0, fmt.Errorf("cart line %d: %w", i.ID, err)
	}
	total, err := price.Times(i.Quantity)
	if err != nil {
		return 0, fmt.Errorf("cart line %d: %w", i.ID, err)
	}
	return total, nil
}

type Cart struct {
	ID        int64      `json:"id"`
	User      *int64     `json:"user"`
	SessionID *string    `json:"session_id"`
	Status    CartStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Items     []CartItem `json:"items"`
}

// CartCreatePayload is the body of POST /carts/.
type CartCreatePayload struct {
	SessionID string     `json:"session_id"`
	Status    CartStatus `json:"status"`
}

// CartUpdatePayload is the full-state body of PATCH /carts/{id}/. Items is
// always sent, an empty list clears the cart.
type CartUpdatePayload struct {
	SessionID string     `json:"session_id"`
	Status    CartStatus `json:"status"`
	Items     []CartItem `json:"items"`
}

// ItemCount sums line quantities; a nil cart counts as zero.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums quantity x frozen unit price over all lines.
func (c *Cart) Subtotal() (Cents, error) {
	if c == nil {
		return 0, nil
	}
	var total Cents
	for _, item := range c.Items {
		line, err := item.LineTotal()
		if err != nil {
			return 0, err
		}
		if total, err = total.Plus(line); err != nil {
			return 0, fmt.Errorf("cart subtotal: %w", err)
		}
	}
	return total, nil
}

// Clone returns a deep copy so callers can never mutate engine-owned state.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	if c.User != nil {
		user := *c.User
		out.User = &user
	}
	if c.SessionID != nil {
		session := *c.SessionID
		out.SessionID = &session
	}
	if c.Items != nil {
		out.Items = make([]CartItem, len(c.Items))
		copy(out.Items, c.Items)
	}
	return &out
}

// ItemByID returns the line with the given id.
func (c *Cart) ItemByID(id int64) (CartItem, bool) {
	if c == nil {
		return CartItem{}, false
	}
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CartItem{}, false
}

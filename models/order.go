package models

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodYape     PaymentMethod = "YAPE"
	PaymentMethodPlin     PaymentMethod = "PLIN"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCash     PaymentMethod = "CASH"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodYape,
	PaymentMethodPlin,
	PaymentMethodTransfer,
	PaymentMethodCash,
}

// ParsePaymentMethod accepts any casing; empty input means card.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	if raw == "" {
		return PaymentMethodCard, nil
	}
	for _, m := range PaymentMethods {
		if string(m) == raw {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// OrderPayload is the body of POST /orders/. Money fields are two-place
// decimal strings.
type OrderPayload struct {
	Status              OrderStatus   `json:"status"`
	Subtotal            string        `json:"subtotal"`
	ShippingCost        string        `json:"shipping_cost"`
	DiscountTotal       string        `json:"discount_total"`
	Total               string        `json:"total"`
	PaymentMethod       PaymentMethod `json:"payment_method"`
	PaymentStatus       PaymentStatus `json:"payment_status"`
	ShippingFullName    string        `json:"shipping_full_name"`
	ShippingPhone       string        `json:"shipping_phone"`
	ShippingAddressText string        `json:"shipping_address_text"`
	NotesCustomer       string        `json:"notes_customer,omitempty"`
	NotesAdmin          string        `json:"notes_admin,omitempty"`
}

type OrderItem struct {
	ID                  int64  `json:"id"`
	Product             int64  `json:"product"`
	ProductNameSnapshot string `json:"product_name_snapshot"`
	UnitPriceSnapshot   string `json:"unit_price_snapshot"`
	Quantity            int    `json:"quantity"`
	LineTotal           string `json:"line_total"`
}

type Order struct {
	ID                  int64         `json:"id"`
	User                *int64        `json:"user"`
	Status              OrderStatus   `json:"status"`
	Subtotal            string        `json:"subtotal"`
	ShippingCost        string        `json:"shipping_cost"`
	DiscountTotal       string        `json:"discount_total"`
	Total               string        `json:"total"`
	PaymentMethod       PaymentMethod `json:"payment_method"`
	PaymentStatus       PaymentStatus `json:"payment_status"`
	ShippingFullName    string        `json:"shipping_full_name"`
	ShippingPhone       string        `json:"shipping_phone"`
	ShippingAddressText string        `json:"shipping_address_text"`
	NotesCustomer       string        `json:"notes_customer"`
	NotesAdmin          string        `json:"notes_admin"`
	Items               []OrderItem   `json:"items"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

package dtos

import (
	"time"

	"floure-storefront/checkout"
	"floure-storefront/models"
)

type CheckoutRequest struct {
	ShippingFullName    string `json:"shipping_full_name" binding:"required"`
	ShippingPhone       string `json:"shipping_phone" binding:"required"`
	ShippingEmail       string `json:"shipping_email" binding:"omitempty,email"`
	ShippingAddressText string `json:"shipping_address_text" binding:"required"`
	PaymentMethod       string `json:"payment_method"`
	NotesCustomer       string `json:"notes_customer" binding:"max=1000"`
}

func (r CheckoutRequest) Form() checkout.Form {
	return checkout.Form{
		FullName:      r.ShippingFullName,
		Phone:         r.ShippingPhone,
		Email:         r.ShippingEmail,
		Address:       r.ShippingAddressText,
		PaymentMethod: r.PaymentMethod,
		NotesCustomer: r.NotesCustomer,
	}
}

type OrderResponse struct {
	ID            int64                `json:"id"`
	Status        models.OrderStatus   `json:"status"`
	Total         string               `json:"total"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time            `json:"created_at"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		Status:        o.Status,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		CreatedAt:     o.CreatedAt,
	}
}

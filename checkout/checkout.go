// Package checkout turns the current cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"floure-storefront/logging"
	"floure-storefront/models"

	"go.uber.org/zap"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidForm matches every *FormError.
	ErrInvalidForm = errors.New("invalid checkout form")
)

const adminNotePrefix = "Pedido web Fleuré"

// FormError names the first field that failed validation and the message
// to show the shopper.
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FormError) Is(target error) bool {
	return target == ErrInvalidForm
}

// Form is what the shopper fills in at checkout.
type Form struct {
	FullName      string `json:"shipping_full_name"`
	Phone         string `json:"shipping_phone"`
	Email         string `json:"shipping_email"`
	Address       string `json:"shipping_address_text"`
	PaymentMethod string `json:"payment_method"`
	NotesCustomer string `json:"notes_customer"`
}

func (f Form) Validate() error {
	switch {
	case strings.TrimSpace(f.FullName) == "":
		return &FormError{Field: "shipping_full_name", Message: "Por favor ingresa tu nombre completo para el envío."}
	case strings.TrimSpace(f.Phone) == "":
		return &FormError{Field: "shipping_phone", Message: "Necesitamos tu número de celular para coordinar la entrega."}
	case strings.TrimSpace(f.Address) == "":
		return &FormError{Field: "shipping_address_text", Message: "Indícanos la dirección de entrega."}
	}
	if _, err := models.ParsePaymentMethod(f.PaymentMethod); err != nil {
		return &FormError{Field: "payment_method", Message: "Selecciona un método de pago para continuar."}
	}
	return nil
}

type Totals struct {
	Subtotal models.Cents
	Shipping models.Cents
	Discount models.Cents
	Total    models.Cents
}

// ComputeTotals prices the cart from its frozen unit prices. Shipping and
// discounts are not charged online yet.
func ComputeTotals(cart *models.Cart) (Totals, error) {
	subtotal, err := cart.Subtotal()
	if err != nil {
		return Totals{}, err
	}
	t := Totals{Subtotal: subtotal}
	total, err := t.Subtotal.Plus(t.Shipping)
	if err == nil {
		total, err = total.Minus(t.Discount)
	}
	if err != nil {
		return Totals{}, fmt.Errorf("order total: %w", err)
	}
	t.Total = total
	return t, nil
}

// AdminNote is the staff-facing order note that links an order back to
// the cart and session it came from.
func AdminNote(cart *models.Cart, email string) string {
	session := "N/A"
	if cart.SessionID != nil && *cart.SessionID != "" {
		session = *cart.SessionID
	}
	note := fmt.Sprintf("%s – Cart ID %d – Session %s", adminNotePrefix, cart.ID, session)
	if email = strings.TrimSpace(email); email != "" {
		note += " – Email " + email
	}
	return note
}

func BuildPayload(cart *models.Cart, form Form, totals Totals) models.OrderPayload {
	method, err := models.ParsePaymentMethod(form.PaymentMethod)
	if err != nil {
		method = models.PaymentMethodCard
	}
	return models.OrderPayload{
		Status:              models.OrderStatusCreated,
		Subtotal:            totals.Subtotal.String(),
		ShippingCost:        totals.Shipping.String(),
		DiscountTotal:       totals.Discount.String(),
		Total:               totals.Total.String(),
		PaymentMethod:       method,
		PaymentStatus:       models.PaymentStatusPending,
		ShippingFullName:    strings.TrimSpace(form.FullName),
		ShippingPhone:       strings.TrimSpace(form.Phone),
		ShippingAddressText: strings.TrimSpace(form.Address),
		NotesCustomer:       strings.TrimSpace(form.NotesCustomer),
		NotesAdmin:          AdminNote(cart, form.Email),
	}
}

// CartSource is the cart engine as seen by checkout.
type CartSource interface {
	Cart() *models.Cart
	ClearCart(ctx context.Context) (*models.Cart, error)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.Order, error)
}

type Service struct {
	cart   CartSource
	orders OrderCreator
	log    *zap.Logger
}

func NewService(cart CartSource, orders OrderCreator, log *zap.Logger) *Service {
	return &Service{cart: cart, orders: orders, log: logging.OrNop(log).Named("checkout")}
}

// PlaceOrder creates an order from the loaded cart and then empties the
// cart. Once the order exists a failed clear is only logged.
func (s *Service) PlaceOrder(ctx context.Context, form Form) (*models.Order, error) {
	cart := s.cart.Cart()
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	totals, err := ComputeTotals(cart)
	if err != nil {
		return nil, fmt.Errorf("price cart %d: %w", cart.ID, err)
	}

	order, err := s.orders.CreateOrder(ctx, BuildPayload(cart, form, totals))
	if err != nil {
		s.log.Error("order creation failed", zap.Int64("cart_id", cart.ID), zap.Error(err))
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.log.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("cart_id", cart.ID),
		zap.String("total", totals.Total.String()),
	)

	if _, err := s.cart.ClearCart(ctx); err != nil {
		s.log.Warn("cart not cleared after order", zap.Int64("order_id", order.ID), zap.Int64("cart_id", cart.ID), zap.Error(err))
	}
	return order, nil
}

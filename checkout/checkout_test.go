package checkout

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"floure-storefront/api"
	"floure-storefront/apitest"
	"floure-storefront/cart"
	"floure-storefront/identity"
	"floure-storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{
		FullName:      "Ana Torres",
		Phone:         "999111222",
		Email:         "ana@example.pe",
		Address:       "Av. Larco 123, Miraflores",
		PaymentMethod: "yape",
		NotesCustomer: "Tocar el timbre",
	}
}

func TestFormValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Form)
		field string
	}{
		{"valid", func(*Form) {}, ""},
		{"missing name", func(f *Form) { f.FullName = "  " }, "shipping_full_name"},
		{"missing phone", func(f *Form) { f.Phone = "" }, "shipping_phone"},
		{"missing address", func(f *Form) { f.Address = "" }, "shipping_address_text"},
		{"unknown payment", func(f *Form) { f.PaymentMethod = "bitcoin" }, "payment_method"},
		{"default payment", func(f *Form) { f.PaymentMethod = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.edit(&form)
			err := form.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidForm)
			var formErr *FormError
			require.True(t, errors.As(err, &formErr))
			assert.Equal(t, tt.field, formErr.Field)
			assert.NotEmpty(t, formErr.Message)
		})
	}
}

func TestComputeTotals(t *testing.T) {
	c := &models.Cart{Items: []models.CartItem{
		{Product: 1, Quantity: 2, UnitPriceSnapshot: "12.50"},
		{Product: 3, Quantity: 1, UnitPriceSnapshot: "8.75"},
	}}

	totals, err := ComputeTotals(c)
	require.NoError(t, err)
	assert.Equal(t, models.Cents(3375), totals.Subtotal)
	assert.Equal(t, models.Cents(0), totals.Shipping)
	assert.Equal(t, models.Cents(0), totals.Discount)
	assert.Equal(t, totals.Subtotal, totals.Total)

	c.Items[0].UnitPriceSnapshot = "abc"
	_, err = ComputeTotals(c)
	assert.Error(t, err)

	c.Items[0] = models.CartItem{Product: 1, Quantity: 1000, UnitPriceSnapshot: "99999999999999.00"}
	_, err = ComputeTotals(c)
	assert.ErrorIs(t, err, models.ErrAmountOutOfRange)
}

func TestAdminNote(t *testing.T) {
	session := "abc-123"
	assert.Equal(t, "Pedido web Fleuré – Cart ID 7 – Session abc-123 – Email ana@example.pe",
		AdminNote(&models.Cart{ID: 7, SessionID: &session}, " ana@example.pe "))
	assert.Equal(t, "Pedido web Fleuré – Cart ID 7 – Session N/A",
		AdminNote(&models.Cart{ID: 7}, ""))
}

func TestBuildPayload(t *testing.T) {
	session := "s-1"
	c := &models.Cart{ID: 4, SessionID: &session}
	form := validForm()
	form.NotesCustomer = ""

	payload := BuildPayload(c, form, Totals{Subtotal: 2500, Total: 2500})
	assert.Equal(t, models.OrderStatusCreated, payload.Status)
	assert.Equal(t, models.PaymentStatusPending, payload.PaymentStatus)
	assert.Equal(t, models.PaymentMethodYape, payload.PaymentMethod)
	assert.Equal(t, "25.00", payload.Subtotal)
	assert.Equal(t, "0.00", payload.ShippingCost)
	assert.Equal(t, "0.00", payload.DiscountTotal)
	assert.Equal(t, "25.00", payload.Total)
	assert.Empty(t, payload.NotesCustomer)
	assert.Contains(t, payload.NotesAdmin, "Cart ID 4")

	form.PaymentMethod = ""
	assert.Equal(t, models.PaymentMethodCard, BuildPayload(c, form, Totals{}).PaymentMethod)
}

type checkoutFixture struct {
	srv     *apitest.Server
	engine  *cart.Engine
	service *Service
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	srv := apitest.NewServer(t)
	client := api.NewClient(srv.BaseURL())
	engine := cart.NewEngine(client, identity.NewStore(nil, nil), nil)
	return &checkoutFixture{srv: srv, engine: engine, service: NewService(engine, client, nil)}
}

func TestPlaceOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	products := f.srv.Products()

	_, err := f.engine.AddToCart(ctx, products[0], 2)
	require.NoError(t, err)
	_, err = f.engine.AddToCart(ctx, products[2], 1)
	require.NoError(t, err)
	cartID := f.engine.Cart().ID

	order, err := f.service.PlaceOrder(ctx, validForm())
	require.NoError(t, err)
	assert.NotZero(t, order.ID)

	orders := f.srv.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "33.75", orders[0].Subtotal)
	assert.Equal(t, "33.75", orders[0].Total)
	assert.Equal(t, models.PaymentMethodYape, orders[0].PaymentMethod)
	assert.Equal(t, "Tocar el timbre", orders[0].NotesCustomer)
	assert.Contains(t, orders[0].NotesAdmin, "Email ana@example.pe")

	assert.Equal(t, 0, f.engine.ItemCount())
	stored, ok := f.srv.Cart(cartID)
	require.True(t, ok)
	assert.Empty(t, stored.Items)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.service.PlaceOrder(context.Background(), validForm())
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = f.engine.Initialize(context.Background())
	require.NoError(t, err)
	_, err = f.service.PlaceOrder(context.Background(), validForm())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, f.srv.Hits(apitest.RouteCreateOrder))
}

func TestPlaceOrderInvalidForm(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.engine.AddToCart(context.Background(), f.srv.Products()[0], 1)
	require.NoError(t, err)

	form := validForm()
	form.Address = ""
	_, err = f.service.PlaceOrder(context.Background(), form)
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Equal(t, 0, f.srv.Hits(apitest.RouteCreateOrder))
}

func TestPlaceOrderCreateFailureKeepsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	_, err := f.engine.AddToCart(ctx, f.srv.Products()[0], 1)
	require.NoError(t, err)
	f.srv.Fail(apitest.RouteCreateOrder, http.StatusInternalServerError)

	_, err = f.service.PlaceOrder(ctx, validForm())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, api.StatusCode(err))
	assert.Equal(t, 1, f.engine.ItemCount())
}

func TestPlaceOrderSucceedsWhenClearFails(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	_, err := f.engine.AddToCart(ctx, f.srv.Products()[0], 1)
	require.NoError(t, err)
	f.srv.Fail(apitest.RouteUpdateCart, http.StatusBadGateway)

	order, err := f.service.PlaceOrder(ctx, validForm())
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Len(t, f.srv.Orders(), 1)
	assert.Equal(t, 1, f.engine.ItemCount())
}

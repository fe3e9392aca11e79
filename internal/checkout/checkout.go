// Package checkout validates the delivery address and places orders from
// the server-side cart.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

// DefaultCountry is used when the address has none.
const DefaultCountry = "India"

// FailureMessage is shown when the backend gives no reason.
const FailureMessage = "Failed to place order"

// FieldError reports a missing required address field.
type FieldError struct{ Field string }

func (e *FieldError) Error() string { return "Please enter " + words(e.Field) }

func (e *FieldError) Unwrap() error { return errs.ErrValidation }

// words turns a camelCase field name into lower-case words.
func words(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Validate checks the required fields in display order and reports the first missing one.
func Validate(a model.ShippingAddress) error {
	required := []struct {
		name  string
		value string
	}{
		{"fullName", a.FullName},
		{"phone", a.Phone},
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"zipCode", a.ZipCode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &FieldError{Field: f.name}
		}
	}
	return nil
}

// Orders creates orders.
type Orders interface {
	Create(ctx context.Context, r model.OrderRequest) (model.Order, error)
}

// Cart is the cart store as checkout sees it.
type Cart interface {
	FetchCart(ctx context.Context) error
	Cart() model.Cart
	ClearCart(ctx context.Context) error
}

// Service places orders.
type Service struct {
	orders Orders
	cart   Cart
	log    *zap.Logger
}

// New constructs a checkout service.
func New(orders Orders, cart Cart, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{orders: orders, cart: cart, log: log}
}

// Prepare fills defaults: COD payment and the default country.
func Prepare(r model.OrderRequest) model.OrderRequest {
	if r.PaymentMethod == "" {
		r.PaymentMethod = model.PaymentCOD
	}
	if strings.TrimSpace(r.ShippingAddress.Country) == "" {
		r.ShippingAddress.Country = DefaultCountry
	}
	return r
}

// PlaceOrder validates r, refreshes the cart, creates the order and then
// clears the cart. Nothing is sent when validation fails or the cart is
// empty. A failed cart clear after a placed order is only logged.
func (s *Service) PlaceOrder(ctx context.Context, r model.OrderRequest) (model.Order, error) {
	r = Prepare(r)
	if err := Validate(r.ShippingAddress); err != nil {
		return model.Order{}, err
	}
	switch r.PaymentMethod {
	case model.PaymentCOD, model.PaymentCard, model.PaymentUPI:
	default:
		return model.Order{}, fmt.Errorf("payment method %q: %w", r.PaymentMethod, errs.ErrValidation)
	}

	if err := s.cart.FetchCart(ctx); err != nil {
		return model.Order{}, fmt.Errorf("place order: %w", err)
	}
	if s.cart.Cart().Empty() {
		return model.Order{}, errs.ErrEmptyCart
	}

	order, err := s.orders.Create(ctx, r)
	if err != nil {
		return model.Order{}, fmt.Errorf("place order: %w", err)
	}
	s.log.Info("order placed", zap.String("order_id", order.ID), zap.String("order_number", order.OrderNumber))

	if err := s.cart.ClearCart(ctx); err != nil {
		s.log.Warn("clear cart after order", zap.String("order_id", order.ID), zap.Error(err))
	}
	return order, nil
}

// OrderPath is the view shown after a successful order.
func OrderPath(o model.Order) string { return "/orders/" + o.ID }

// Shipping estimate shown before the order is placed; the server computes the real charge.
const (
	FreeShippingOver = 500.0
	ShippingFee      = 50.0
)

// Totals is the pre-order estimate for a cart.
type Totals struct {
	Subtotal float64
	Shipping float64
	Total    float64
}

// Estimate derives display totals from the server's cart total.
func Estimate(c model.Cart) Totals {
	t := Totals{Subtotal: c.TotalPrice}
	if t.Subtotal <= FreeShippingOver {
		t.Shipping = ShippingFee
	}
	t.Total = t.Subtotal + t.Shipping
	return t
}

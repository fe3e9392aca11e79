package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

// CartBackend is the cart part of the API.
type CartBackend interface {
	Get(ctx context.Context) (model.Cart, error)
	AddItem(ctx context.Context, productID string, quantity int) (model.Cart, error)
	UpdateItem(ctx context.Context, productID string, quantity int) (model.Cart, error)
	RemoveItem(ctx context.Context, productID string) (model.Cart, error)
	Clear(ctx context.Context) error
	ApplyCoupon(ctx context.Context, code string) (model.Cart, error)
	RemoveCoupon(ctx context.Context) (model.Cart, error)
}

// CartState is a snapshot of the cart store.
type CartState struct {
	Cart      model.Cart
	IsLoading bool
	Error     string
}

// Cart caches the server cart. Each successful call replaces the whole
// cached cart with the server's response.
type Cart struct {
	api CartBackend
	log *zap.Logger

	mu    sync.RWMutex
	state CartState
	seq   tracker
	subs  hub[CartState]
}

// NewCart constructs an empty cart store.
func NewCart(api CartBackend, log *zap.Logger) *Cart {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cart{api: api, log: log}
}

// State returns a snapshot.
func (c *Cart) State() CartState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.state
	s.Cart = s.Cart.Clone()
	return s
}

// Cart returns the cached cart; empty before the first fetch.
func (c *Cart) Cart() model.Cart { return c.State().Cart }

// Subscribe delivers a snapshot after every change until ctx is done.
func (c *Cart) Subscribe(ctx context.Context) <-chan CartState { return c.subs.subscribe(ctx) }

// FetchCart loads the cart from the server.
func (c *Cart) FetchCart(ctx context.Context) error {
	return c.run(ctx, "fetch", c.api.Get)
}

// AddToCart adds quantity of productID.
func (c *Cart) AddToCart(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("add %s: %w", productID, errs.ErrInvalidQuantity)
	}
	return c.run(ctx, "add", func(ctx context.Context) (model.Cart, error) {
		return c.api.AddItem(ctx, productID, quantity)
	})
}

// UpdateItemQuantity sets the quantity of productID. Quantities below 1
// are rejected before any request; use RemoveFromCart instead.
func (c *Cart) UpdateItemQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("update %s: %w", productID, errs.ErrInvalidQuantity)
	}
	return c.run(ctx, "update", func(ctx context.Context) (model.Cart, error) {
		return c.api.UpdateItem(ctx, productID, quantity)
	})
}

// RemoveFromCart drops productID.
func (c *Cart) RemoveFromCart(ctx context.Context, productID string) error {
	return c.run(ctx, "remove", func(ctx context.Context) (model.Cart, error) {
		return c.api.RemoveItem(ctx, productID)
	})
}

// ClearCart empties the cart. The clear endpoint has no cart body, so the
// cart is re-fetched within the same request slot.
func (c *Cart) ClearCart(ctx context.Context) error {
	return c.run(ctx, "clear", func(ctx context.Context) (model.Cart, error) {
		if err := c.api.Clear(ctx); err != nil {
			return model.Cart{}, err
		}
		return c.api.Get(ctx)
	})
}

// ApplyCoupon applies a coupon code; the server recomputes totals.
func (c *Cart) ApplyCoupon(ctx context.Context, code string) error {
	return c.run(ctx, "apply coupon", func(ctx context.Context) (model.Cart, error) {
		return c.api.ApplyCoupon(ctx, code)
	})
}

// RemoveCoupon drops the applied coupon.
func (c *Cart) RemoveCoupon(ctx context.Context) error {
	return c.run(ctx, "remove coupon", c.api.RemoveCoupon)
}

// Reset empties the cache. Responses to requests issued before Reset are discarded.
func (c *Cart) Reset() {
	c.mu.Lock()
	c.seq.invalidate()
	c.state = CartState{}
	s := c.state
	c.mu.Unlock()
	c.subs.publish(s)
}

func (c *Cart) run(ctx context.Context, op string, call func(context.Context) (model.Cart, error)) error {
	c.mu.Lock()
	seq := c.seq.begin()
	c.state.IsLoading = true
	c.state.Error = ""
	started := c.state
	started.Cart = started.Cart.Clone()
	c.mu.Unlock()
	c.subs.publish(started)

	cart, err := call(ctx)

	c.mu.Lock()
	fresh := c.seq.end(seq, err == nil)
	c.state.IsLoading = c.seq.busy()
	switch {
	case !fresh:
		c.log.Debug("stale cart response discarded", zap.String("op", op), zap.Uint64("seq", seq))
	case err != nil:
		c.state.Error = failureMessage(err)
	default:
		c.state.Cart = cart.Clone()
		c.state.Error = ""
	}
	s := c.state
	s.Cart = s.Cart.Clone()
	c.mu.Unlock()
	c.subs.publish(s)

	if err != nil {
		c.log.Warn("cart "+op, zap.Error(err))
		return fmt.Errorf("cart %s: %w", op, err)
	}
	return nil
}

// failureMessage is the state error for err. A 401 is owned by the session
// expiry policy and leaves no message behind.
func failureMessage(err error) string {
	if errors.Is(err, errs.ErrUnauthorized) {
		return ""
	}
	return errs.Message(err, "")
}

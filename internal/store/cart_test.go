package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

// fakeCartAPI keeps a server-side cart and prices lines with a fixed table.
type fakeCartAPI struct {
	mu     sync.Mutex
	prices map[string]float64
	items  []model.CartItem
	coupon string
	err    error
	calls  int
}

var _ CartBackend = (*fakeCartAPI)(nil)

func (f *fakeCartAPI) snapshot() model.Cart {
	c := model.Cart{Items: append([]model.CartItem(nil), f.items...), CouponCode: f.coupon}
	for _, it := range c.Items {
		c.TotalItems += it.Quantity
		c.TotalPrice += it.Subtotal
	}
	if f.coupon != "" {
		c.Discount = 10
		c.TotalPrice -= 10
	}
	return c
}

func (f *fakeCartAPI) set(id string, qty int) {
	for i := range f.items {
		if f.items[i].ProductID == id {
			f.items[i].Quantity = qty
			f.items[i].Subtotal = float64(qty) * f.items[i].Price
			return
		}
	}
	p := f.prices[id]
	f.items = append(f.items, model.CartItem{ProductID: id, Price: p, Quantity: qty, Subtotal: float64(qty) * p})
}

func (f *fakeCartAPI) call() error {
	f.calls++
	return f.err
}

func (f *fakeCartAPI) Get(context.Context) (model.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(); err != nil {
		return model.Cart{}, err
	}
	return f.snapshot(), nil
}

func (f *fakeCartAPI) AddItem(_ context.Context, id string, qty int) (model.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(); err != nil {
		return model.Cart{}, err
	}
	cur, _ := f.snapshot().Item(id)
	f.set(id, cur.Quantity+qty)
	return f.snapshot(), nil
}

func (f *fakeCartAPI) UpdateItem(_ context.Context, id string, qty int) (model.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(); err != nil {
		return model.Cart{}, err
	}
	f.set(id, qty)
	return f.snapshot(), nil
}

func (f *fakeCartAPI) RemoveItem(_ context.Context, id string) (model.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(); err != nil {
		return model.Cart{}, err
	}
	kept := f.items[:0]
	for _, it := range f.items {
		if it.ProductID != id {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return f.snapshot(), nil
}

func (f *fakeCartAPI) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(); err != nil {
		return err
	}
	f.items = nil
	f.coupon = ""
	return nil
}

func (f *fakeCartAPI) ApplyCoupon(_ context.Context, code string) (model.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(); err != nil {
		return model.Cart{}, err
	}
	f.coupon = code
	return f.snapshot(), nil
}

func (f *fakeCartAPI) RemoveCoupon(context.Context) (model.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call(); err != nil {
		return model.Cart{}, err
	}
	f.coupon = ""
	return f.snapshot(), nil
}

func (f *fakeCartAPI) server() model.Cart {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func TestCart_EmptyBeforeFetch(t *testing.T) {
	t.Parallel()

	c := NewCart(&fakeCartAPI{}, nil)
	require.True(t, c.Cart().Empty())
	require.Zero(t, c.Cart().TotalPrice)
	require.False(t, c.State().IsLoading)
}

func TestCart_AddToEmptyCart(t *testing.T) {
	t.Parallel()

	api := &fakeCartAPI{prices: map[string]float64{"p1": 250}}
	c := NewCart(api, zaptest.NewLogger(t))

	require.NoError(t, c.AddToCart(context.Background(), "p1", 1))
	cart := c.Cart()
	require.Len(t, cart.Items, 1)
	require.Equal(t, 1, cart.Items[0].Quantity)
	require.Equal(t, 250.0, cart.TotalPrice)
}

func TestCart_EveryMutationMirrorsServer(t *testing.T) {
	t.Parallel()

	api := &fakeCartAPI{prices: map[string]float64{"p1": 100, "p2": 40.5, "p3": 7}}
	c := NewCart(api, zaptest.NewLogger(t))
	ctx := context.Background()

	steps := []func() error{
		func() error { return c.FetchCart(ctx) },
		func() error { return c.AddToCart(ctx, "p1", 2) },
		func() error { return c.AddToCart(ctx, "p2", 1) },
		func() error { return c.UpdateItemQuantity(ctx, "p1", 5) },
		func() error { return c.ApplyCoupon(ctx, "SAVE10") },
		func() error { return c.AddToCart(ctx, "p3", 3) },
		func() error { return c.RemoveFromCart(ctx, "p2") },
		func() error { return c.RemoveCoupon(ctx) },
		func() error { return c.ClearCart(ctx) },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		require.Equal(t, api.server(), c.Cart(), "step %d", i)
	}
}

func TestCart_CouponTotalsComeFromServer(t *testing.T) {
	t.Parallel()

	api := &fakeCartAPI{prices: map[string]float64{"p1": 100}}
	c := NewCart(api, nil)
	ctx := context.Background()

	require.NoError(t, c.AddToCart(ctx, "p1", 1))
	require.NoError(t, c.ApplyCoupon(ctx, "SAVE10"))
	require.Equal(t, 90.0, c.Cart().TotalPrice)
	require.Equal(t, "SAVE10", c.Cart().CouponCode)
}

func TestCart_QuantityBelowOneNeverSent(t *testing.T) {
	t.Parallel()

	api := &fakeCartAPI{}
	c := NewCart(api, nil)

	for _, q := range []int{0, -1} {
		require.ErrorIs(t, c.UpdateItemQuantity(context.Background(), "p1", q), errs.ErrInvalidQuantity)
		require.ErrorIs(t, c.AddToCart(context.Background(), "p1", q), errs.ErrInvalidQuantity)
	}
	require.Zero(t, api.calls)
}

func TestCart_FailureKeepsPreviousCart(t *testing.T) {
	t.Parallel()

	api := &fakeCartAPI{prices: map[string]float64{"p1": 100}}
	c := NewCart(api, zaptest.NewLogger(t))
	ctx := context.Background()
	require.NoError(t, c.AddToCart(ctx, "p1", 2))
	before := c.Cart()

	api.err = &errs.APIError{Status: 400, Message: "Insufficient stock"}
	err := c.UpdateItemQuantity(ctx, "p1", 50)
	require.Error(t, err)

	st := c.State()
	require.Equal(t, before, st.Cart)
	require.False(t, st.IsLoading)
	require.Equal(t, "Insufficient stock", st.Error)

	api.err = nil
	require.NoError(t, c.FetchCart(ctx))
	require.Empty(t, c.State().Error)
}

func TestCart_UnauthorizedLeavesNoMessage(t *testing.T) {
	t.Parallel()

	api := &fakeCartAPI{err: &errs.APIError{Status: 401, Message: "Token expired"}}
	c := NewCart(api, nil)

	err := c.FetchCart(context.Background())
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	require.Empty(t, c.State().Error)
}

func TestCart_LoadingWhileInFlight(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	api := &gatedCartAPI{fakeCartAPI: &fakeCartAPI{}, gates: map[int]chan struct{}{1: gate}}
	c := NewCart(api, nil)

	done := make(chan error, 1)
	go func() { done <- c.FetchCart(context.Background()) }()

	require.Eventually(t, func() bool { return c.State().IsLoading }, time.Second, 5*time.Millisecond)
	close(gate)
	require.NoError(t, <-done)
	require.False(t, c.State().IsLoading)
}

// gatedCartAPI holds the n-th Get until its gate is closed.
type gatedCartAPI struct {
	*fakeCartAPI
	mu    sync.Mutex
	n     int
	gates map[int]chan struct{}
	resps map[int]model.Cart
}

func (g *gatedCartAPI) Get(ctx context.Context) (model.Cart, error) {
	g.mu.Lock()
	g.n++
	n := g.n
	gate := g.gates[n]
	resp, fixed := g.resps[n]
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if fixed {
		return resp, nil
	}
	return g.fakeCartAPI.Get(ctx)
}

func TestCart_StaleResponseDiscarded(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	api := &gatedCartAPI{
		fakeCartAPI: &fakeCartAPI{},
		gates:       map[int]chan struct{}{1: gate},
		resps: map[int]model.Cart{
			1: {Items: []model.CartItem{{ProductID: "old", Price: 1, Quantity: 1}}, TotalPrice: 1},
			2: {Items: []model.CartItem{{ProductID: "new", Price: 2, Quantity: 1}}, TotalPrice: 2},
		},
	}
	c := NewCart(api, zaptest.NewLogger(t))

	slow := make(chan error, 1)
	go func() { slow <- c.FetchCart(context.Background()) }()
	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return api.n == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, c.FetchCart(context.Background()))
	require.True(t, c.State().IsLoading, "first request still in flight")

	close(gate)
	require.NoError(t, <-slow)

	st := c.State()
	require.False(t, st.IsLoading)
	require.Equal(t, 2.0, st.Cart.TotalPrice, "the older response must not overwrite the newer one")
	_, ok := st.Cart.Item("new")
	require.True(t, ok)
}

func TestCart_ResetDiscardsInFlight(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	api := &gatedCartAPI{
		fakeCartAPI: &fakeCartAPI{},
		gates:       map[int]chan struct{}{1: gate},
		resps:       map[int]model.Cart{1: {TotalPrice: 99, Items: []model.CartItem{{ProductID: "x", Quantity: 1}}}},
	}
	c := NewCart(api, nil)

	done := make(chan error, 1)
	go func() { done <- c.FetchCart(context.Background()) }()
	require.Eventually(t, func() bool { return c.State().IsLoading }, time.Second, 5*time.Millisecond)

	c.Reset()
	close(gate)
	require.NoError(t, <-done)
	require.True(t, c.Cart().Empty())
}

func TestCart_SubscribersGetSnapshots(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	api := &fakeCartAPI{prices: map[string]float64{"p1": 5}}
	c := NewCart(api, nil)
	ch := c.Subscribe(ctx)

	require.NoError(t, c.AddToCart(context.Background(), "p1", 1))
	require.True(t, (<-ch).IsLoading)
	last := <-ch
	require.False(t, last.IsLoading)
	require.Equal(t, 5.0, last.Cart.TotalPrice)
}

package store

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/shopfront/internal/model"
)

// WishlistBackend is the wishlist part of the API. Mutations carry no
// wishlist body; the store re-fetches after each one.
type WishlistBackend interface {
	Get(ctx context.Context) ([]model.Product, error)
	Add(ctx context.Context, productID string) error
	Remove(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
	MoveToCart(ctx context.Context, productID string) error
}

// CartRefresher is refreshed after an item moves from the wishlist to the cart.
type CartRefresher interface {
	FetchCart(ctx context.Context) error
}

// WishlistState is a snapshot of the wishlist store.
type WishlistState struct {
	Items     []model.WishlistItem
	IsLoading bool
	Error     string
}

// Wishlist caches the saved products.
type Wishlist struct {
	api  WishlistBackend
	cart CartRefresher
	log  *zap.Logger

	mu    sync.RWMutex
	state WishlistState
	index map[string]struct{}
	seq   tracker
	subs  hub[WishlistState]
}

// NewWishlist constructs an empty wishlist store. cart may be nil.
func NewWishlist(api WishlistBackend, cart CartRefresher, log *zap.Logger) *Wishlist {
	if log == nil {
		log = zap.NewNop()
	}
	return &Wishlist{api: api, cart: cart, log: log}
}

func (w *Wishlist) snapshot() WishlistState {
	s := w.state
	s.Items = append([]model.WishlistItem(nil), s.Items...)
	return s
}

// State returns a snapshot.
func (w *Wishlist) State() WishlistState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshot()
}

// Items returns the cached wishlist in server order.
func (w *Wishlist) Items() []model.WishlistItem { return w.State().Items }

// IsInWishlist reports cached membership. It never fails and is false
// before the first fetch.
func (w *Wishlist) IsInWishlist(productID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.index[productID]
	return ok
}

// Subscribe delivers a snapshot after every change until ctx is done.
func (w *Wishlist) Subscribe(ctx context.Context) <-chan WishlistState {
	return w.subs.subscribe(ctx)
}

// FetchWishlist loads the wishlist from the server.
func (w *Wishlist) FetchWishlist(ctx context.Context) error {
	return w.run(ctx, "fetch", nil)
}

// AddToWishlist saves p.
func (w *Wishlist) AddToWishlist(ctx context.Context, p model.Product) error {
	return w.run(ctx, "add", func(ctx context.Context) error { return w.api.Add(ctx, p.ID) })
}

// RemoveFromWishlist drops productID.
func (w *Wishlist) RemoveFromWishlist(ctx context.Context, productID string) error {
	return w.run(ctx, "remove", func(ctx context.Context) error { return w.api.Remove(ctx, productID) })
}

// ClearWishlist drops every saved product.
func (w *Wishlist) ClearWishlist(ctx context.Context) error {
	return w.run(ctx, "clear", w.api.Clear)
}

// MoveToCart moves productID into the cart and refreshes both stores.
func (w *Wishlist) MoveToCart(ctx context.Context, productID string) error {
	if err := w.run(ctx, "move to cart", func(ctx context.Context) error {
		return w.api.MoveToCart(ctx, productID)
	}); err != nil {
		return err
	}
	if w.cart == nil {
		return nil
	}
	return w.cart.FetchCart(ctx)
}

// Reset empties the cache. Responses to requests issued before Reset are discarded.
func (w *Wishlist) Reset() {
	w.mu.Lock()
	w.seq.invalidate()
	w.state = WishlistState{}
	w.index = nil
	s := w.snapshot()
	w.mu.Unlock()
	w.subs.publish(s)
}

// run performs mutate (if any) and then re-fetches, both under one sequence number.
func (w *Wishlist) run(ctx context.Context, op string, mutate func(context.Context) error) error {
	w.mu.Lock()
	seq := w.seq.begin()
	w.state.IsLoading = true
	w.state.Error = ""
	started := w.snapshot()
	w.mu.Unlock()
	w.subs.publish(started)

	var products []model.Product
	var err error
	if mutate != nil {
		err = mutate(ctx)
	}
	if err == nil {
		products, err = w.api.Get(ctx)
	}

	w.mu.Lock()
	fresh := w.seq.end(seq, err == nil)
	w.state.IsLoading = w.seq.busy()
	switch {
	case !fresh:
		w.log.Debug("stale wishlist response discarded", zap.String("op", op), zap.Uint64("seq", seq))
	case err != nil:
		w.state.Error = failureMessage(err)
	default:
		w.replace(products)
	}
	s := w.snapshot()
	w.mu.Unlock()
	w.subs.publish(s)

	if err != nil {
		w.log.Warn("wishlist "+op, zap.Error(err))
		return fmt.Errorf("wishlist %s: %w", op, err)
	}
	return nil
}

// replace installs the server list, keeping the first entry per product.
func (w *Wishlist) replace(products []model.Product) {
	items := make([]model.WishlistItem, 0, len(products))
	index := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, dup := index[p.ID]; dup {
			continue
		}
		index[p.ID] = struct{}{}
		items = append(items, model.WishlistItemFromProduct(p))
	}
	w.state.Items = items
	w.state.Error = ""
	w.index = index
}

// Package store holds the client-side caches of server state: the auth
// session, the cart and the wishlist. Each store is an explicit container
// with a mutation API and change notification; none of them is a global.
package store

import (
	"context"
	"sync"
)

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 16

// hub fans state snapshots out to subscribers without blocking the store.
// A subscriber that does not keep up misses intermediate snapshots.
type hub[T any] struct {
	mu   sync.Mutex
	subs map[chan T]struct{}
}

func (h *hub[T]) subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, subscriberBuffer)
	h.mu.Lock()
	if h.subs == nil {
		h.subs = make(map[chan T]struct{})
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		close(ch)
		h.mu.Unlock()
	}()
	return ch
}

func (h *hub[T]) publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- v:
		default:
		}
	}
}

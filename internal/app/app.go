// Package app assembles the client: API client, stores, session persistence,
// navigation and the session expiry policy that ties them together.
package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/shopfront/internal/api"
	"github.com/and161185/shopfront/internal/checkout"
	"github.com/and161185/shopfront/internal/config"
	"github.com/and161185/shopfront/internal/route"
	"github.com/and161185/shopfront/internal/session"
	"github.com/and161185/shopfront/internal/store"
)

// Options configures New.
type Options struct {
	Config config.Config
	// Persister overrides the backend selected by Config.
	Persister session.Persister
	// Navigator defaults to an in-memory history starting at "/".
	Navigator route.Navigator
	Logger    *zap.Logger
	Transport http.RoundTripper
	// OnSessionExpired runs after a 401 ended a session that was held.
	// A rejected login carries no session and does not trigger it.
	OnSessionExpired func()
}

// App is the wired client.
type App struct {
	Client   *api.Client
	Auth     *store.Auth
	Cart     *store.Cart
	Wishlist *store.Wishlist
	Checkout *checkout.Service
	Nav      route.Navigator

	persist   session.Persister
	log       *zap.Logger
	onExpired func()
}

// New wires everything and restores the persisted session. A session that
// cannot be restored is logged and the client starts anonymous.
func New(ctx context.Context, o Options) (*App, error) {
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	p := o.Persister
	if p == nil {
		var err error
		if p, err = session.Open(ctx, o.Config.Session()); err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
	}
	nav := o.Navigator
	if nav == nil {
		nav = route.NewHistory(route.Home, nil)
	}

	a := &App{Nav: nav, persist: p, log: log, onExpired: o.OnSessionExpired}
	client, err := api.New(api.Config{
		BaseURL:        o.Config.APIURL,
		Timeout:        o.Config.Timeout,
		Tokens:         func() string { return a.Auth.Token() },
		OnUnauthorized: a.sessionExpired,
		Logger:         log.Named("api"),
		Transport:      o.Transport,
	})
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	a.Client = client
	a.Auth = store.NewAuth(client.Auth, client.Users,
		store.WithPersister(p),
		store.WithExpiry(session.Expired),
		store.WithAuthLogger(log.Named("auth")),
	)
	a.Cart = store.NewCart(client.Cart, log.Named("cart"))
	a.Wishlist = store.NewWishlist(client.Wishlist, a.Cart, log.Named("wishlist"))
	a.Checkout = checkout.New(client.Orders, a.Cart, log.Named("checkout"))

	if err := a.Auth.Restore(ctx); err != nil {
		log.Warn("restore session", zap.Error(err))
	}
	return a, nil
}

// sessionExpired is the 401 policy: drop the session and every cache of
// per-user state, then go to the login view unless already there.
func (a *App) sessionExpired(req *http.Request) {
	held := a.Auth.Token() != ""
	a.log.Info("unauthorized", zap.String("path", req.URL.Path), zap.Bool("session_held", held))
	a.Logout()
	route.RedirectToLogin(a.Nav)
	if held && a.onExpired != nil {
		a.onExpired()
	}
}

// Logout clears the session and the per-user caches.
func (a *App) Logout() {
	a.Auth.Logout()
	a.Cart.Reset()
	a.Wishlist.Reset()
}

// Visit applies the route guard for path and navigates to the target.
func (a *App) Visit(path string) route.Decision {
	d := route.Allow(a.Auth, path)
	if d.Allowed {
		a.Nav.Navigate(path)
	} else {
		a.Nav.Navigate(d.Redirect)
	}
	return d
}

// Close releases the session store.
func (a *App) Close() error { return a.persist.Close() }

// Package route holds the fixed view table of the storefront and the guards
// that gate authenticated and admin views.
package route

import (
	"strings"
	"sync"
)

// Access is the audience a view is open to.
type Access int

const (
	Public Access = iota
	Authenticated
	Admin
)

func (a Access) String() string {
	switch a {
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	}
	return "public"
}

// Well-known paths.
const (
	Home  = "/"
	Login = "/login"
)

// Route is one view path. Segments starting with ':' match any single segment.
type Route struct {
	Pattern string
	Name    string
	Access  Access
}

// Table is every view of the storefront.
var Table = []Route{
	{"/", "home", Public},
	{"/products", "products", Public},
	{"/products/:id", "product-details", Public},
	{"/wishlist", "wishlist", Public},
	{"/login", "login", Public},
	{"/register", "register", Public},

	{"/cart", "cart", Authenticated},
	{"/checkout", "checkout", Authenticated},
	{"/profile", "profile", Authenticated},
	{"/orders", "orders", Authenticated},
	{"/orders/:id", "order-details", Authenticated},

	{"/admin", "admin-dashboard", Admin},
	{"/admin/products", "admin-products", Admin},
	{"/admin/products/new", "admin-product-new", Admin},
	{"/admin/products/:id/edit", "admin-product-edit", Admin},
	{"/admin/categories", "admin-categories", Admin},
	{"/admin/orders", "admin-orders", Admin},
	{"/admin/orders/:id", "admin-order-details", Admin},
	{"/admin/users", "admin-users", Admin},
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Match finds the route for path and its parameters. Literal segments win
// over parameters, so /admin/products/new is not an edit of product "new".
func Match(path string) (Route, map[string]string, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segs := split(path)
	var (
		best       Route
		bestParams map[string]string
		bestScore  = -1
	)
	for _, r := range Table {
		pat := split(r.Pattern)
		if len(pat) != len(segs) {
			continue
		}
		params := map[string]string{}
		score := 0
		ok := true
		for i, p := range pat {
			switch {
			case strings.HasPrefix(p, ":"):
				params[p[1:]] = segs[i]
			case p == segs[i]:
				score++
			default:
				ok = false
			}
			if !ok {
				break
			}
		}
		if ok && score > bestScore {
			best, bestParams, bestScore = r, params, score
		}
	}
	return best, bestParams, bestScore >= 0
}

// Viewer is what guards consult; the auth store implements it.
type Viewer interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Decision is the outcome of a guard.
type Decision struct {
	Allowed  bool
	Redirect string
	Route    Route
}

// Allow applies the guard of path for v. Anonymous users are sent to the
// login view; signed-in users without the admin role are sent home.
// Unknown paths are allowed so the caller can render its own not-found.
func Allow(v Viewer, path string) Decision {
	r, _, ok := Match(path)
	if !ok {
		return Decision{Allowed: true}
	}
	d := Decision{Route: r}
	switch r.Access {
	case Public:
		d.Allowed = true
	case Authenticated:
		if d.Allowed = v.IsAuthenticated(); !d.Allowed {
			d.Redirect = Login
		}
	case Admin:
		switch {
		case !v.IsAuthenticated():
			d.Redirect = Login
		case !v.IsAdmin():
			d.Redirect = Home
		default:
			d.Allowed = true
		}
	}
	return d
}

// Navigator is the view-switching surface used by the session expiry policy.
type Navigator interface {
	Current() string
	Navigate(path string)
}

// History is an in-memory Navigator that records visited paths.
type History struct {
	mu      sync.Mutex
	paths   []string
	onLogin func()
}

// NewHistory starts at start. onLogin, if set, runs whenever the login view is entered.
func NewHistory(start string, onLogin func()) *History {
	if start == "" {
		start = Home
	}
	return &History{paths: []string{start}, onLogin: onLogin}
}

func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paths[len(h.paths)-1]
}

func (h *History) Navigate(path string) {
	h.mu.Lock()
	h.paths = append(h.paths, path)
	h.mu.Unlock()
	if path == Login && h.onLogin != nil {
		h.onLogin()
	}
}

// Visited returns every path entered, oldest first.
func (h *History) Visited() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.paths...)
}

// RedirectToLogin navigates to the login view unless it is already current.
// It reports whether a navigation happened.
func RedirectToLogin(n Navigator) bool {
	cur := n.Current()
	if i := strings.IndexAny(cur, "?#"); i >= 0 {
		cur = cur[:i]
	}
	if cur == Login {
		return false
	}
	n.Navigate(Login)
	return true
}

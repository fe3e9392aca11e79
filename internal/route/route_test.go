package route

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type viewer struct{ auth, admin bool }

func (v viewer) IsAuthenticated() bool { return v.auth }
func (v viewer) IsAdmin() bool         { return v.admin }

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		name   string
		params map[string]string
	}{
		{"/", "home", map[string]string{}},
		{"/products/42", "product-details", map[string]string{"id": "42"}},
		{"/admin/products/new", "admin-product-new", map[string]string{}},
		{"/admin/products/7/edit", "admin-product-edit", map[string]string{"id": "7"}},
		{"/orders/o1?tab=items", "order-details", map[string]string{"id": "o1"}},
		{"/cart/", "cart", map[string]string{}},
	}
	for _, tt := range tests {
		r, params, ok := Match(tt.path)
		require.True(t, ok, tt.path)
		require.Equal(t, tt.name, r.Name, tt.path)
		require.Equal(t, tt.params, params, tt.path)
	}

	_, _, ok := Match("/nope/deeper")
	require.False(t, ok)
}

func TestAllow(t *testing.T) {
	t.Parallel()

	anon := viewer{}
	member := viewer{auth: true}
	admin := viewer{auth: true, admin: true}

	tests := []struct {
		v        Viewer
		path     string
		allowed  bool
		redirect string
	}{
		{anon, "/products", true, ""},
		{anon, "/wishlist", true, ""},
		{anon, "/cart", false, Login},
		{anon, "/orders/o1", false, Login},
		{anon, "/admin", false, Login},
		{member, "/checkout", true, ""},
		{member, "/admin/users", false, Home},
		{admin, "/admin/orders/o1", true, ""},
		{admin, "/profile", true, ""},
		{anon, "/unknown", true, ""},
	}
	for _, tt := range tests {
		d := Allow(tt.v, tt.path)
		require.Equal(t, tt.allowed, d.Allowed, tt.path)
		require.Equal(t, tt.redirect, d.Redirect, tt.path)
	}
}

func TestTableAccessSplit(t *testing.T) {
	t.Parallel()

	count := map[Access]int{}
	for _, r := range Table {
		count[r.Access]++
	}
	require.Equal(t, 6, count[Public])
	require.Equal(t, 5, count[Authenticated])
	require.Equal(t, 8, count[Admin])
}

func TestRedirectToLogin(t *testing.T) {
	t.Parallel()

	var entered int
	h := NewHistory("/cart", func() { entered++ })
	require.True(t, RedirectToLogin(h))
	require.Equal(t, Login, h.Current())
	require.False(t, RedirectToLogin(h), "already on the login view")
	require.Equal(t, []string{"/cart", "/login"}, h.Visited())
	require.Equal(t, 1, entered)

	h2 := NewHistory("/login?next=/cart", nil)
	require.False(t, RedirectToLogin(h2))
	require.Equal(t, Home, NewHistory("", nil).Current())
}

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/and161185/shopfront/internal/model"
)

// CartAPI covers /cart endpoints. Mutations return the server's cart.
type CartAPI struct{ c *Client }

func (ca *CartAPI) cart(ctx context.Context, method, path string, q url.Values, in any) (model.Cart, error) {
	var out model.Cart
	err := ca.c.Do(ctx, method, path, q, in, &out)
	return out, err
}

// Get returns the current cart.
func (ca *CartAPI) Get(ctx context.Context) (model.Cart, error) {
	return ca.cart(ctx, http.MethodGet, "/cart", nil, nil)
}

// AddItem adds quantity of productID.
func (ca *CartAPI) AddItem(ctx context.Context, productID string, quantity int) (model.Cart, error) {
	return ca.cart(ctx, http.MethodPost, "/cart/add", nil, model.AddToCart{ProductID: productID, Quantity: quantity})
}

// UpdateItem sets the quantity of productID.
func (ca *CartAPI) UpdateItem(ctx context.Context, productID string, quantity int) (model.Cart, error) {
	q := url.Values{"quantity": {strconv.Itoa(quantity)}}
	return ca.cart(ctx, http.MethodPut, "/cart/update/"+seg(productID), q, nil)
}

// RemoveItem drops productID from the cart.
func (ca *CartAPI) RemoveItem(ctx context.Context, productID string) (model.Cart, error) {
	return ca.cart(ctx, http.MethodDelete, "/cart/remove/"+seg(productID), nil, nil)
}

// Clear empties the cart. The backend returns no cart body.
func (ca *CartAPI) Clear(ctx context.Context) error {
	return ca.c.Do(ctx, http.MethodDelete, "/cart/clear", nil, nil, nil)
}

// ApplyCoupon applies a coupon code to the cart.
func (ca *CartAPI) ApplyCoupon(ctx context.Context, code string) (model.Cart, error) {
	return ca.cart(ctx, http.MethodPost, "/cart/apply-coupon", nil, map[string]string{"code": code})
}

// RemoveCoupon drops the applied coupon.
func (ca *CartAPI) RemoveCoupon(ctx context.Context) (model.Cart, error) {
	return ca.cart(ctx, http.MethodDelete, "/cart/remove-coupon", nil, nil)
}

// WishlistAPI covers /wishlist endpoints. Mutations return no wishlist body.
type WishlistAPI struct{ c *Client }

// Get returns the wishlisted products.
func (w *WishlistAPI) Get(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := w.c.Do(ctx, http.MethodGet, "/wishlist", nil, nil, &out)
	return out, err
}

// Add saves productID.
func (w *WishlistAPI) Add(ctx context.Context, productID string) error {
	return w.c.Do(ctx, http.MethodPost, "/wishlist/add", nil, map[string]string{"productId": productID}, nil)
}

// Remove drops productID.
func (w *WishlistAPI) Remove(ctx context.Context, productID string) error {
	return w.c.Do(ctx, http.MethodDelete, "/wishlist/remove/"+seg(productID), nil, nil, nil)
}

// Clear empties the wishlist.
func (w *WishlistAPI) Clear(ctx context.Context) error {
	return w.c.Do(ctx, http.MethodDelete, "/wishlist/clear", nil, nil, nil)
}

// MoveToCart moves productID from the wishlist into the cart.
func (w *WishlistAPI) MoveToCart(ctx context.Context, productID string) error {
	return w.c.Do(ctx, http.MethodPost, "/wishlist/"+seg(productID)+"/move-to-cart", nil, nil, nil)
}

// OrdersAPI covers /orders endpoints for the signed-in user.
type OrdersAPI struct{ c *Client }

// Create places an order from the server-side cart.
func (o *OrdersAPI) Create(ctx context.Context, r model.OrderRequest) (model.Order, error) {
	var out model.Order
	err := o.c.Do(ctx, http.MethodPost, "/orders", nil, r, &out)
	return out, err
}

// List returns the user's orders.
func (o *OrdersAPI) List(ctx context.Context, q model.PageQuery) (model.Page[model.Order], error) {
	var out model.Page[model.Order]
	err := o.c.Do(ctx, http.MethodGet, "/orders", pageValues(q), nil, &out)
	return out, err
}

// Get returns one order.
func (o *OrdersAPI) Get(ctx context.Context, id string) (model.Order, error) {
	var out model.Order
	err := o.c.Do(ctx, http.MethodGet, "/orders/"+seg(id), nil, nil, &out)
	return out, err
}

// Cancel cancels a pending or confirmed order.
func (o *OrdersAPI) Cancel(ctx context.Context, id string) (model.Order, error) {
	var out model.Order
	err := o.c.Do(ctx, http.MethodPost, "/orders/"+seg(id)+"/cancel", nil, nil, &out)
	return out, err
}

// Reorder puts the items of a past order back into the cart.
func (o *OrdersAPI) Reorder(ctx context.Context, id string) error {
	return o.c.Do(ctx, http.MethodPost, "/orders/"+seg(id)+"/reorder", nil, nil, nil)
}

// Invoice downloads the invoice document.
func (o *OrdersAPI) Invoice(ctx context.Context, id string) ([]byte, error) {
	return o.c.DoRaw(ctx, http.MethodGet, "/orders/"+seg(id)+"/invoice", nil)
}

// UsersAPI covers /users endpoints for the signed-in user.
type UsersAPI struct{ c *Client }

// Profile returns the current user.
func (u *UsersAPI) Profile(ctx context.Context) (model.UserProfile, error) {
	var out model.UserProfile
	err := u.c.Do(ctx, http.MethodGet, "/users/profile", nil, nil, &out)
	return out, err
}

// UpdateProfile changes profile fields and returns the stored representation.
func (u *UsersAPI) UpdateProfile(ctx context.Context, p model.ProfileUpdate) (model.UserProfile, error) {
	var out model.UserProfile
	err := u.c.Do(ctx, http.MethodPut, "/users/profile", nil, p, &out)
	return out, err
}

// ChangePassword rotates the account password.
func (u *UsersAPI) ChangePassword(ctx context.Context, p model.PasswordChange) error {
	return u.c.Do(ctx, http.MethodPut, "/users/change-password", nil, p, nil)
}

// Addresses lists saved addresses.
func (u *UsersAPI) Addresses(ctx context.Context) ([]model.Address, error) {
	var out []model.Address
	err := u.c.Do(ctx, http.MethodGet, "/users/addresses", nil, nil, &out)
	return out, err
}

// AddAddress saves a new address.
func (u *UsersAPI) AddAddress(ctx context.Context, a model.Address) (model.Address, error) {
	var out model.Address
	err := u.c.Do(ctx, http.MethodPost, "/users/addresses", nil, a, &out)
	return out, err
}

// UpdateAddress edits a saved address.
func (u *UsersAPI) UpdateAddress(ctx context.Context, id string, a model.Address) (model.Address, error) {
	var out model.Address
	err := u.c.Do(ctx, http.MethodPut, "/users/addresses/"+seg(id), nil, a, &out)
	return out, err
}

// DeleteAddress removes a saved address.
func (u *UsersAPI) DeleteAddress(ctx context.Context, id string) error {
	return u.c.Do(ctx, http.MethodDelete, "/users/addresses/"+seg(id), nil, nil, nil)
}

// SetDefaultAddress marks an address as default.
func (u *UsersAPI) SetDefaultAddress(ctx context.Context, id string) error {
	return u.c.Do(ctx, http.MethodPut, "/users/addresses/"+seg(id)+"/default", nil, nil, nil)
}

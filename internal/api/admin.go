package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/and161185/shopfront/internal/model"
)

// AdminAPI covers /admin endpoints. The backend enforces the ADMIN role.
type AdminAPI struct {
	c *Client

	Products   *AdminProducts
	Categories *AdminCategories
	Orders     *AdminOrders
	Users      *AdminUsers
	Reviews    *AdminReviews
	Coupons    *AdminCoupons
}

func newAdminAPI(c *Client) *AdminAPI {
	return &AdminAPI{
		c:          c,
		Products:   &AdminProducts{c: c},
		Categories: &AdminCategories{c: c},
		Orders:     &AdminOrders{c: c},
		Users:      &AdminUsers{c: c},
		Reviews:    &AdminReviews{c: c},
		Coupons:    &AdminCoupons{c: c},
	}
}

// --- dashboard ---

// DashboardStats returns shop-wide counters.
func (a *AdminAPI) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var out model.DashboardStats
	err := a.c.Do(ctx, http.MethodGet, "/admin/dashboard/stats", nil, nil, &out)
	return out, err
}

func (a *AdminAPI) series(ctx context.Context, path, period string) ([]model.ChartPoint, error) {
	var out []model.ChartPoint
	var q url.Values
	if period != "" {
		q = url.Values{"period": {period}}
	}
	err := a.c.Do(ctx, http.MethodGet, path, q, nil, &out)
	return out, err
}

// RevenueChart returns revenue per period bucket (e.g. "week", "month").
func (a *AdminAPI) RevenueChart(ctx context.Context, period string) ([]model.ChartPoint, error) {
	return a.series(ctx, "/admin/dashboard/revenue", period)
}

// OrdersChart returns order counts per period bucket.
func (a *AdminAPI) OrdersChart(ctx context.Context, period string) ([]model.ChartPoint, error) {
	return a.series(ctx, "/admin/dashboard/orders-chart", period)
}

func limitValues(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}

// TopProducts returns the best sellers.
func (a *AdminAPI) TopProducts(ctx context.Context, limit int) ([]model.TopProduct, error) {
	var out []model.TopProduct
	err := a.c.Do(ctx, http.MethodGet, "/admin/dashboard/top-products", limitValues(limit), nil, &out)
	return out, err
}

// RecentActivity returns the latest admin-visible events.
func (a *AdminAPI) RecentActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	var out []model.Activity
	err := a.c.Do(ctx, http.MethodGet, "/admin/dashboard/recent-activity", limitValues(limit), nil, &out)
	return out, err
}

// --- reports & settings ---

// SalesReport returns the sales report for the given filters (from, to, ...).
func (a *AdminAPI) SalesReport(ctx context.Context, params url.Values) (map[string]any, error) {
	var out map[string]any
	err := a.c.Do(ctx, http.MethodGet, "/admin/reports/sales", params, nil, &out)
	return out, err
}

// InventoryReport returns stock levels.
func (a *AdminAPI) InventoryReport(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := a.c.Do(ctx, http.MethodGet, "/admin/reports/inventory", nil, nil, &out)
	return out, err
}

// ExportOrders downloads an order export file.
func (a *AdminAPI) ExportOrders(ctx context.Context, params url.Values) ([]byte, error) {
	return a.c.DoRaw(ctx, http.MethodGet, "/admin/reports/export/orders", params)
}

// Settings returns shop settings.
func (a *AdminAPI) Settings(ctx context.Context) (model.Settings, error) {
	var out model.Settings
	err := a.c.Do(ctx, http.MethodGet, "/admin/settings", nil, nil, &out)
	return out, err
}

// UpdateSettings replaces shop settings.
func (a *AdminAPI) UpdateSettings(ctx context.Context, s model.Settings) (model.Settings, error) {
	var out model.Settings
	err := a.c.Do(ctx, http.MethodPut, "/admin/settings", nil, s, &out)
	return out, err
}

// --- products ---

// AdminProducts manages the catalog.
type AdminProducts struct{ c *Client }

// List returns all products including inactive ones.
func (p *AdminProducts) List(ctx context.Context, q model.PageQuery) (model.Page[model.Product], error) {
	var out model.Page[model.Product]
	err := p.c.Do(ctx, http.MethodGet, "/admin/products", pageValues(q), nil, &out)
	return out, err
}

// Create adds a product.
func (p *AdminProducts) Create(ctx context.Context, in model.ProductInput) (model.Product, error) {
	var out model.Product
	err := p.c.Do(ctx, http.MethodPost, "/admin/products", nil, in, &out)
	return out, err
}

// Update edits a product.
func (p *AdminProducts) Update(ctx context.Context, id string, in model.ProductInput) (model.Product, error) {
	var out model.Product
	err := p.c.Do(ctx, http.MethodPut, "/admin/products/"+seg(id), nil, in, &out)
	return out, err
}

// Delete removes a product.
func (p *AdminProducts) Delete(ctx context.Context, id string) error {
	return p.c.Do(ctx, http.MethodDelete, "/admin/products/"+seg(id), nil, nil, nil)
}

// ToggleFeatured flips the featured flag.
func (p *AdminProducts) ToggleFeatured(ctx context.Context, id string) (model.Product, error) {
	var out model.Product
	err := p.c.Do(ctx, http.MethodPut, "/admin/products/"+seg(id)+"/toggle-featured", nil, nil, &out)
	return out, err
}

// ToggleActive flips the active flag.
func (p *AdminProducts) ToggleActive(ctx context.Context, id string) (model.Product, error) {
	var out model.Product
	err := p.c.Do(ctx, http.MethodPut, "/admin/products/"+seg(id)+"/toggle-active", nil, nil, &out)
	return out, err
}

// BulkDelete removes several products.
func (p *AdminProducts) BulkDelete(ctx context.Context, ids []string) error {
	return p.c.Do(ctx, http.MethodDelete, "/admin/products/bulk", nil, map[string][]string{"ids": ids}, nil)
}

// BulkUpdateStock sets stock for several products.
func (p *AdminProducts) BulkUpdateStock(ctx context.Context, updates []model.StockUpdate) error {
	return p.c.Do(ctx, http.MethodPut, "/admin/products/bulk-stock", nil, map[string][]model.StockUpdate{"updates": updates}, nil)
}

// --- categories ---

// AdminCategories manages categories.
type AdminCategories struct{ c *Client }

// List returns categories with admin fields.
func (cs *AdminCategories) List(ctx context.Context, q model.PageQuery) ([]model.Category, error) {
	var out []model.Category
	err := cs.c.Do(ctx, http.MethodGet, "/admin/categories", pageValues(q), nil, &out)
	return out, err
}

// Create adds a category.
func (cs *AdminCategories) Create(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	var out model.Category
	err := cs.c.Do(ctx, http.MethodPost, "/admin/categories", nil, in, &out)
	return out, err
}

// Update edits a category.
func (cs *AdminCategories) Update(ctx context.Context, id string, in model.CategoryInput) (model.Category, error) {
	var out model.Category
	err := cs.c.Do(ctx, http.MethodPut, "/admin/categories/"+seg(id), nil, in, &out)
	return out, err
}

// Delete removes a category.
func (cs *AdminCategories) Delete(ctx context.Context, id string) error {
	return cs.c.Do(ctx, http.MethodDelete, "/admin/categories/"+seg(id), nil, nil, nil)
}

// --- orders ---

// AdminOrders manages all orders.
type AdminOrders struct{ c *Client }

// List returns all orders.
func (o *AdminOrders) List(ctx context.Context, q model.PageQuery) (model.Page[model.Order], error) {
	var out model.Page[model.Order]
	err := o.c.Do(ctx, http.MethodGet, "/admin/orders", pageValues(q), nil, &out)
	return out, err
}

// Get returns any order.
func (o *AdminOrders) Get(ctx context.Context, id string) (model.Order, error) {
	var out model.Order
	err := o.c.Do(ctx, http.MethodGet, "/admin/orders/"+seg(id), nil, nil, &out)
	return out, err
}

// ByStatus lists orders in status.
func (o *AdminOrders) ByStatus(ctx context.Context, status model.OrderStatus, q model.PageQuery) (model.Page[model.Order], error) {
	var out model.Page[model.Order]
	err := o.c.Do(ctx, http.MethodGet, "/admin/orders/status/"+seg(string(status)), pageValues(q), nil, &out)
	return out, err
}

// UpdateStatus moves an order to status; the backend validates the transition.
func (o *AdminOrders) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (model.Order, error) {
	var out model.Order
	q := url.Values{"status": {string(status)}}
	err := o.c.Do(ctx, http.MethodPut, "/admin/orders/"+seg(id)+"/status", q, nil, &out)
	return out, err
}

// UpdateTracking sets the carrier tracking number.
func (o *AdminOrders) UpdateTracking(ctx context.Context, id, trackingNumber string) (model.Order, error) {
	var out model.Order
	q := url.Values{"trackingNumber": {trackingNumber}}
	err := o.c.Do(ctx, http.MethodPut, "/admin/orders/"+seg(id)+"/tracking", q, nil, &out)
	return out, err
}

// AddNote attaches an internal note.
func (o *AdminOrders) AddNote(ctx context.Context, id, note string) error {
	return o.c.Do(ctx, http.MethodPost, "/admin/orders/"+seg(id)+"/notes", nil, map[string]string{"note": note}, nil)
}

// --- users ---

// AdminUsers manages accounts.
type AdminUsers struct{ c *Client }

// List returns all users.
func (u *AdminUsers) List(ctx context.Context, q model.PageQuery) (model.Page[model.UserProfile], error) {
	var out model.Page[model.UserProfile]
	err := u.c.Do(ctx, http.MethodGet, "/admin/users", pageValues(q), nil, &out)
	return out, err
}

// Get returns one user.
func (u *AdminUsers) Get(ctx context.Context, id string) (model.UserProfile, error) {
	var out model.UserProfile
	err := u.c.Do(ctx, http.MethodGet, "/admin/users/"+seg(id), nil, nil, &out)
	return out, err
}

// UpdateRole sets the primary role.
func (u *AdminUsers) UpdateRole(ctx context.Context, id string, role model.Role) (model.UserProfile, error) {
	var out model.UserProfile
	q := url.Values{"role": {string(role)}}
	err := u.c.Do(ctx, http.MethodPut, "/admin/users/"+seg(id)+"/role", q, nil, &out)
	return out, err
}

// Activate enables an account.
func (u *AdminUsers) Activate(ctx context.Context, id string) error {
	return u.c.Do(ctx, http.MethodPut, "/admin/users/"+seg(id)+"/activate", nil, nil, nil)
}

// Deactivate disables an account.
func (u *AdminUsers) Deactivate(ctx context.Context, id string) error {
	return u.c.Do(ctx, http.MethodPut, "/admin/users/"+seg(id)+"/deactivate", nil, nil, nil)
}

// ToggleStatus flips the active flag.
func (u *AdminUsers) ToggleStatus(ctx context.Context, id string) error {
	return u.c.Do(ctx, http.MethodPut, "/admin/users/"+seg(id)+"/toggle-status", nil, nil, nil)
}

// Delete removes an account.
func (u *AdminUsers) Delete(ctx context.Context, id string) error {
	return u.c.Do(ctx, http.MethodDelete, "/admin/users/"+seg(id), nil, nil, nil)
}

// --- reviews ---

// AdminReviews moderates reviews.
type AdminReviews struct{ c *Client }

// List returns reviews awaiting or past moderation.
func (r *AdminReviews) List(ctx context.Context, q model.PageQuery) (model.Page[model.Review], error) {
	var out model.Page[model.Review]
	err := r.c.Do(ctx, http.MethodGet, "/admin/reviews", pageValues(q), nil, &out)
	return out, err
}

// Approve publishes a review.
func (r *AdminReviews) Approve(ctx context.Context, id string) error {
	return r.c.Do(ctx, http.MethodPut, "/admin/reviews/"+seg(id)+"/approve", nil, nil, nil)
}

// Reject hides a review.
func (r *AdminReviews) Reject(ctx context.Context, id string) error {
	return r.c.Do(ctx, http.MethodPut, "/admin/reviews/"+seg(id)+"/reject", nil, nil, nil)
}

// Delete removes a review.
func (r *AdminReviews) Delete(ctx context.Context, id string) error {
	return r.c.Do(ctx, http.MethodDelete, "/admin/reviews/"+seg(id), nil, nil, nil)
}

// --- coupons ---

// AdminCoupons manages coupon codes.
type AdminCoupons struct{ c *Client }

// List returns all coupons.
func (cp *AdminCoupons) List(ctx context.Context, q model.PageQuery) ([]model.Coupon, error) {
	var out []model.Coupon
	err := cp.c.Do(ctx, http.MethodGet, "/admin/coupons", pageValues(q), nil, &out)
	return out, err
}

// Create adds a coupon.
func (cp *AdminCoupons) Create(ctx context.Context, in model.Coupon) (model.Coupon, error) {
	var out model.Coupon
	err := cp.c.Do(ctx, http.MethodPost, "/admin/coupons", nil, in, &out)
	return out, err
}

// Update edits a coupon.
func (cp *AdminCoupons) Update(ctx context.Context, id string, in model.Coupon) (model.Coupon, error) {
	var out model.Coupon
	err := cp.c.Do(ctx, http.MethodPut, "/admin/coupons/"+seg(id), nil, in, &out)
	return out, err
}

// Delete removes a coupon.
func (cp *AdminCoupons) Delete(ctx context.Context, id string) error {
	return cp.c.Do(ctx, http.MethodDelete, "/admin/coupons/"+seg(id), nil, nil, nil)
}

// Toggle flips a coupon's active flag.
func (cp *AdminCoupons) Toggle(ctx context.Context, id string) (model.Coupon, error) {
	var out model.Coupon
	err := cp.c.Do(ctx, http.MethodPut, "/admin/coupons/"+seg(id)+"/toggle", nil, nil, &out)
	return out, err
}

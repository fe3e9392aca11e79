package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/and161185/shopfront/internal/model"
)

// ProductsAPI covers public /products endpoints.
type ProductsAPI struct{ c *Client }

func filterValues(f model.ProductFilter) url.Values {
	v := pageValues(f.PageQuery)
	if f.CategoryID != "" {
		v.Set("categoryId", f.CategoryID)
	}
	if f.MinPrice > 0 {
		v.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.Brand != "" {
		v.Set("brand", f.Brand)
	}
	return v
}

func (p *ProductsAPI) page(ctx context.Context, path string, q url.Values) (model.Page[model.Product], error) {
	var out model.Page[model.Product]
	err := p.c.Do(ctx, http.MethodGet, path, q, nil, &out)
	return out, err
}

// List returns a filtered page of products.
func (p *ProductsAPI) List(ctx context.Context, f model.ProductFilter) (model.Page[model.Product], error) {
	return p.page(ctx, "/products", filterValues(f))
}

// Get returns one product.
func (p *ProductsAPI) Get(ctx context.Context, id string) (model.Product, error) {
	var out model.Product
	err := p.c.Do(ctx, http.MethodGet, "/products/"+seg(id), nil, nil, &out)
	return out, err
}

// ByCategory lists products of a category.
func (p *ProductsAPI) ByCategory(ctx context.Context, categoryID string, q model.PageQuery) (model.Page[model.Product], error) {
	return p.page(ctx, "/products/category/"+seg(categoryID), pageValues(q))
}

// Featured lists featured products.
func (p *ProductsAPI) Featured(ctx context.Context, q model.PageQuery) (model.Page[model.Product], error) {
	return p.page(ctx, "/products/featured", pageValues(q))
}

// NewArrivals lists the newest products.
func (p *ProductsAPI) NewArrivals(ctx context.Context, q model.PageQuery) (model.Page[model.Product], error) {
	return p.page(ctx, "/products/new-arrivals", pageValues(q))
}

// BestSellers lists best-selling products.
func (p *ProductsAPI) BestSellers(ctx context.Context, q model.PageQuery) (model.Page[model.Product], error) {
	return p.page(ctx, "/products/best-sellers", pageValues(q))
}

// Search runs a full-text product search.
func (p *ProductsAPI) Search(ctx context.Context, query string, q model.PageQuery) (model.Page[model.Product], error) {
	v := pageValues(q)
	v.Set("q", query)
	return p.page(ctx, "/products/search", v)
}

// Related lists products related to productID.
func (p *ProductsAPI) Related(ctx context.Context, productID string, q model.PageQuery) (model.Page[model.Product], error) {
	return p.page(ctx, "/products/"+seg(productID)+"/related", pageValues(q))
}

// CategoriesAPI covers public /categories endpoints.
type CategoriesAPI struct{ c *Client }

func (cs *CategoriesAPI) list(ctx context.Context, path string) ([]model.Category, error) {
	var out []model.Category
	err := cs.c.Do(ctx, http.MethodGet, path, nil, nil, &out)
	return out, err
}

// List returns all categories.
func (cs *CategoriesAPI) List(ctx context.Context) ([]model.Category, error) {
	return cs.list(ctx, "/categories")
}

// Root returns top-level categories.
func (cs *CategoriesAPI) Root(ctx context.Context) ([]model.Category, error) {
	return cs.list(ctx, "/categories/root")
}

// Get returns one category.
func (cs *CategoriesAPI) Get(ctx context.Context, id string) (model.Category, error) {
	var out model.Category
	err := cs.c.Do(ctx, http.MethodGet, "/categories/"+seg(id), nil, nil, &out)
	return out, err
}

// Subcategories returns direct children of id.
func (cs *CategoriesAPI) Subcategories(ctx context.Context, id string) ([]model.Category, error) {
	return cs.list(ctx, "/categories/"+seg(id)+"/subcategories")
}

// ReviewsAPI covers /reviews endpoints.
type ReviewsAPI struct{ c *Client }

// ByProduct returns a page of reviews for productID.
func (r *ReviewsAPI) ByProduct(ctx context.Context, productID string, q model.PageQuery) (model.Page[model.Review], error) {
	var out model.Page[model.Review]
	err := r.c.Do(ctx, http.MethodGet, "/reviews/product/"+seg(productID), pageValues(q), nil, &out)
	return out, err
}

// Create posts a review.
func (r *ReviewsAPI) Create(ctx context.Context, in model.ReviewInput) (model.Review, error) {
	var out model.Review
	err := r.c.Do(ctx, http.MethodPost, "/reviews", nil, in, &out)
	return out, err
}

// Update edits a review.
func (r *ReviewsAPI) Update(ctx context.Context, id string, in model.ReviewInput) (model.Review, error) {
	var out model.Review
	err := r.c.Do(ctx, http.MethodPut, "/reviews/"+seg(id), nil, in, &out)
	return out, err
}

// Delete removes a review.
func (r *ReviewsAPI) Delete(ctx context.Context, id string) error {
	return r.c.Do(ctx, http.MethodDelete, "/reviews/"+seg(id), nil, nil, nil)
}

// MarkHelpful upvotes a review.
func (r *ReviewsAPI) MarkHelpful(ctx context.Context, id string) error {
	return r.c.Do(ctx, http.MethodPost, "/reviews/"+seg(id)+"/helpful", nil, nil, nil)
}

// Report flags a review for moderation.
func (r *ReviewsAPI) Report(ctx context.Context, id, reason string) error {
	return r.c.Do(ctx, http.MethodPost, "/reviews/"+seg(id)+"/report", nil, map[string]string{"reason": reason}, nil)
}

// CouponsAPI covers /coupons endpoints.
type CouponsAPI struct{ c *Client }

// Validate checks a coupon code against the current cart.
func (cp *CouponsAPI) Validate(ctx context.Context, code string) (model.CouponValidation, error) {
	var out model.CouponValidation
	err := cp.c.Do(ctx, http.MethodPost, "/coupons/validate", nil, map[string]string{"code": code}, &out)
	return out, err
}

// Available lists coupons the user may apply.
func (cp *CouponsAPI) Available(ctx context.Context) ([]model.Coupon, error) {
	var out []model.Coupon
	err := cp.c.Do(ctx, http.MethodGet, "/coupons/available", nil, nil, &out)
	return out, err
}

package model

// Product is a catalog entry.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	DiscountPrice float64   `json:"discountPrice,omitempty"`
	CategoryID    string    `json:"categoryId,omitempty"`
	CategoryName  string    `json:"categoryName,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	Images        []string  `json:"images,omitempty"`
	StockQuantity int       `json:"stockQuantity"`
	AverageRating float64   `json:"averageRating,omitempty"`
	ReviewCount   int       `json:"reviewCount,omitempty"`
	Featured      bool      `json:"featured,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     Timestamp `json:"createdAt,omitzero"`
}

// EffectivePrice is the discounted price when one is set.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice > 0 && p.DiscountPrice < p.Price {
		return p.DiscountPrice
	}
	return p.Price
}

// ProductInput is the admin create/update payload.
type ProductInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Price         float64  `json:"price"`
	DiscountPrice float64  `json:"discountPrice,omitempty"`
	CategoryID    string   `json:"categoryId"`
	Brand         string   `json:"brand,omitempty"`
	Images        []string `json:"images,omitempty"`
	StockQuantity int      `json:"stockQuantity"`
	Featured      bool     `json:"featured,omitempty"`
	Active        bool     `json:"active"`
}

// StockUpdate is one entry of a bulk stock update.
type StockUpdate struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	PageQuery
	CategoryID string
	MinPrice   float64
	MaxPrice   float64
	Brand      string
}

// Category is a product category, possibly nested.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	ParentID     string `json:"parentId,omitempty"`
	ProductCount int    `json:"productCount,omitempty"`
	Active       bool   `json:"active"`
}

// CategoryInput is the admin create/update payload.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
	Active      bool   `json:"active"`
}

// Review is a product review.
type Review struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	UserID       string    `json:"userId,omitempty"`
	UserName     string    `json:"userName,omitempty"`
	Rating       int       `json:"rating"`
	Title        string    `json:"title,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	Verified     bool      `json:"verified"`
	HelpfulCount int       `json:"helpfulCount"`
	Approved     bool      `json:"approved"`
	CreatedAt    Timestamp `json:"createdAt,omitzero"`
}

// ReviewInput creates or edits a review.
type ReviewInput struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Title     string `json:"title,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// Coupon is a discount code.
type Coupon struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	Description    string    `json:"description,omitempty"`
	DiscountType   string    `json:"discountType"`
	DiscountValue  float64   `json:"discountValue"`
	MinOrderAmount float64   `json:"minOrderAmount,omitempty"`
	ValidUntil     Timestamp `json:"validUntil,omitzero"`
	Active         bool      `json:"active"`
}

// CouponValidation is returned by the coupon validation endpoint.
type CouponValidation struct {
	Valid    bool    `json:"valid"`
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message,omitempty"`
}

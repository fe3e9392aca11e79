package model

// CartItem is one cart line. Quantity is always >= 1.
type CartItem struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName,omitempty"`
	ProductImage string  `json:"productImage,omitempty"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	Subtotal     float64 `json:"subtotal,omitempty"`
}

// Cart is the server's cart representation. Totals are server-computed.
type Cart struct {
	ID         string     `json:"id,omitempty"`
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"totalItems,omitempty"`
	TotalPrice float64    `json:"totalPrice"`
	Discount   float64    `json:"discount,omitempty"`
	CouponCode string     `json:"couponCode,omitempty"`
}

// Item returns the line for productID.
func (c Cart) Item(productID string) (CartItem, bool) {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return CartItem{}, false
}

// Empty reports whether the cart has no lines.
func (c Cart) Empty() bool { return len(c.Items) == 0 }

// Clone returns a deep copy so cached state never aliases caller slices.
func (c Cart) Clone() Cart {
	c.Items = append([]CartItem(nil), c.Items...)
	return c
}

// AddToCart is the add-item request body.
type AddToCart struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// WishlistItem is a product saved to the wishlist, unique by ProductID.
type WishlistItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	InStock   bool    `json:"inStock"`
}

// WishlistItemFromProduct denormalizes the display fields of p.
func WishlistItemFromProduct(p Product) WishlistItem {
	it := WishlistItem{ProductID: p.ID, Name: p.Name, Price: p.EffectivePrice(), InStock: p.StockQuantity > 0}
	if len(p.Images) > 0 {
		it.Image = p.Images[0]
	}
	return it
}

// OrderStatus is the backend order lifecycle state.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// Cancellable mirrors the backend rule; the server stays authoritative.
func (s OrderStatus) Cancellable() bool {
	return s == OrderPending || s == OrderConfirmed
}

// PaymentMethod is how the order is paid.
type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentCard PaymentMethod = "CARD"
	PaymentUPI  PaymentMethod = "UPI"
)

// ShippingAddress is the delivery address of an order.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
	ZipCode  string `json:"zipCode"`
}

// OrderItem is a frozen cart line inside an order.
type OrderItem struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductImage string  `json:"productImage,omitempty"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	Subtotal     float64 `json:"subtotal"`
}

// Order is a placed order.
type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          string          `json:"userId,omitempty"`
	UserName        string          `json:"userName,omitempty"`
	UserEmail       string          `json:"userEmail,omitempty"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Subtotal        float64         `json:"subtotal"`
	ShippingCost    float64         `json:"shippingCost"`
	Tax             float64         `json:"tax"`
	TotalAmount     float64         `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   string          `json:"paymentStatus,omitempty"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	TrackingNumber  string          `json:"trackingNumber,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       Timestamp       `json:"createdAt,omitzero"`
}

// OrderRequest places an order from the current server-side cart.
type OrderRequest struct {
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Notes           string          `json:"notes,omitempty"`
}

// DashboardStats summarizes the shop for the admin dashboard.
type DashboardStats struct {
	TotalRevenue     float64 `json:"totalRevenue"`
	TotalOrders      int64   `json:"totalOrders"`
	TotalProducts    int64   `json:"totalProducts"`
	TotalUsers       int64   `json:"totalUsers"`
	PendingOrders    int64   `json:"pendingOrders"`
	CompletedOrders  int64   `json:"completedOrders"`
	ActiveProducts   int64   `json:"activeProducts"`
	LowStockProducts int64   `json:"lowStockProducts"`
}

// ChartPoint is one point of a dashboard series.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TopProduct is a best-selling product entry.
type TopProduct struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	SoldCount   int64   `json:"soldCount"`
	Revenue     float64 `json:"revenue"`
}

// Activity is one recent admin activity entry.
type Activity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   Timestamp `json:"timestamp,omitzero"`
}

// Settings is the shop settings map; shape is owned by the backend.
type Settings map[string]any

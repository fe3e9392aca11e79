// Package format renders money and order data for terminal output.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/and161185/shopfront/internal/model"
)

// Rupee is the storefront currency symbol.
const Rupee = "₹"

// Formatter prints amounts with locale grouping.
type Formatter struct {
	p      *message.Printer
	symbol string
}

// New returns a formatter for tag; the zero tag means English.
func New(tag language.Tag) *Formatter {
	if tag == language.Und {
		tag = language.English
	}
	return &Formatter{p: message.NewPrinter(tag), symbol: Rupee}
}

// Money formats v with grouping and at most two decimals: ₹1,234.5.
func (f *Formatter) Money(v float64) string {
	return f.symbol + f.p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

// Shipping renders a shipping charge, FREE for zero.
func (f *Formatter) Shipping(v float64) string {
	if v == 0 {
		return "FREE"
	}
	return f.Money(v)
}

// Count formats an integer with grouping.
func (f *Formatter) Count(n int64) string {
	return f.p.Sprintf("%v", number.Decimal(n))
}

// Line renders one cart line as "name x qty = subtotal".
func (f *Formatter) Line(it model.CartItem) string {
	name := it.ProductName
	if name == "" {
		name = it.ProductID
	}
	return f.p.Sprintf("%s x %d = %s", name, it.Quantity, f.Money(it.Price*float64(it.Quantity)))
}

// Status renders an order status for humans.
func Status(s model.OrderStatus) string {
	switch s {
	case model.OrderPending:
		return "Pending"
	case model.OrderConfirmed:
		return "Confirmed"
	case model.OrderProcessing:
		return "Processing"
	case model.OrderShipped:
		return "Shipped"
	case model.OrderDelivered:
		return "Delivered"
	case model.OrderCancelled:
		return "Cancelled"
	}
	return string(s)
}

// Payment renders a payment method label.
func Payment(m model.PaymentMethod) string {
	switch m {
	case model.PaymentCOD:
		return "Cash on Delivery"
	case model.PaymentCard:
		return "Credit/Debit Card"
	case model.PaymentUPI:
		return "UPI Payment"
	}
	return string(m)
}

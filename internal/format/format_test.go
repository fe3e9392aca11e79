package format

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/and161185/shopfront/internal/model"
)

func TestMoney(t *testing.T) {
	t.Parallel()

	f := New(language.Und)
	require.Equal(t, "₹250", f.Money(250))
	require.Equal(t, "₹1,234.5", f.Money(1234.5))
	require.Equal(t, "₹1,000,000", f.Money(1e6))
	require.Equal(t, "₹0.99", f.Money(0.99))
	require.Equal(t, "FREE", f.Shipping(0))
	require.Equal(t, "₹50", f.Shipping(50))
	require.Equal(t, "12,345", f.Count(12345))
}

func TestLine(t *testing.T) {
	t.Parallel()

	f := New(language.English)
	require.Equal(t, "Runner x 2 = ₹200", f.Line(model.CartItem{ProductName: "Runner", Price: 100, Quantity: 2}))
	require.Equal(t, "p9 x 1 = ₹5", f.Line(model.CartItem{ProductID: "p9", Price: 5, Quantity: 1}))
}

func TestLabels(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Shipped", Status(model.OrderShipped))
	require.Equal(t, "RETURNED", Status("RETURNED"))
	require.Equal(t, "Cash on Delivery", Payment(model.PaymentCOD))
}

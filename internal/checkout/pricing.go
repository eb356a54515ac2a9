package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/jafarshop/storefront/internal/domain"
)

// DefaultTaxRate is applied to the subtotal when no rate is configured
var DefaultTaxRate = decimal.RequireFromString("0.08")

// CalculateTotals prices the cart. Tax is rounded to cents; unknown
// shipping methods are charged nothing.
func CalculateTotals(items []domain.CartItem, shippingID domain.ShippingMethodID, taxRate decimal.Decimal) domain.Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	shipping := decimal.Zero
	if method, ok := domain.LookupShippingMethod(shippingID); ok {
		shipping = method.Price
	}

	tax := subtotal.Mul(taxRate).Round(2)

	return domain.Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// ItemCount sums quantities across the cart, as shown on the header badge
func ItemCount(items []domain.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

func checkCart(items []domain.CartItem) ValidationErrors {
	errs := ValidationErrors{}
	if len(items) == 0 {
		errs["items"] = "Your cart is empty"
		return errs
	}
	for _, item := range items {
		if item.Quantity < 1 {
			errs["items"] = "Quantity must be at least 1"
		}
		if item.Price.IsNegative() {
			errs["items"] = "Price must not be negative"
		}
	}
	return errs
}

package domain

import "github.com/shopspring/decimal"

// ShippingMethod is a flat-rate shipping option
type ShippingMethod struct {
	ID       ShippingMethodID `json:"id"`
	Name     string           `json:"name"`
	Price    decimal.Decimal  `json:"price"`
	Estimate string           `json:"estimate"`
}

// PaymentOption describes a selectable payment method
type PaymentOption struct {
	ID   PaymentMethod `json:"id"`
	Name string        `json:"name"`
}

var shippingMethods = []ShippingMethod{
	{ID: ShippingStandard, Name: "Standard Shipping", Price: decimal.RequireFromString("4.99"), Estimate: "3-5 business days"},
	{ID: ShippingExpress, Name: "Express Shipping", Price: decimal.RequireFromString("14.99"), Estimate: "1-2 business days"},
	{ID: ShippingPickup, Name: "Store Pickup", Price: decimal.Zero, Estimate: "Ready in 24 hours"},
}

var paymentOptions = []PaymentOption{
	{ID: PaymentMethodCreditCard, Name: "Credit Card"},
	{ID: PaymentMethodPayPal, Name: "PayPal"},
	{ID: PaymentMethodCoinbaseWallet, Name: "Coinbase Wallet"},
}

// ShippingMethods returns the shipping catalog
func ShippingMethods() []ShippingMethod {
	out := make([]ShippingMethod, len(shippingMethods))
	copy(out, shippingMethods)
	return out
}

// LookupShippingMethod finds a shipping option by id
func LookupShippingMethod(id ShippingMethodID) (ShippingMethod, bool) {
	for _, m := range shippingMethods {
		if m.ID == id {
			return m, true
		}
	}
	return ShippingMethod{}, false
}

// PaymentOptions returns the payment catalog
func PaymentOptions() []PaymentOption {
	out := make([]PaymentOption, len(paymentOptions))
	copy(out, paymentOptions)
	return out
}

// IsKnown reports whether the payment method is in the catalog
func (m PaymentMethod) IsKnown() bool {
	for _, p := range paymentOptions {
		if p.ID == m {
			return true
		}
	}
	return false
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a storefront account
type User struct {
	ID          uuid.UUID
	Email       string
	TokenLookup string // sha256 of the API token, used to find the row
	TokenHash   string // bcrypt of the API token
	IsAdmin     bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Address is a postal shipping address
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Profile is the shipping profile saved against a user
type Profile struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   Address
	UpdatedAt time.Time
}

// CartItem is a line item read from the customer's cart
type CartItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image,omitempty"`
}

// LineTotal returns price times quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Totals is the priced breakdown of an order
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Order represents a placed storefront order
type Order struct {
	ID              string
	UserID          *uuid.UUID
	Status          OrderStatus
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress Address
	ShippingMethod  ShippingMethodID
	PaymentMethod   PaymentMethod
	PaymentSummary  string
	PaymentRef      string
	Totals          Totals
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is a snapshot of a cart line at submission time
type OrderItem struct {
	ID        uuid.UUID
	OrderID   string
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Image     string
}

// OrderEvent represents an audit event for an order
type OrderEvent struct {
	ID        uuid.UUID
	OrderID   string
	EventType string
	EventData map[string]interface{} // JSONB
	CreatedAt time.Time
}

// OrderStats is the aggregate shown on the admin dashboard
type OrderStats struct {
	OrderCount int
	Revenue    decimal.Decimal
	ByStatus   map[OrderStatus]int
}

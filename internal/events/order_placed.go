package events

import (
	"time"

	"github.com/jafarshop/storefront/internal/domain"
)

// OrderPlaced is published once per successful checkout
type OrderPlaced struct {
	EventType      string      `json:"event_type"`
	OrderID        string      `json:"order_id"`
	UserID         string      `json:"user_id,omitempty"`
	Guest          bool        `json:"guest"`
	CustomerEmail  string      `json:"customer_email"`
	ShippingMethod string      `json:"shipping_method"`
	PaymentMethod  string      `json:"payment_method"`
	Subtotal       string      `json:"subtotal"`
	Shipping       string      `json:"shipping"`
	Tax            string      `json:"tax"`
	Total          string      `json:"total"`
	Items          []OrderLine `json:"items"`
	Timestamp      time.Time   `json:"timestamp"`
}

type OrderLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// NewOrderPlaced builds the event payload for an order
func NewOrderPlaced(o *domain.Order) OrderPlaced {
	ev := OrderPlaced{
		EventType:      "OrderPlaced",
		OrderID:        o.ID,
		Guest:          o.UserID == nil,
		CustomerEmail:  o.CustomerEmail,
		ShippingMethod: string(o.ShippingMethod),
		PaymentMethod:  string(o.PaymentMethod),
		Subtotal:       o.Totals.Subtotal.StringFixed(2),
		Shipping:       o.Totals.Shipping.StringFixed(2),
		Tax:            o.Totals.Tax.StringFixed(2),
		Total:          o.Totals.Total.StringFixed(2),
		Timestamp:      time.Now().UTC(),
	}
	if o.UserID != nil {
		ev.UserID = o.UserID.String()
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, OrderLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price.StringFixed(2),
		})
	}
	return ev
}

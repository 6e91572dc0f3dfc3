// Package commerce holds the business-data collaborators the specialists
// call into: keyed reads over fixed order, product and customer records, the
// return/refund lifecycle, and the tool constructors that expose them to
// agents. The orchestration engine treats all of it as opaque tool payloads.
package commerce

import "time"

// Order lifecycle statuses.
const (
	StatusProcessing      = "processing"
	StatusShipped         = "shipped"
	StatusInTransit       = "in_transit"
	StatusDelivered       = "delivered"
	StatusCancelled       = "cancelled"
	StatusReturnRequested = "return_requested"
)

// SellerPlatform marks first-party items; marketplace sellers carry a
// "marketplace_" prefix and a shorter return window plus a restocking fee.
const SellerPlatform = "platform"

// Customer is a demo customer profile.
type Customer struct {
	ID              string `json:"customer_id"`
	Name            string `json:"name"`
	Language        string `json:"language"`
	Premium         bool   `json:"is_premium"`
	DeliveryAddress string `json:"delivery_address"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Order is one customer order with optional shipping metadata.
type Order struct {
	ID                string      `json:"order_id"`
	CustomerID        string      `json:"customer_id"`
	Status            string      `json:"status"`
	Items             []OrderItem `json:"items"`
	Total             float64     `json:"total"`
	Currency          string      `json:"currency"`
	PaymentMethod     string      `json:"payment_method"`
	Seller            string      `json:"seller"`
	PlacedAt          time.Time   `json:"placed_at"`
	Carrier           string      `json:"carrier,omitempty"`
	TrackingNumber    string      `json:"tracking_number,omitempty"`
	CurrentLocation   string      `json:"current_location,omitempty"`
	EstimatedDelivery string      `json:"estimated_delivery,omitempty"`
	DeliveredAt       time.Time   `json:"delivered_at,omitempty"`
	Note              string      `json:"note,omitempty"`
}

// ItemsSummary joins item names for compact order listings.
func (o Order) ItemsSummary() string {
	s := ""
	for i, it := range o.Items {
		if i > 0 {
			s += ", "
		}
		s += it.Name
	}
	return s
}

// Marketplace reports whether the order was sold by a marketplace seller.
func (o Order) Marketplace() bool {
	return o.Seller != "" && o.Seller != SellerPlatform
}

// Product is a catalog entry.
type Product struct {
	SKU         string            `json:"sku"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Rating      float64           `json:"rating"`
	InStock     bool              `json:"in_stock"`
	Seller      string            `json:"seller"`
	Specs       map[string]string `json:"specs,omitempty"`
}

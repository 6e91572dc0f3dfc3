package commerce

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Return policy constants.
const (
	PlatformReturnWindowDays    = 30
	MarketplaceReturnWindowDays = 14
	MarketplaceRestockingRate   = 0.10
	RefundTimeline              = "3-5 business days"
	PickupCarrier               = "DPD"
	PickupTimeWindow            = "09:00 - 18:00"
)

// Returns implements the return/refund lifecycle over the order records.
type Returns struct {
	orders OrderRepo
	now    func() time.Time
}

// ReturnsOptions configure a Returns service.
type ReturnsOptions struct {
	// Now overrides the clock used for return-window arithmetic.
	Now func() time.Time
}

// NewReturns constructs the returns service.
func NewReturns(orders OrderRepo, optFns ...func(o *ReturnsOptions)) *Returns {
	opts := ReturnsOptions{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Returns{orders: orders, now: opts.Now}
}

// Eligibility describes whether one ordered item can be returned and under
// which conditions.
type Eligibility struct {
	Eligible          bool    `json:"eligible"`
	Reason            string  `json:"reason"`
	OrderID           string  `json:"order_id"`
	SKU               string  `json:"sku"`
	ItemName          string  `json:"item_name,omitempty"`
	ItemPrice         float64 `json:"item_price,omitempty"`
	Seller            string  `json:"seller,omitempty"`
	Marketplace       bool    `json:"is_marketplace,omitempty"`
	ReturnType        string  `json:"return_type,omitempty"`
	WindowDays        int     `json:"return_window_days,omitempty"`
	DaysSinceDelivery int     `json:"days_since_delivery,omitempty"`
	FreePickup        bool    `json:"free_pickup"`
	RestockingFee     float64 `json:"restocking_fee"`
}

// CheckEligibility applies the return policy: items must be delivered and
// inside the 30-day (platform) or 14-day (marketplace) window; marketplace
// items carry a 10% restocking fee; service SKUs are non-returnable; a defect
// claim bypasses the window entirely with free pickup.
func (r *Returns) CheckEligibility(orderID, sku, reason string) (Eligibility, error) {
	order, ok := r.orders.Get(orderID)
	if !ok {
		return Eligibility{}, fmt.Errorf("order %s not found", orderID)
	}

	var item *OrderItem
	for i := range order.Items {
		if order.Items[i].SKU == sku {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return Eligibility{}, fmt.Errorf("sku %s not found in order %s", sku, orderID)
	}

	if strings.Contains(strings.ToLower(reason), "defect") || strings.Contains(strings.ToLower(reason), "broken") {
		return Eligibility{
			Eligible: true,
			Reason:   "Defective item — warranty claim, free return regardless of timeframe",
			OrderID:  orderID, SKU: sku, ItemName: item.Name, ItemPrice: item.Price,
			ReturnType: "warranty_claim", FreePickup: true,
		}, nil
	}

	if order.Status != StatusDelivered && order.DeliveredAt.IsZero() {
		return Eligibility{
			Eligible: false,
			Reason:   fmt.Sprintf("Order status is %q — item has not been delivered yet", order.Status),
			OrderID:  orderID, SKU: sku, ItemName: item.Name, ItemPrice: item.Price,
		}, nil
	}

	windowDays := PlatformReturnWindowDays
	if order.Marketplace() {
		windowDays = MarketplaceReturnWindowDays
	}
	daysSince := int(r.now().Sub(order.DeliveredAt).Hours() / 24)
	withinWindow := daysSince <= windowDays

	el := Eligibility{
		Eligible: withinWindow && !strings.HasPrefix(sku, "SVC-"),
		OrderID:  orderID, SKU: sku, ItemName: item.Name, ItemPrice: item.Price,
		Seller: order.Seller, Marketplace: order.Marketplace(),
		WindowDays: windowDays, DaysSinceDelivery: daysSince,
		FreePickup: !order.Marketplace(),
	}
	if withinWindow {
		el.Reason = fmt.Sprintf("Within %d-day return window (%d days since delivery)", windowDays, daysSince)
	} else {
		el.Reason = fmt.Sprintf("Return window expired (%d/%d days)", daysSince, windowDays)
	}
	if order.Marketplace() {
		el.RestockingFee = item.Price * MarketplaceRestockingRate
	}
	return el, nil
}

// ReturnTicket is an initiated return.
type ReturnTicket struct {
	ReturnID     string `json:"return_id"`
	OrderID      string `json:"order_id"`
	SKU          string `json:"sku"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	ReturnLabel  string `json:"return_label"`
	Instructions string `json:"instructions"`
	CreatedAt    string `json:"created_at"`
}

// Initiate starts a return and generates a label.
func (r *Returns) Initiate(orderID, sku, reason string) ReturnTicket {
	id := "RET-" + shortRef(8)
	return ReturnTicket{
		ReturnID: id, OrderID: orderID, SKU: sku, Reason: reason,
		Status:       "initiated",
		ReturnLabel:  "https://returns.example.com/label/" + id,
		Instructions: "Please pack the item securely in original packaging if available. Attach the return label to the outside of the package.",
		CreatedAt:    r.now().UTC().Format(time.RFC3339),
	}
}

// Refund is an issued refund.
type Refund struct {
	RefundID            string  `json:"refund_id"`
	OrderID             string  `json:"order_id"`
	Amount              float64 `json:"amount"`
	Currency            string  `json:"currency"`
	Method              string  `json:"method"`
	Status              string  `json:"status"`
	EstimatedCompletion string  `json:"estimated_completion"`
	CreatedAt           string  `json:"created_at"`
}

// ProcessRefund issues a refund to the original payment method.
func (r *Returns) ProcessRefund(orderID string, amount float64, method string) Refund {
	return Refund{
		RefundID: "REF-" + shortRef(8),
		OrderID:  orderID, Amount: amount, Currency: "EUR", Method: method,
		Status:              "processing",
		EstimatedCompletion: RefundTimeline,
		CreatedAt:           r.now().UTC().Format(time.RFC3339),
	}
}

// Pickup is a scheduled courier pickup for a return.
type Pickup struct {
	ReturnID         string `json:"return_id"`
	PickupDate       string `json:"pickup_date"`
	PickupAddress    string `json:"pickup_address"`
	Carrier          string `json:"carrier"`
	TimeWindow       string `json:"time_window"`
	Status           string `json:"status"`
	ConfirmationCode string `json:"confirmation_code"`
}

// SchedulePickup books a courier pickup slot.
func (r *Returns) SchedulePickup(returnID, date, address string) Pickup {
	return Pickup{
		ReturnID: returnID, PickupDate: date, PickupAddress: address,
		Carrier: PickupCarrier, TimeWindow: PickupTimeWindow,
		Status:           "scheduled",
		ConfirmationCode: "PU-" + shortRef(6),
	}
}

// shortRef returns n uppercase hex characters from a fresh uuid.
func shortRef(n int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(hex[:n])
}

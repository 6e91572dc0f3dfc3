package commerce

import (
	"context"
	"fmt"
	"time"

	"github.com/commercemesh/commercemesh/tool"
)

// Tool payloads deliberately mirror the record field names; agents relay them
// verbatim to the backend as tool results.

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func floatArg(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// NewGetOrderStatusTool returns order details plus tracking info by order id.
func NewGetOrderStatusTool(orders OrderRepo) tool.Tool {
	return tool.NewFunc("get_order_status",
		"Get order details and tracking info. Args: {\"order_id\": \"string\"}",
		func(_ context.Context, args map[string]any) (any, error) {
			id := stringArg(args, "order_id")
			order, ok := orders.Get(id)
			if !ok {
				return tool.ErrorPayload(fmt.Sprintf("Order %s not found", id)), nil
			}
			return orderStatusPayload(order), nil
		})
}

// NewGetCustomerOrdersTool lists recent orders for a customer.
func NewGetCustomerOrdersTool(orders OrderRepo) tool.Tool {
	return tool.NewFunc("get_customer_orders",
		"List recent orders for a customer. Args: {\"customer_id\": \"string\"}",
		func(_ context.Context, args map[string]any) (any, error) {
			id := stringArg(args, "customer_id")
			return CustomerOrdersPayload(orders, id), nil
		})
}

// NewGetCarrierTrackingTool synthesizes a courier tracking timeline.
func NewGetCarrierTrackingTool(orders OrderRepo) tool.Tool {
	return tool.NewFunc("get_carrier_tracking",
		"Get courier tracking timeline. Args: {\"tracking_number\": \"string\"}",
		func(_ context.Context, args map[string]any) (any, error) {
			tn := stringArg(args, "tracking_number")
			order, ok := orders.ByTracking(tn)
			if !ok {
				return tool.ErrorPayload(fmt.Sprintf("Tracking number %s not found", tn)), nil
			}
			return trackingPayload(order), nil
		})
}

// NewGetOrderDetailsTool returns the full order with items and prices.
func NewGetOrderDetailsTool(orders OrderRepo) tool.Tool {
	return tool.NewFunc("get_order_details",
		"Full order with items and prices. Args: {\"order_id\": \"string\"}",
		func(_ context.Context, args map[string]any) (any, error) {
			id := stringArg(args, "order_id")
			order, ok := orders.Get(id)
			if !ok {
				return tool.ErrorPayload(fmt.Sprintf("Order %s not found", id)), nil
			}
			return order, nil
		})
}

// NewCheckReturnEligibilityTool checks return window and restrictions.
func NewCheckReturnEligibilityTool(returns *Returns) tool.Tool {
	return tool.NewFunc("check_return_eligibility",
		"Check return window and restrictions. Args: {\"order_id\": \"string\", \"sku\": \"string\"}",
		func(_ context.Context, args map[string]any) (any, error) {
			el, err := returns.CheckEligibility(stringArg(args, "order_id"), stringArg(args, "sku"), stringArg(args, "reason"))
			if err != nil {
				return tool.ErrorPayload(err.Error()), nil
			}
			return el, nil
		})
}

// NewInitiateReturnTool starts a return and generates a label.
func NewInitiateReturnTool(returns *Returns) tool.Tool {
	return tool.NewFunc("initiate_return",
		"Start return, generate label. Args: {\"order_id\": \"string\", \"sku\": \"string\", \"reason\": \"string\"}",
		func(_ context.Context, args map[string]any) (any, error) {
			return returns.Initiate(stringArg(args, "order_id"), stringArg(args, "sku"), stringArg(args, "reason")), nil
		})
}

// NewProcessRefundTool issues a refund.
func NewProcessRefundTool(returns *Returns) tool.Tool {
	return tool.NewFunc("process_refund",
		"Issue refund. Args: {\"order_id\": \"string\", \"amount\": number, \"method\": \"string\"}",
		func(_ context.Context, args map[string]any) (any, error) {
			return returns.ProcessRefund(stringArg(args, "order_id"), floatArg(args, "amount"), stringArg(args, "method")), nil
		})
}

// NewSchedulePickupTool books a courier pickup.
func NewSchedulePickupTool(returns *Returns) tool.Tool {
	return tool.NewFunc("schedule_pickup",
		"Schedule courier pickup. Args: {\"return_id\": \"string\", \"date\": \"string\", \"address\": \"string\"}",
		func(_ context.Context, args map[string]any) (any, error) {
			return returns.SchedulePickup(stringArg(args, "return_id"), stringArg(args, "date"), stringArg(args, "address")), nil
		})
}

// NewSearchProductsTool searches the catalog.
func NewSearchProductsTool(products ProductRepo) tool.Tool {
	return tool.NewFunc("search_products",
		"Search the catalog. Args: {\"query\": \"string\", \"category\": \"string\", \"max_price\": number}",
		func(_ context.Context, args map[string]any) (any, error) {
			query := stringArg(args, "query")
			results := products.Search(query, stringArg(args, "category"), floatArg(args, "max_price"))
			if len(results) > 10 {
				results = results[:10]
			}
			views := make([]map[string]any, 0, len(results))
			for _, p := range results {
				views = append(views, map[string]any{
					"sku": p.SKU, "name": p.Name, "price": p.Price, "rating": p.Rating,
					"in_stock": p.InStock, "seller": p.Seller, "category": p.Category,
				})
			}
			return map[string]any{"query": query, "results": views, "count": len(views)}, nil
		})
}

// NewGetProductDetailsTool returns full specs for one SKU.
func NewGetProductDetailsTool(products ProductRepo) tool.Tool {
	return tool.NewFunc("get_product_details",
		"Full specs and reviews. Args: {\"sku\": \"string\"}",
		func(_ context.Context, args map[string]any) (any, error) {
			sku := stringArg(args, "sku")
			p, ok := products.Get(sku)
			if !ok {
				return tool.ErrorPayload(fmt.Sprintf("Product %s not found", sku)), nil
			}
			return p, nil
		})
}

// NewCompareProductsTool returns the side-by-side record set for 2+ SKUs.
func NewCompareProductsTool(products ProductRepo) tool.Tool {
	return tool.NewFunc("compare_products",
		"Side-by-side comparison. Args: {\"skus\": [\"string\", \"string\"]}",
		func(_ context.Context, args map[string]any) (any, error) {
			raw, _ := args["skus"].([]any)
			var found []Product
			for _, r := range raw {
				if sku, ok := r.(string); ok {
					if p, ok := products.Get(sku); ok {
						found = append(found, p)
					}
				}
			}
			if len(found) < 2 {
				return tool.ErrorPayload("Need at least 2 valid SKUs to compare"), nil
			}
			return map[string]any{"products": found, "count": len(found)}, nil
		})
}

// NewGetCustomerHistoryTool lists past purchases for recommendations.
func NewGetCustomerHistoryTool(orders OrderRepo) tool.Tool {
	return tool.NewFunc("get_customer_history",
		"Past purchases. Args: {\"customer_id\": \"string\"}",
		func(_ context.Context, args map[string]any) (any, error) {
			id := stringArg(args, "customer_id")
			var past []map[string]any
			for _, o := range orders.ByCustomer(id) {
				for _, it := range o.Items {
					past = append(past, map[string]any{
						"name": it.Name, "sku": it.SKU, "price": it.Price,
						"order_date": o.PlacedAt.Format(time.RFC3339),
					})
				}
			}
			return map[string]any{"customer_id": id, "past_purchases": past, "count": len(past)}, nil
		})
}

// orderStatusPayload shapes the status view of one order.
func orderStatusPayload(o Order) map[string]any {
	payload := map[string]any{
		"order_id": o.ID, "status": o.Status, "items": o.Items,
		"total": o.Total, "currency": o.Currency,
		"placed_at": o.PlacedAt.Format(time.RFC3339),
	}
	if o.Carrier != "" {
		payload["carrier"] = o.Carrier
		payload["tracking_number"] = o.TrackingNumber
		payload["current_location"] = o.CurrentLocation
	}
	if o.EstimatedDelivery != "" {
		payload["estimated_delivery"] = o.EstimatedDelivery
	}
	if !o.DeliveredAt.IsZero() {
		payload["delivered_at"] = o.DeliveredAt.Format(time.RFC3339)
	}
	if o.Note != "" {
		payload["note"] = o.Note
	}
	if o.Seller != "" {
		payload["seller"] = o.Seller
	}
	return payload
}

// CustomerOrdersPayload shapes the order listing the tracker replays to the
// backend; exported because the scripted agents reuse it.
func CustomerOrdersPayload(orders OrderRepo, customerID string) map[string]any {
	list := orders.ByCustomer(customerID)
	if len(list) == 0 {
		return tool.ErrorPayload(fmt.Sprintf("No orders found for customer %s", customerID))
	}
	views := make([]map[string]any, 0, len(list))
	for _, o := range list {
		views = append(views, map[string]any{
			"order_id": o.ID, "status": o.Status, "total": o.Total,
			"currency": o.Currency, "items_summary": o.ItemsSummary(),
			"placed_at": o.PlacedAt.Format(time.RFC3339),
		})
	}
	return map[string]any{"customer_id": customerID, "orders": views, "count": len(views)}
}

// trackingPayload synthesizes a courier timeline from order shipping state.
func trackingPayload(o Order) map[string]any {
	timeline := []map[string]any{
		{"timestamp": o.PlacedAt.Format(time.RFC3339), "status": "Order placed", "location": "Online"},
	}
	switch o.Status {
	case StatusShipped, StatusInTransit, StatusDelivered:
		timeline = append(timeline, map[string]any{
			"timestamp": o.PlacedAt.Add(12 * time.Hour).Format(time.RFC3339),
			"status":    "Picked up by carrier",
			"location":  o.Carrier + " Warehouse",
		})
	}
	if o.Status == StatusInTransit || o.Status == StatusDelivered {
		timeline = append(timeline, map[string]any{
			"timestamp": o.PlacedAt.Add(36 * time.Hour).Format(time.RFC3339),
			"status":    "In transit",
			"location":  o.CurrentLocation,
		})
	}
	if o.Status == StatusDelivered {
		timeline = append(timeline, map[string]any{
			"timestamp": o.DeliveredAt.Format(time.RFC3339),
			"status":    "Delivered",
			"location":  "Delivery address",
		})
	}
	return map[string]any{
		"tracking_number": o.TrackingNumber, "carrier": o.Carrier,
		"status": o.Status, "timeline": timeline,
		"estimated_delivery": o.EstimatedDelivery,
	}
}

package specialist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercemesh/commercemesh/agent"
	"github.com/commercemesh/commercemesh/commerce"
	"github.com/commercemesh/commercemesh/core"
)

func demoDeps() Deps {
	data := commerce.NewDemoDataset()
	return Deps{
		Customers: data.Customers,
		Orders:    data.Orders,
		Products:  data.Products,
		Returns:   commerce.NewReturns(data.Orders),
	}
}

func toolNames(res *core.AgentResult) []string {
	names := make([]string, 0, len(res.ToolCalls))
	for _, tc := range res.ToolCalls {
		names = append(names, tc.Tool)
	}
	return names
}

func TestScriptedOrderTracker_ExplicitOrderID(t *testing.T) {
	a := NewScriptedOrderTracker(demoDeps(), core.BackendInfo{})

	res, err := a.Process(context.Background(), agent.Request{
		Message:    "Where is my order ORD-2026-1001?",
		CustomerID: "C-1001",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"get_order_status"}, toolNames(res))
	assert.Contains(t, res.Text, "ORD-2026-1001")
	assert.Contains(t, res.Text, "out for delivery")
	// C-1001 is a premium customer.
	assert.Contains(t, res.Text, "As a valued Premium member")
}

func TestScriptedOrderTracker_UnknownOrderID(t *testing.T) {
	a := NewScriptedOrderTracker(demoDeps(), core.BackendInfo{})

	res, err := a.Process(context.Background(), agent.Request{
		Message:    "Track ORD-2026-9999 please",
		CustomerID: "C-1001",
	})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "couldn't find order")
	assert.Contains(t, res.Text, "ORD-2026-9999")
}

func TestScriptedOrderTracker_BestOrderFallback(t *testing.T) {
	a := NewScriptedOrderTracker(demoDeps(), core.BackendInfo{})

	res, err := a.Process(context.Background(), agent.Request{
		Message:    "where is my package",
		CustomerID: "C-1001",
	})
	require.NoError(t, err)

	// The phone order is in transit, so it wins over processing/delivered.
	assert.Equal(t, []string{"get_customer_orders", "get_order_status"}, toolNames(res))
	assert.Contains(t, res.Text, "ORD-2026-1001")
}

func TestScriptedOrderTracker_ScreenshotPath(t *testing.T) {
	a := NewScriptedOrderTracker(demoDeps(), core.BackendInfo{})

	res, err := a.Process(context.Background(), agent.Request{
		Message:    "what's the status of this order?",
		Image:      "base64jpeg",
		CustomerID: "C-1001",
	})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "screenshot")
	assert.Contains(t, res.Text, "ORD-2026-1001")
}

func TestScriptedOrderTracker_CancelWishReroutes(t *testing.T) {
	a := NewScriptedOrderTracker(demoDeps(), core.BackendInfo{})

	res, err := a.Process(context.Background(), agent.Request{
		Message:    "Actually I want to cancel my TV order",
		CustomerID: "C-1001",
	})
	require.NoError(t, err)

	require.NotNil(t, res.Reroute)
	assert.Equal(t, ReturnsName, res.Reroute.Agent)
	assert.Equal(t, []string{"get_customer_orders"}, toolNames(res))
}

func TestScriptedReturns_Cancellation(t *testing.T) {
	a := NewScriptedReturns(demoDeps(), core.BackendInfo{})

	res, err := a.Process(context.Background(), agent.Request{
		Message:    "I want to cancel my TV order",
		CustomerID: "C-1001",
	})
	require.NoError(t, err)

	// The TV order is still processing, so it cancels outright with a refund.
	assert.Equal(t, []string{
		"get_customer_orders", "get_order_details", "initiate_return", "process_refund",
	}, toolNames(res))
	assert.Contains(t, res.Text, "ORD-2026-1002")
	assert.Regexp(t, `REF-[0-9A-F]{8}`, res.Text)
}

func TestScriptedReturns_DefectPhotoFastTrack(t *testing.T) {
	a := NewScriptedReturns(demoDeps(), core.BackendInfo{})
	rec := core.NewRecorder(nil)

	res, err := a.Process(context.Background(), agent.Request{
		Message:    "My headphones arrived broken, photo attached",
		Image:      "base64jpeg",
		CustomerID: "C-1001",
		Recorder:   rec,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"get_customer_orders", "get_order_details",
		"check_return_eligibility", "initiate_return", "schedule_pickup",
	}, toolNames(res))
	// The summary reads the generated references out of the tool results.
	assert.Regexp(t, `RET-[0-9A-F]{8}`, res.Text)
	assert.Regexp(t, `PU-[0-9A-F]{6}`, res.Text)
	assert.Contains(t, res.Text, "fast-tracked")
	assert.Contains(t, res.Text, commerce.PickupCarrier)
}

func TestScriptedReturns_WindowExpired(t *testing.T) {
	a := NewScriptedReturns(demoDeps(), core.BackendInfo{})

	res, err := a.Process(context.Background(), agent.Request{
		Message:    "I'd like to return my Sony headphones",
		CustomerID: "C-1001",
	})
	require.NoError(t, err)

	// Delivered 40 days ago: outside the 30-day window, no return initiated.
	assert.Equal(t, []string{
		"get_customer_orders", "get_order_details", "check_return_eligibility",
	}, toolNames(res))
	assert.Contains(t, res.Text, "Return window expired")
	assert.Contains(t, res.Text, "warranty claim")
}

func TestScriptedReturns_MarketplaceRestockingFee(t *testing.T) {
	a := NewScriptedReturns(demoDeps(), core.BackendInfo{})

	res, err := a.Process(context.Background(), agent.Request{
		Message:    "I want to return the Lenovo laptop",
		CustomerID: "C-1002",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"get_customer_orders", "get_order_details",
		"check_return_eligibility", "initiate_return",
	}, toolNames(res))
	assert.Contains(t, res.Text, "Restocking fee")
	assert.Contains(t, res.Text, "89.90")
	assert.Regexp(t, `RET-[0-9A-F]{8}`, res.Text)
}

func TestScriptedAdvisor_Comparison(t *testing.T) {
	a := NewScriptedProductAdvisor(demoDeps(), core.BackendInfo{})

	res, err := a.Process(context.Background(), agent.Request{
		Message:    "Should I get the LG C4 or the Samsung S90D?",
		CustomerID: "C-1002",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"compare_products"}, toolNames(res))
	assert.NotEmpty(t, res.Thinking)
	assert.Contains(t, res.Text, "LG C4")
	assert.Contains(t, res.Text, "S90D")
}

func TestScriptedAdvisor_PhotoIdentifiesPhone(t *testing.T) {
	a := NewScriptedProductAdvisor(demoDeps(), core.BackendInfo{})

	res, err := a.Process(context.Background(), agent.Request{
		Message:    "Can you find a case for this?",
		Image:      "base64jpeg",
		CustomerID: "C-1001",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"get_product_details", "search_products"}, toolNames(res))
	assert.Contains(t, res.Text, "Samsung S25 Ultra Silicone Case")
}

func TestScriptedAdvisor_SearchRecommendations(t *testing.T) {
	a := NewScriptedProductAdvisor(demoDeps(), core.BackendInfo{})

	res, err := a.Process(context.Background(), agent.Request{
		Message:    "I need a new laptop for work",
		CustomerID: "C-1002",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"get_customer_history", "search_products"}, toolNames(res))
	assert.Contains(t, res.Text, "top picks")
	assert.Contains(t, res.Text, "Lenovo Yoga")
	assert.NotEmpty(t, res.Thinking)
}

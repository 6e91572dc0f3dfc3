package commerce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercemesh/commercemesh/tool"
)

func callTool(t *testing.T, tl tool.Tool, args map[string]any) map[string]any {
	t.Helper()
	payload, err := tl.Call(context.Background(), args)
	require.NoError(t, err)
	m, ok := payload.(map[string]any)
	if !ok {
		t.Fatalf("payload is %T, want map", payload)
	}
	return m
}

func TestGetOrderStatusTool(t *testing.T) {
	data := NewDemoDataset()
	tl := NewGetOrderStatusTool(data.Orders)

	payload := callTool(t, tl, map[string]any{"order_id": "ORD-2026-1001"})
	assert.Equal(t, "ORD-2026-1001", payload["order_id"])
	assert.Equal(t, StatusInTransit, payload["status"])
	assert.Equal(t, "DPD", payload["carrier"])
	assert.Equal(t, "DPD-4420917733", payload["tracking_number"])

	missing := callTool(t, tl, map[string]any{"order_id": "ORD-0000-0000"})
	assert.Contains(t, missing["error"], "ORD-0000-0000")
}

func TestGetCustomerOrdersTool(t *testing.T) {
	data := NewDemoDataset()
	tl := NewGetCustomerOrdersTool(data.Orders)

	payload := callTool(t, tl, map[string]any{"customer_id": "C-1001"})
	assert.Equal(t, 3, payload["count"])
	views := payload["orders"].([]map[string]any)
	assert.Equal(t, "ORD-2026-1001", views[0]["order_id"])
	assert.Equal(t, "Samsung Galaxy S25 Ultra", views[0]["items_summary"])

	empty := callTool(t, tl, map[string]any{"customer_id": "C-9999"})
	assert.Contains(t, empty["error"], "C-9999")
}

func TestGetCarrierTrackingTool(t *testing.T) {
	data := NewDemoDataset()
	tl := NewGetCarrierTrackingTool(data.Orders)

	payload := callTool(t, tl, map[string]any{"tracking_number": "DPD-4420917733"})
	timeline := payload["timeline"].([]map[string]any)
	// placed, picked up, in transit
	require.Len(t, timeline, 3)
	assert.Equal(t, "Order placed", timeline[0]["status"])
	assert.Equal(t, "In transit", timeline[2]["status"])

	missing := callTool(t, tl, map[string]any{"tracking_number": "XX-1"})
	assert.Contains(t, missing["error"], "XX-1")
}

func TestCheckReturnEligibilityTool(t *testing.T) {
	data := NewDemoDataset()
	tl := NewCheckReturnEligibilityTool(NewReturns(data.Orders))

	payload := callTool(t, tl, map[string]any{
		"order_id": "ORD-2026-2001", "sku": "LAPTOP-LEN-YOGA7", "reason": "changed my mind",
	})
	el, ok := payload["eligible"].(bool)
	require.True(t, ok)
	assert.True(t, el)

	missing := callTool(t, tl, map[string]any{"order_id": "ORD-0000", "sku": "X", "reason": "r"})
	assert.NotEmpty(t, missing["error"])
}

func TestSearchProductsTool(t *testing.T) {
	data := NewDemoDataset()
	tl := NewSearchProductsTool(data.Products)

	payload := callTool(t, tl, map[string]any{"query": "laptop", "category": "laptops"})
	count := payload["count"].(int)
	assert.GreaterOrEqual(t, count, 2)
	views := payload["results"].([]map[string]any)
	assert.Len(t, views, count)
}

func TestCompareProductsTool(t *testing.T) {
	data := NewDemoDataset()
	tl := NewCompareProductsTool(data.Products)

	payload := callTool(t, tl, map[string]any{
		"skus": []any{"TV-LG-OLED55C4", "TV-SAM-S90D55"},
	})
	assert.Equal(t, 2, payload["count"])

	short := callTool(t, tl, map[string]any{"skus": []any{"TV-LG-OLED55C4", "NOPE"}})
	assert.NotEmpty(t, short["error"])
}

func TestGetCustomerHistoryTool(t *testing.T) {
	data := NewDemoDataset()
	tl := NewGetCustomerHistoryTool(data.Orders)

	payload := callTool(t, tl, map[string]any{"customer_id": "C-1001"})
	assert.Equal(t, 3, payload["count"])
	past := payload["past_purchases"].([]map[string]any)
	assert.Equal(t, "Samsung Galaxy S25 Ultra", past[0]["name"])
}

func TestProductSearchFilters(t *testing.T) {
	data := NewDemoDataset()

	results := data.Products.Search("", "tvs", 0)
	require.Len(t, results, 2)

	cheap := data.Products.Search("", "tvs", 1200)
	require.Len(t, cheap, 1)
	assert.Equal(t, "TV-LG-OLED55C4", cheap[0].SKU)
}

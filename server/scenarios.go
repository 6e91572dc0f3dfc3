package server

import "net/http"

// Scenario is one canned demo walkthrough for the test console.
type Scenario struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Message     string   `json:"message,omitempty"`
	Messages    []string `json:"messages,omitempty"`
	CustomerID  string   `json:"customer_id"`
	Image       bool     `json:"image,omitempty"`
	Description string   `json:"description"`
}

var demoScenarios = []Scenario{
	{
		ID: 1, Name: "Order Tracking (text)",
		Message: "Where is my Samsung order?", CustomerID: "C-1001",
		Description: "Routes to Order Tracker via Slice 2, finds in-transit Samsung order",
	},
	{
		ID: 2, Name: "Order Tracking (image)",
		Message: "Can you find this order?", CustomerID: "C-1001", Image: true,
		Description: "Vision: reads order ID from screenshot, routes to Order Tracker",
	},
	{
		ID: 3, Name: "Return with Defect Photo",
		Message: "I want to return this, it arrived broken", CustomerID: "C-1003", Image: true,
		Description: "Vision: analyzes damage photo, fast-tracks return with free pickup",
	},
	{
		ID: 4, Name: "Product Comparison (thinking)",
		Message: "Should I get the LG C4 OLED or Samsung S90D?", CustomerID: "C-1001",
		Description: "Product Advisor with thinking mode, detailed comparison",
	},
	{
		ID: 5, Name: "Product ID from Photo",
		Message: "I have this at home, looking for a compatible case", CustomerID: "C-1001", Image: true,
		Description: "Vision: identifies phone from photo, searches compatible accessories",
	},
	{
		ID: 6, Name: "Mid-conversation Reroute",
		Messages:   []string{"Where is my TV order?", "Actually I want to cancel it"},
		CustomerID: "C-1001",
		Description: "Order Tracker -> reroute to Returns Agent, shows handoff",
	},
	{
		ID: 7, Name: "Escalation",
		Message: "I've called 5 times, nobody helps, I'm filing a complaint", CustomerID: "C-1003",
		Description: "Detects frustration, escalates with case reference",
	},
}

func (s *Server) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": demoScenarios})
}

package specialist

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/commercemesh/commercemesh/agent"
	"github.com/commercemesh/commercemesh/backend"
	"github.com/commercemesh/commercemesh/commerce"
)

// The scripted specialists reproduce the demo scenarios deterministically:
// each script emits the tool-call directives and final texts a well-behaved
// model would produce for the fixture data, and the runtime executes them
// like live output.

var orderIDPattern = regexp.MustCompile(`ORD-\d{4}-\d+`)

func containsAny(text string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// matchOrderBySummary finds the first order whose item summary shares a word
// (longer than 3 chars) with the message.
func matchOrderBySummary(orders []commerce.Order, msg string) (commerce.Order, bool) {
	for _, o := range orders {
		summary := strings.ToLower(o.ItemsSummary())
		for _, word := range strings.Fields(msg) {
			if len(word) > 3 && strings.Contains(summary, word) {
				return o, true
			}
		}
	}
	return commerce.Order{}, false
}

func orderTrackerScript(deps Deps) agent.Script {
	return func(req agent.Request) []agent.Step {
		msg := strings.ToLower(req.Message)
		ordersArgs := map[string]any{"customer_id": req.CustomerID}

		// A cancel/return wish mid-tracking hands off to the returns agent.
		if containsAny(msg, "cancel", "return", "don't want", "actually i want to") {
			return []agent.Step{
				agent.CallTool("get_customer_orders", ordersArgs),
				agent.Say(agent.RerouteTag(ReturnsName, "Customer wants to cancel/return an order")),
			}
		}

		orders := deps.Orders.ByCustomer(req.CustomerID)

		// Order ID read from an order-confirmation screenshot.
		if req.Image != "" && len(orders) > 0 {
			o := orders[0]
			return []agent.Step{
				agent.CallTool("get_customer_orders", ordersArgs),
				agent.CallTool("get_order_status", map[string]any{"order_id": o.ID}),
				agent.Say(screenshotText(o)),
			}
		}

		// Explicit order ID in the message.
		if id := orderIDPattern.FindString(req.Message); id != "" {
			statusArgs := map[string]any{"order_id": id}
			if o, ok := deps.Orders.Get(id); ok {
				return []agent.Step{
					agent.CallTool("get_order_status", statusArgs),
					agent.Say(orderStatusText(deps, req.CustomerID, o)),
				}
			}
			return []agent.Step{
				agent.CallTool("get_order_status", statusArgs),
				agent.Say(fmt.Sprintf("I couldn't find order **%s** on your account. Could you double-check the order ID?", id)),
			}
		}

		if len(orders) == 0 {
			return []agent.Step{
				agent.CallTool("get_customer_orders", ordersArgs),
				agent.Say("I couldn't find any orders associated with your account. Could you please provide your order ID? It starts with ORD-."),
			}
		}

		best, ok := matchOrderBySummary(orders, msg)
		if !ok {
			// Most recent active order, else the first.
			for _, o := range orders {
				if o.Status == commerce.StatusInTransit || o.Status == commerce.StatusShipped || o.Status == commerce.StatusProcessing {
					best, ok = o, true
					break
				}
			}
			if !ok {
				best = orders[0]
			}
		}
		return []agent.Step{
			agent.CallTool("get_customer_orders", ordersArgs),
			agent.CallTool("get_order_status", map[string]any{"order_id": best.ID}),
			agent.Say(orderStatusText(deps, req.CustomerID, best)),
		}
	}
}

func screenshotText(o commerce.Order) string {
	head := fmt.Sprintf("I was able to read the order details from your screenshot! Your order **%s** (%s) is currently **%s**. ",
		o.ID, o.ItemsSummary(), o.Status)
	if o.Carrier != "" {
		return head + fmt.Sprintf("It's being shipped via %s and the current location is: %s. Estimated delivery: %s.",
			o.Carrier, o.CurrentLocation, o.EstimatedDelivery)
	}
	return head + fmt.Sprintf("Placed on %s.", o.PlacedAt.Format("2006-01-02"))
}

func orderStatusText(deps Deps, customerID string, o commerce.Order) string {
	prefix := ""
	if c, ok := deps.Customers.Get(customerID); ok && c.Premium {
		prefix = "As a valued Premium member, "
	}
	items := strings.Join(itemNames(o), ", ")

	switch o.Status {
	case commerce.StatusInTransit:
		return fmt.Sprintf("%sgreat news! Your order **%s** (%s) is currently **out for delivery**! It's being shipped via %s — current location: **%s**. Estimated delivery: **%s**.",
			prefix, o.ID, items, o.Carrier, o.CurrentLocation, o.EstimatedDelivery)
	case commerce.StatusDelivered:
		return fmt.Sprintf("%syour order **%s** (%s) was **delivered** on %s. If you haven't received it or have any issues, please let me know!",
			prefix, o.ID, items, o.DeliveredAt.Format("2006-01-02"))
	case commerce.StatusProcessing:
		text := fmt.Sprintf("%syour order **%s** (%s) is currently being **processed** and prepared for shipping. Estimated delivery: **%s**.",
			prefix, o.ID, items, o.EstimatedDelivery)
		if o.Note != "" {
			text += " Note: " + o.Note
		}
		return text
	case commerce.StatusShipped:
		return fmt.Sprintf("%syour order **%s** (%s) has been **shipped**! Carrier: %s | Tracking: %s. Estimated delivery: **%s**.",
			prefix, o.ID, items, o.Carrier, o.TrackingNumber, o.EstimatedDelivery)
	case commerce.StatusCancelled:
		return fmt.Sprintf("%syour order **%s** (%s) was **cancelled**. If you'd like to reorder or need any help, I'm here for you!",
			prefix, o.ID, items)
	default:
		return fmt.Sprintf("%syour order **%s** is currently in status: **%s**. Let me know if you need more details!",
			prefix, o.ID, o.Status)
	}
}

func itemNames(o commerce.Order) []string {
	names := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		names = append(names, it.Name)
	}
	return names
}

func returnsScript(deps Deps) agent.Script {
	return func(req agent.Request) []agent.Step {
		msg := strings.ToLower(req.Message)
		steps := []agent.Step{
			agent.CallTool("get_customer_orders", map[string]any{"customer_id": req.CustomerID}),
		}

		orders := deps.Orders.ByCustomer(req.CustomerID)
		if len(orders) == 0 {
			return append(steps, agent.Say("I couldn't find any orders on your account. Could you please provide the order ID?"))
		}

		target, matched := matchOrderBySummary(orders, msg)
		if strings.Contains(msg, "cancel") {
			for _, o := range orders {
				if o.Status == commerce.StatusProcessing || o.Status == commerce.StatusShipped {
					target, matched = o, true
					break
				}
			}
		}
		if !matched {
			for _, o := range orders {
				if o.Status == commerce.StatusDelivered || o.Status == commerce.StatusReturnRequested {
					target, matched = o, true
					break
				}
			}
			if !matched {
				target = orders[0]
			}
		}

		steps = append(steps, agent.CallTool("get_order_details", map[string]any{"order_id": target.ID}))
		item := target.Items[0]

		switch {
		case req.Image != "":
			return append(steps, defectPhotoSteps(deps, req.CustomerID, target, item)...)
		case strings.Contains(msg, "cancel"):
			return append(steps, cancellationSteps(target, item)...)
		default:
			return append(steps, standardReturnSteps(deps, target, item)...)
		}
	}
}

// defectPhotoSteps fast-tracks a return backed by a damage photo: eligibility,
// return, pickup, then a summary that reads the generated references back out
// of the tool results.
func defectPhotoSteps(deps Deps, customerID string, target commerce.Order, item commerce.OrderItem) []agent.Step {
	const reason = "Defective - visible damage in customer photo"
	address := "your registered address"
	if c, ok := deps.Customers.Get(customerID); ok {
		address = c.DeliveryAddress
	}
	pickupDate := time.Now().Add(48 * time.Hour).Format("2006-01-02")

	return []agent.Step{
		agent.CallTool("check_return_eligibility", map[string]any{
			"order_id": target.ID, "sku": item.SKU, "reason": reason,
		}),
		agent.CallTool("initiate_return", map[string]any{
			"order_id": target.ID, "sku": item.SKU, "reason": reason,
		}),
		func(breq backend.Request) string {
			ret := agent.LastToolResult(breq)
			returnID, _ := ret["return_id"].(string)
			return agent.ToolCallTag("schedule_pickup", map[string]any{
				"return_id": returnID, "date": pickupDate, "address": address,
			})
		},
		func(breq backend.Request) string {
			pickup := agent.LastToolResult(breq)
			returnID, _ := pickup["return_id"].(string)
			code, _ := pickup["confirmation_code"].(string)
			carrier, _ := pickup["carrier"].(string)
			window, _ := pickup["time_window"].(string)
			return fmt.Sprintf(
				"I can see the damage in your photo — it appears there's a **crack across the screen/surface** of your %s. I'm very sorry about this!\n\n"+
					"Based on the visible damage, I've **fast-tracked your return** (no need to ship it back for inspection). Here's what I've arranged:\n\n"+
					"- **Return ID**: %s\n"+
					"- **Courier pickup**: %s (%s) at %s\n"+
					"- **Carrier**: %s\n"+
					"- **Refund**: €%.2f will be returned to your original payment method within %s after pickup.\n\n"+
					"Confirmation code: **%s**. Is there anything else I can help with?",
				item.Name, returnID, pickupDate, window, address, carrier, item.Price, commerce.RefundTimeline, code)
		},
	}
}

// cancellationSteps cancels a still-processing order outright; anything
// further along gets a return offer instead.
func cancellationSteps(target commerce.Order, item commerce.OrderItem) []agent.Step {
	if target.Status != commerce.StatusProcessing {
		text := fmt.Sprintf("Your order **%s** (%s) is currently **%s**. ", target.ID, item.Name, target.Status)
		if target.Status == commerce.StatusShipped || target.Status == commerce.StatusInTransit {
			text += "Since it has already shipped, we can initiate a return once you receive it. "
		}
		return []agent.Step{agent.Say(text + "Would you like me to proceed with a return request?")}
	}

	return []agent.Step{
		agent.CallTool("initiate_return", map[string]any{
			"order_id": target.ID, "sku": item.SKU, "reason": "Customer requested cancellation",
		}),
		agent.CallTool("process_refund", map[string]any{
			"order_id": target.ID, "amount": target.Total, "method": target.PaymentMethod,
		}),
		func(breq backend.Request) string {
			refund := agent.LastToolResult(breq)
			refundID, _ := refund["refund_id"].(string)
			return fmt.Sprintf(
				"I've processed the cancellation for your order **%s** (%s). Since it was still in processing, we were able to cancel it immediately.\n\n"+
					"- **Refund**: €%.2f → %s\n"+
					"- **Refund ID**: %s\n"+
					"- **Timeline**: %s\n\n"+
					"Is there anything else I can help you with?",
				target.ID, item.Name, target.Total, target.PaymentMethod, refundID, commerce.RefundTimeline)
		},
	}
}

func standardReturnSteps(deps Deps, target commerce.Order, item commerce.OrderItem) []agent.Step {
	const reason = "Customer requested return"
	eligibilityCall := agent.CallTool("check_return_eligibility", map[string]any{
		"order_id": target.ID, "sku": item.SKU, "reason": reason,
	})

	el, err := deps.Returns.CheckEligibility(target.ID, item.SKU, reason)
	if err != nil || !el.Eligible {
		return []agent.Step{
			eligibilityCall,
			agent.Say(fmt.Sprintf(
				"I've checked the return eligibility for your **%s** from order **%s**.\n\n"+
					"Unfortunately, **%s**.\n\n"+
					"If the item is defective, I can file a warranty claim instead. Would you like me to do that?",
				item.Name, target.ID, ineligibleReason(el, err))),
		}
	}

	restockingNote := ""
	if el.RestockingFee > 0 {
		restockingNote = fmt.Sprintf("\n- **Restocking fee**: €%.2f (marketplace item)", el.RestockingFee)
	}
	return []agent.Step{
		eligibilityCall,
		agent.CallTool("initiate_return", map[string]any{
			"order_id": target.ID, "sku": item.SKU, "reason": reason,
		}),
		func(breq backend.Request) string {
			ret := agent.LastToolResult(breq)
			returnID, _ := ret["return_id"].(string)
			label, _ := ret["return_label"].(string)
			return fmt.Sprintf(
				"I've checked the return eligibility for your **%s** from order **%s**.\n\n"+
					"**%s**\n\n"+
					"I've initiated the return:\n"+
					"- **Return ID**: %s%s\n"+
					"- **Refund amount**: €%.2f → original payment method\n"+
					"- **Return label**: [Download label](%s)\n\n"+
					"Would you like me to schedule a free courier pickup?",
				item.Name, target.ID, el.Reason, returnID, restockingNote, item.Price-el.RestockingFee, label)
		},
	}
}

func ineligibleReason(el commerce.Eligibility, err error) string {
	if err != nil {
		return err.Error()
	}
	if el.Reason != "" {
		return el.Reason
	}
	return "this item is not eligible for return"
}

func advisorScript(deps Deps) agent.Script {
	return func(req agent.Request) []agent.Step {
		msg := strings.ToLower(req.Message)
		switch {
		case req.Image != "":
			return advisorPhotoSteps(deps)
		case containsAny(msg, "compare", "vs", "or the", "lg c4", "s90d", "which tv", "oled"):
			return advisorComparisonSteps()
		default:
			return advisorSearchSteps(deps, req.CustomerID, msg)
		}
	}
}

// advisorPhotoSteps identifies the phone in the photo and suggests a case.
func advisorPhotoSteps(deps Deps) []agent.Step {
	thinking := "<think>The customer has sent a photo of what appears to be a smartphone. " +
		"Based on the form factor and camera module layout, this looks like a Samsung Galaxy S25 series device. " +
		"I should search for compatible cases and accessories for this phone.</think>\n"

	text := "I can see from your photo that you have a **Samsung Galaxy S25 Ultra** — great phone! " +
		"For a compatible case, I'd recommend the **Samsung S25 Ultra Silicone Case** (€29.99). " +
		"It's the official Samsung case with a soft-touch finish and precise cutouts for all ports and the S Pen slot. " +
		"Available in Black, Navy, Cream, and Coral. Shall I add it to your cart?"

	return []agent.Step{
		agent.Say(thinking + agent.ToolCallTag("get_product_details", map[string]any{"sku": "PHONE-SAM-S25U"})),
		agent.CallTool("search_products", map[string]any{"query": "Samsung S25 case", "category": "accessories"}),
		agent.Say(text),
	}
}

// advisorComparisonSteps walks the OLED TV comparison with a thinking block.
func advisorComparisonSteps() []agent.Step {
	thinking := "<think>The customer is comparing two premium OLED TVs. Let me think about the key differences:\n\n" +
		"The LG C4 uses a traditional W-OLED panel with self-emitting pixels — this means perfect blacks and infinite contrast. " +
		"It's powered by the α9 Gen7 AI processor and has excellent gaming features with 4x HDMI 2.1.\n\n" +
		"The Samsung S90D uses QD-OLED (Quantum Dot OLED), which combines OLED's perfect blacks with " +
		"Quantum Dot's superior color volume and brightness. It can get noticeably brighter in HDR content, " +
		"and the Object Tracking Sound+ with 60W is significantly better than LG's 40W system.\n\n" +
		"For a bright living room: Samsung S90D (brighter highlights).\n" +
		"For a dark home theater: LG C4 (proven webOS, slightly cheaper).\n" +
		"For gaming: both excellent, but LG's Game Optimizer is more mature.\n\n" +
		"I'll pull up the detailed specs to give a comprehensive recommendation.</think>\n"

	text := "Both are excellent OLED TVs, but they have different strengths:\n\n" +
		"The **LG C4 OLED** (€1,199) uses traditional W-OLED — proven technology with perfect blacks, excellent webOS smart platform, " +
		"and arguably the best gaming experience with LG's refined Game Optimizer. 4 HDMI 2.1 ports at 4K@120Hz.\n\n" +
		"The **Samsung S90D QD-OLED** (€1,299) uses Quantum Dot OLED, which gets **noticeably brighter** in HDR — " +
		"if your living room has windows, you'll appreciate this. The sound system is also superior at 60W with Object Tracking Sound+ " +
		"vs LG's 40W. It supports 4K@144Hz, a small edge for PC gaming.\n\n" +
		"**My recommendation**: If you're in a **bright room**, go Samsung S90D — the extra brightness is worth the €100 premium. " +
		"For a **dedicated dark viewing room** or heavy gaming, the LG C4 is the sweet spot at €100 less. " +
		"Both have 24-month warranty and 30-day free returns, so you can try risk-free!"

	return []agent.Step{
		agent.Say(thinking + agent.ToolCallTag("compare_products", map[string]any{
			"skus": []any{"TV-LG-OLED55C4", "TV-SAM-S90D55"},
		})),
		agent.Say(text),
	}
}

func advisorSearchSteps(deps Deps, customerID, msg string) []agent.Step {
	query, category := msg, ""
	switch {
	case containsAny(msg, "phone", "smartphone", "mobile"):
		query, category = "phone", "phones"
	case containsAny(msg, "laptop", "notebook", "macbook"):
		query, category = "laptop", "laptops"
	case containsAny(msg, "tv", "television", "oled"):
		query, category = "tv", "tvs"
	case containsAny(msg, "headphone", "earbuds", "audio"):
		query, category = "audio", "audio"
	}

	thinking := "The customer is looking for product advice. Let me search our catalog "
	if category != "" {
		thinking += "in the " + category + " category "
	}
	thinking += "and check their purchase history to give personalized recommendations."

	results := deps.Products.Search(query, category, 0)
	final := "I couldn't find an exact match in our catalog. Could you tell me more about what you're looking for — budget, key features, or how you plan to use it?"
	if len(results) > 0 {
		if len(results) > 3 {
			results = results[:3]
		}
		var recs []string
		for _, p := range results {
			line := fmt.Sprintf("- **%s** — €%.2f (⭐ %.1f) ", p.Name, p.Price, p.Rating)
			if p.InStock {
				line += "✅ In stock"
			} else {
				line += "❌ Out of stock"
			}
			if p.Seller != "platform" {
				line += " ⚠️ Marketplace seller"
			}
			recs = append(recs, line)
		}
		final = "Based on what you're looking for, here are my top picks:\n\n" + strings.Join(recs, "\n") +
			"\n\nWould you like me to compare any of these in detail, or do you have a specific budget or feature in mind?"
	}

	return []agent.Step{
		agent.Say("<think>" + thinking + "</think>\n" + agent.ToolCallTag("get_customer_history", map[string]any{"customer_id": customerID})),
		agent.CallTool("search_products", map[string]any{"query": query, "category": category}),
		agent.Say(final),
	}
}

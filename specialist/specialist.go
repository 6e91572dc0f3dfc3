// Package specialist defines the concrete agents of the customer-service
// mesh: the intent router plus the order tracker, returns and product advisor
// specialists. Each specialist binds an instruction, a temperature and a tool
// registry over the commerce repositories. Live constructors attach a real
// inference backend; scripted constructors replay the demo scenarios through
// the same runtime.
package specialist

import (
	"github.com/commercemesh/commercemesh/agent"
	"github.com/commercemesh/commercemesh/backend"
	"github.com/commercemesh/commercemesh/commerce"
	"github.com/commercemesh/commercemesh/core"
	"github.com/commercemesh/commercemesh/tool"
)

// Agent names as they appear in events, reroute directives and dispatch.
const (
	RouterName         = "router"
	OrderTrackerName   = "order_tracker"
	ReturnsName        = "returns"
	ProductAdvisorName = "product_advisor"
	EscalationName     = "escalation"
)

// Deps are the business-data collaborators the specialists' tools close over.
type Deps struct {
	Customers commerce.CustomerRepo
	Orders    commerce.OrderRepo
	Products  commerce.ProductRepo
	Returns   *commerce.Returns
}

// OrderTrackerTools builds the order tracker's registry.
func OrderTrackerTools(deps Deps) *tool.Registry {
	return tool.NewRegistry(
		commerce.NewGetOrderStatusTool(deps.Orders),
		commerce.NewGetCustomerOrdersTool(deps.Orders),
		commerce.NewGetCarrierTrackingTool(deps.Orders),
	)
}

// ReturnsTools builds the returns specialist's registry.
func ReturnsTools(deps Deps) *tool.Registry {
	return tool.NewRegistry(
		commerce.NewGetOrderDetailsTool(deps.Orders),
		commerce.NewCheckReturnEligibilityTool(deps.Returns),
		commerce.NewInitiateReturnTool(deps.Returns),
		commerce.NewProcessRefundTool(deps.Returns),
		commerce.NewSchedulePickupTool(deps.Returns),
	)
}

// ProductAdvisorTools builds the product advisor's registry.
func ProductAdvisorTools(deps Deps) *tool.Registry {
	return tool.NewRegistry(
		commerce.NewSearchProductsTool(deps.Products),
		commerce.NewGetProductDetailsTool(deps.Products),
		commerce.NewCompareProductsTool(deps.Products),
		commerce.NewGetCustomerHistoryTool(deps.Orders),
	)
}

// NewOrderTracker builds the live order tracking specialist.
func NewOrderTracker(b backend.Backend, deps Deps, optFns ...func(o *agent.Options)) *agent.LiveAgent {
	return agent.NewLive(OrderTrackerName, orderTrackerInstruction, b,
		withTools(OrderTrackerTools(deps), optFns)...)
}

// NewReturns builds the live returns specialist.
func NewReturns(b backend.Backend, deps Deps, optFns ...func(o *agent.Options)) *agent.LiveAgent {
	return agent.NewLive(ReturnsName, returnsInstruction, b,
		withTools(ReturnsTools(deps), optFns)...)
}

// NewProductAdvisor builds the live product advisor. Thinking output is a
// property of the instruction-following model bound here; the runtime strips
// and reports whatever thinking the model emits.
func NewProductAdvisor(b backend.Backend, deps Deps, optFns ...func(o *agent.Options)) *agent.LiveAgent {
	return agent.NewLive(ProductAdvisorName, productAdvisorInstruction, b,
		withTools(ProductAdvisorTools(deps), optFns)...)
}

// NewScriptedOrderTracker builds the demo order tracker.
func NewScriptedOrderTracker(deps Deps, info core.BackendInfo, optFns ...func(o *agent.Options)) *agent.ScriptedAgent {
	return agent.NewScripted(OrderTrackerName, orderTrackerInstruction, info,
		orderTrackerScript(deps), withTools(OrderTrackerTools(deps), optFns)...)
}

// NewScriptedReturns builds the demo returns specialist.
func NewScriptedReturns(deps Deps, info core.BackendInfo, optFns ...func(o *agent.Options)) *agent.ScriptedAgent {
	return agent.NewScripted(ReturnsName, returnsInstruction, info,
		returnsScript(deps), withTools(ReturnsTools(deps), optFns)...)
}

// NewScriptedProductAdvisor builds the demo product advisor.
func NewScriptedProductAdvisor(deps Deps, info core.BackendInfo, optFns ...func(o *agent.Options)) *agent.ScriptedAgent {
	return agent.NewScripted(ProductAdvisorName, productAdvisorInstruction, info,
		advisorScript(deps), withTools(ProductAdvisorTools(deps), optFns)...)
}

func withTools(reg *tool.Registry, optFns []func(o *agent.Options)) []func(o *agent.Options) {
	return append([]func(o *agent.Options){func(o *agent.Options) { o.Tools = reg }}, optFns...)
}

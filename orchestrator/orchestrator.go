// Package orchestrator runs one conversation turn end to end: route the
// message, short-circuit escalations and clarifications, dispatch to the
// right specialist, follow mid-turn reroutes up to the hop cap, and persist
// the turn into the conversation store. Every step lands on the turn's event
// recorder in emission order.
package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/commercemesh/commercemesh/agent"
	"github.com/commercemesh/commercemesh/classifier"
	"github.com/commercemesh/commercemesh/conversation"
	"github.com/commercemesh/commercemesh/core"
	"github.com/commercemesh/commercemesh/logging"
	"github.com/commercemesh/commercemesh/specialist"
)

const clarifyText = "I'd like to help you! Could you tell me a bit more about what you need? For example:\n" +
	"- **Order tracking**: \"Where is my order?\" or provide an order ID\n" +
	"- **Returns/refunds**: \"I want to return...\" or \"My item is damaged\"\n" +
	"- **Product advice**: \"Which laptop should I buy?\" or \"Compare these TVs\""

// escalationLatencyPad is the nominal handling time added on top of routing
// when a turn is escalated to a human.
const escalationLatencyPad = 50 * time.Millisecond

// TurnRequest is one inbound message to process.
type TurnRequest struct {
	ConversationID string
	CustomerID     string
	Message        string
	Image          string // base64 JPEG, empty when absent

	// Sink receives each event as it is emitted. May be nil. Sink failures are
	// tolerated; the full event list always rides on the TurnResult.
	Sink core.Sink
}

// Orchestrator wires the classifier, the specialists and the conversation
// store into the turn state machine.
type Orchestrator struct {
	classifier classifier.Classifier
	routerInfo core.BackendInfo
	dispatch   map[core.Category]agent.Runtime
	byName     map[string]agent.Runtime
	fallback   agent.Runtime
	store      conversation.Store
	opts       Options
}

// Options configures an Orchestrator.
type Options struct {
	// MaxReroutes caps specialist hand-offs within one turn.
	MaxReroutes int

	Logger logging.Logger
}

// New builds an orchestrator over a classifier and the three specialists.
// RouterInfo is the backend descriptor reported for routing, escalation and
// clarification events.
func New(
	cls classifier.Classifier,
	routerInfo core.BackendInfo,
	orderTracker, returns, productAdvisor agent.Runtime,
	store conversation.Store,
	optFns ...func(o *Options),
) *Orchestrator {
	opts := Options{MaxReroutes: 2, Logger: logging.NopLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		classifier: cls,
		routerInfo: routerInfo,
		dispatch: map[core.Category]agent.Runtime{
			core.CategoryOrderStatus:    orderTracker,
			core.CategoryReturns:        returns,
			core.CategoryProductAdvisor: productAdvisor,
		},
		byName: map[string]agent.Runtime{
			specialist.OrderTrackerName:   orderTracker,
			specialist.ReturnsName:        returns,
			specialist.ProductAdvisorName: productAdvisor,
		},
		fallback: orderTracker,
		store:    store,
		opts:     opts,
	}
}

// ProcessTurn runs one turn. It never fails on degraded model behavior; the
// returned result always carries a response text and the full ordered event
// list.
func (o *Orchestrator) ProcessTurn(ctx context.Context, req TurnRequest) (*core.TurnResult, error) {
	rec := core.NewRecorder(req.Sink)

	history, err := o.store.History(ctx, req.ConversationID)
	if err != nil && err != conversation.ErrNotFound {
		o.opts.Logger.Warn("history load failed", "conversation_id", req.ConversationID, "error", err)
	}

	cl, routeLatency := o.classifier.Classify(ctx, req.Message, req.Image, history)
	cl = cl.Clarified()
	rec.Emit(core.EventRouting, map[string]any{
		"category":   string(cl.Category),
		"confidence": cl.Confidence,
		"language":   cl.Language,
		"has_image":  cl.HasImage,
		"model":      o.routerInfo.Model,
		"slice":      o.routerInfo.Slice,
		"latency_ms": routeLatency.Milliseconds(),
	})

	switch cl.Category {
	case core.CategoryEscalate:
		return o.escalate(ctx, req, rec, cl, routeLatency)
	case core.CategoryClarify:
		return o.clarify(ctx, req, rec, cl, routeLatency)
	}

	spec, ok := o.dispatch[cl.Category]
	if !ok {
		spec = o.fallback
	}
	o.emitModelSwitch(rec, o.routerInfo, spec.Backend().Info())

	total := routeLatency
	result := o.run(ctx, spec, req, history, rec)
	total += result.Latency

	for hops := 0; result.Reroute != nil && hops < o.opts.MaxReroutes; hops++ {
		target := o.resolveReroute(result.Reroute.Agent)
		if target == nil {
			o.opts.Logger.Warn("unresolvable reroute target", "agent", result.Reroute.Agent)
			break
		}
		fromInfo := spec.Backend().Info()
		toInfo := target.Backend().Info()
		rec.Emit(core.EventReroute, map[string]any{
			"from":       spec.Name(),
			"to":         target.Name(),
			"from_model": fromInfo.Model,
			"to_model":   toInfo.Model,
			"reason":     result.Reroute.Reason,
		})
		o.emitModelSwitch(rec, fromInfo, toInfo)

		spec = target
		result = o.run(ctx, spec, req, history, rec)
		total += result.Latency
	}

	info := spec.Backend().Info()
	rec.Emit(core.EventResponse, map[string]any{
		"text":             result.Text,
		"agent":            spec.Name(),
		"model":            info.Model,
		"slice":            info.Slice,
		"total_latency_ms": total.Milliseconds(),
	})

	o.appendTurn(ctx, req, result.Text)

	return &core.TurnResult{
		ConversationID: req.ConversationID,
		Response:       result.Text,
		Agent:          spec.Name(),
		Backend:        info,
		Classification: cl,
		Events:         rec.Events(),
		TotalLatency:   total,
	}, nil
}

func (o *Orchestrator) run(ctx context.Context, spec agent.Runtime, req TurnRequest, history []core.Message, rec *core.Recorder) *core.AgentResult {
	result, err := spec.Process(ctx, agent.Request{
		ConversationID: req.ConversationID,
		Message:        req.Message,
		Image:          req.Image,
		CustomerID:     req.CustomerID,
		History:        history,
		Recorder:       rec,
	})
	if err != nil || result == nil {
		o.opts.Logger.Error("specialist processing failed", "agent", spec.Name(), "error", err)
		return &core.AgentResult{Text: agent.Apology, Agent: spec.Name(), Backend: spec.Backend().Info()}
	}
	return result
}

// resolveReroute maps a reroute target to a runtime: category-style ids
// first, then raw agent names.
func (o *Orchestrator) resolveReroute(name string) agent.Runtime {
	if rt, ok := o.dispatch[core.Category(strings.ToUpper(name))]; ok {
		return rt
	}
	return o.byName[name]
}

func (o *Orchestrator) emitModelSwitch(rec *core.Recorder, from, to core.BackendInfo) {
	if from.Slice == to.Slice {
		return
	}
	rec.Emit(core.EventModelSwitch, map[string]any{
		"from_model": from.Model,
		"from_slice": from.Slice,
		"to_model":   to.Model,
		"to_slice":   to.Slice,
	})
}

func (o *Orchestrator) escalate(ctx context.Context, req TurnRequest, rec *core.Recorder, cl core.Classification, routeLatency time.Duration) (*core.TurnResult, error) {
	text := "I completely understand your frustration, and I sincerely apologize for the difficulties you've experienced. " +
		"Your case is important to us. I'm escalating this to our **senior support team** right now — " +
		"a supervisor will contact you within **2 hours** via your preferred contact method. " +
		"They will have full context of your previous interactions. " +
		"Your case reference is **" + NewCaseRef() + "**. " +
		"Is there anything else I can note for the supervisor?"

	total := routeLatency + escalationLatencyPad
	rec.Emit(core.EventAgentStart, map[string]any{
		"agent":    specialist.EscalationName,
		"model":    o.routerInfo.Model,
		"endpoint": o.routerInfo.Endpoint,
		"slice":    o.routerInfo.Slice,
	})
	rec.Emit(core.EventResponse, map[string]any{
		"text":             text,
		"agent":            specialist.EscalationName,
		"model":            o.routerInfo.Model,
		"slice":            o.routerInfo.Slice,
		"total_latency_ms": total.Milliseconds(),
	})

	o.appendTurn(ctx, req, text)

	return &core.TurnResult{
		ConversationID: req.ConversationID,
		Response:       text,
		Agent:          specialist.EscalationName,
		Backend:        o.routerInfo,
		Classification: cl,
		Events:         rec.Events(),
		TotalLatency:   total,
	}, nil
}

func (o *Orchestrator) clarify(ctx context.Context, req TurnRequest, rec *core.Recorder, cl core.Classification, routeLatency time.Duration) (*core.TurnResult, error) {
	rec.Emit(core.EventResponse, map[string]any{
		"text":             clarifyText,
		"agent":            specialist.RouterName,
		"model":            o.routerInfo.Model,
		"slice":            o.routerInfo.Slice,
		"total_latency_ms": routeLatency.Milliseconds(),
	})

	o.appendTurn(ctx, req, clarifyText)

	return &core.TurnResult{
		ConversationID: req.ConversationID,
		Response:       clarifyText,
		Agent:          specialist.RouterName,
		Backend:        o.routerInfo,
		Classification: cl,
		Events:         rec.Events(),
		TotalLatency:   routeLatency,
	}, nil
}

// appendTurn stores exactly two messages per turn: the user message and the
// final assistant response.
func (o *Orchestrator) appendTurn(ctx context.Context, req TurnRequest, response string) {
	err := o.store.Append(ctx, req.ConversationID,
		core.Message{Role: core.RoleUser, Content: req.Message, Image: req.Image},
		core.AssistantMessage(response),
	)
	if err != nil {
		o.opts.Logger.Warn("history append failed", "conversation_id", req.ConversationID, "error", err)
	}
}

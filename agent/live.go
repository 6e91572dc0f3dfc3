package agent

import (
	"context"
	"time"

	"github.com/commercemesh/commercemesh/backend"
	"github.com/commercemesh/commercemesh/core"
	"github.com/commercemesh/commercemesh/cost"
	"github.com/commercemesh/commercemesh/directive"
	"github.com/commercemesh/commercemesh/tool"
)

// LiveAgent runs the bounded tool-call loop against an inference backend.
type LiveAgent struct {
	name        string
	instruction string
	backend     backend.Backend
	opts        Options
}

// NewLive builds a live agent bound to one backend.
func NewLive(name, instruction string, b backend.Backend, optFns ...func(o *Options)) *LiveAgent {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Tools == nil {
		opts.Tools = tool.NewRegistry()
	}
	return &LiveAgent{name: name, instruction: instruction, backend: b, opts: opts}
}

func (a *LiveAgent) Name() string { return a.name }

func (a *LiveAgent) Backend() backend.Backend { return a.backend }

// Process runs one agent hop: prompt assembly, up to MaxToolIterations
// backend round-trips with tool execution in between, and a final cost
// event. A valid reroute directive returns immediately with the remaining
// text; a backend failure returns the apology with Err set. Neither of
// those paths emits a cost event.
func (a *LiveAgent) Process(ctx context.Context, req Request) (*core.AgentResult, error) {
	start := time.Now()
	info := a.backend.Info()

	emit(req.Recorder, core.EventAgentStart, map[string]any{
		"agent":    a.name,
		"model":    info.Model,
		"endpoint": info.Endpoint,
		"slice":    info.Slice,
		"tools":    a.opts.Tools.Names(),
	})

	instruction := a.instruction
	if req.CustomerID != "" {
		instruction += "\n\nActive customer ID: " + req.CustomerID
	}

	messages := window(req.History, a.opts.MaxHistoryMessages)
	messages = append(messages, core.Message{Role: core.RoleUser, Content: req.Message, Image: req.Image})

	res := &core.AgentResult{Agent: a.name, Backend: info}
	lastText := ""

	for i := 0; i < a.opts.MaxToolIterations; i++ {
		resp, err := a.backend.Complete(ctx, backend.Request{
			Instruction: instruction,
			Messages:    messages,
			Temperature: a.opts.Temperature,
			MaxTokens:   a.opts.MaxTokens,
		})
		if err != nil {
			a.opts.Logger.Error("backend call failed", "agent", a.name, "model", info.Model, "error", err)
			res.Text = Apology
			res.Err = err.Error()
			res.Latency = time.Since(start)
			return res, nil
		}

		parsed := directive.Parse(resp.Text)
		if parsed.BadToolCall || parsed.BadReroute {
			a.opts.Logger.Warn("malformed directive treated as plain text",
				"agent", a.name, "bad_tool_call", parsed.BadToolCall, "bad_reroute", parsed.BadReroute)
		}
		if parsed.Thinking != "" {
			res.Thinking = parsed.Thinking
			emit(req.Recorder, core.EventThinking, map[string]any{
				"agent":   a.name,
				"content": parsed.Thinking,
			})
		}
		lastText = parsed.Text

		if parsed.Reroute != nil {
			res.Reroute = parsed.Reroute
			res.Text = parsed.Text
			res.Latency = time.Since(start)
			return res, nil
		}

		if parsed.ToolCall == nil {
			res.Text = parsed.Text
			res.Latency = time.Since(start)
			a.emitCost(req.Recorder, instruction, messages, res.Text)
			return res, nil
		}

		tc := parsed.ToolCall
		emit(req.Recorder, core.EventToolCall, map[string]any{
			"agent":  a.name,
			"tool":   tc.Name,
			"args":   tc.Args,
			"status": "executing",
		})
		toolStart := time.Now()
		payload := a.opts.Tools.Execute(ctx, tc.Name, tc.Args)
		toolLatency := time.Since(toolStart)
		res.ToolCalls = append(res.ToolCalls, core.ToolInvocation{
			Tool:    tc.Name,
			Args:    tc.Args,
			Result:  payload,
			Latency: toolLatency,
		})
		emit(req.Recorder, core.EventToolResult, map[string]any{
			"agent":      a.name,
			"tool":       tc.Name,
			"result":     payload,
			"latency_ms": toolLatency.Milliseconds(),
		})

		// Replay the assistant turn thinking-stripped but tool tag retained,
		// plus the tool payload as a synthetic user turn, then loop.
		messages = append(messages,
			core.AssistantMessage(parsed.Text),
			core.UserMessage("Tool result for "+tc.Name+":\n"+payloadJSON(payload)),
		)
	}

	a.opts.Logger.Warn("tool loop cap reached with a pending tool call", "agent", a.name, "cap", a.opts.MaxToolIterations)
	res.Text = lastText
	res.Degraded = true
	res.Latency = time.Since(start)
	a.emitCost(req.Recorder, instruction, messages, res.Text)
	return res, nil
}

func (a *LiveAgent) emitCost(rec *core.Recorder, instruction string, messages []core.Message, final string) {
	inputTokens := a.opts.Estimator.Count(instruction)
	for _, m := range messages {
		inputTokens += a.opts.Estimator.Count(m.Content)
	}
	outputTokens := a.opts.Estimator.Count(final)
	emit(rec, core.EventCost, map[string]any{
		"agent":         a.name,
		"model":         a.backend.Info().Model,
		"input_tokens":  inputTokens,
		"output_tokens": outputTokens,
		"cost_usd":      cost.EstimateUSD(inputTokens, outputTokens),
	})
}

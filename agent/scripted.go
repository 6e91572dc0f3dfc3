package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/commercemesh/commercemesh/backend"
	"github.com/commercemesh/commercemesh/core"
)

// Step produces one raw model output given the prompt the loop would send at
// that round. Later steps can read prior tool payloads out of the replayed
// conversation, exactly as a real model would.
type Step func(req backend.Request) string

// Say is a step that emits fixed output.
func Say(text string) Step {
	return func(backend.Request) string { return text }
}

// CallTool is a step that emits a tool-call directive.
func CallTool(name string, args map[string]any) Step {
	return func(backend.Request) string { return ToolCallTag(name, args) }
}

// ToolCallTag renders a tool-call directive the way a model would emit it.
func ToolCallTag(name string, args map[string]any) string {
	payload, _ := json.Marshal(map[string]any{"name": name, "args": args})
	return "<tool_call>" + string(payload) + "</tool_call>"
}

// RerouteTag renders a reroute directive.
func RerouteTag(agentName, reason string) string {
	payload, _ := json.Marshal(map[string]any{"agent": agentName, "reason": reason})
	return "<reroute>" + string(payload) + "</reroute>"
}

// LastToolResult decodes the most recent tool payload replayed into the
// prompt. It returns nil when the trailing message carries no payload.
func LastToolResult(req backend.Request) map[string]any {
	if len(req.Messages) == 0 {
		return nil
	}
	content := req.Messages[len(req.Messages)-1].Content
	i := strings.IndexByte(content, '\n')
	if i < 0 || !strings.HasPrefix(content, "Tool result for ") {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(content[i+1:]), &m); err != nil {
		return nil
	}
	return m
}

// Script inspects an inbound request and returns the steps, in order, a
// scripted turn should produce.
type Script func(req Request) []Step

// ScriptedAgent replays scripted model output through the live loop, so demo
// mode exercises the same parsing, tool execution, event emission and cost
// accounting as a real deployment. Each Process call runs on a fresh step
// queue, which keeps concurrent turns from interleaving scripts.
type ScriptedAgent struct {
	name        string
	instruction string
	info        core.BackendInfo
	script      Script
	opts        Options
}

// NewScripted builds a scripted agent. The backend descriptor is what the
// agent reports in events, standing in for a real endpoint.
func NewScripted(name, instruction string, info core.BackendInfo, script Script, optFns ...func(o *Options)) *ScriptedAgent {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ScriptedAgent{name: name, instruction: instruction, info: info, script: script, opts: opts}
}

func (a *ScriptedAgent) Name() string { return a.name }

// Backend returns an empty mock carrying the agent's backend descriptor.
func (a *ScriptedAgent) Backend() backend.Backend { return backend.NewMock(a.info) }

func (a *ScriptedAgent) Process(ctx context.Context, req Request) (*core.AgentResult, error) {
	opts := a.opts
	steps := a.script(req)
	// A script defines the exact length of its turn; never let the live
	// cap truncate a scenario mid-sequence.
	if len(steps) > opts.MaxToolIterations {
		opts.MaxToolIterations = len(steps)
	}
	live := NewLive(a.name, a.instruction, &stepBackend{info: a.info, steps: steps},
		func(o *Options) { *o = opts })
	return live.Process(ctx, req)
}

// stepBackend feeds scripted steps to the live loop one Complete call at a
// time. An exhausted script yields empty output, which the loop treats as a
// bare final response.
type stepBackend struct {
	info  core.BackendInfo
	steps []Step
	next  int
}

func (b *stepBackend) Complete(_ context.Context, req backend.Request) (backend.Response, error) {
	if b.next >= len(b.steps) {
		return backend.Response{}, nil
	}
	step := b.steps[b.next]
	b.next++
	return backend.Response{Text: step(req)}, nil
}

func (b *stepBackend) Info() core.BackendInfo { return b.info }

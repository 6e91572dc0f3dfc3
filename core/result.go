package core

import "time"

// BackendInfo describes the inference backend an agent is bound to. It
// surfaces in agent_start, model_switch and response events so a debug panel
// can show which model served each hop.
type BackendInfo struct {
	ID       string `json:"id"`       // stable backend identifier from config
	Model    string `json:"model"`    // display model name
	Endpoint string `json:"endpoint"` // base URL of the serving endpoint
	Slice    string `json:"slice"`    // GPU slice / capacity descriptor
}

// ToolInvocation records one executed tool call within an agent hop. Result
// is the opaque payload returned by the tool; the runtime never mutates it.
type ToolInvocation struct {
	Tool    string         `json:"tool"`
	Args    map[string]any `json:"args"`
	Result  any            `json:"result"`
	Latency time.Duration  `json:"latency"`
}

// RerouteDirective is a mid-turn hand-off request from one agent to another.
type RerouteDirective struct {
	Agent  string `json:"agent"`
	Reason string `json:"reason"`
}

// AgentResult is the outcome of one agent hop.
type AgentResult struct {
	Text      string            `json:"text"`
	Thinking  string            `json:"thinking,omitempty"`
	ToolCalls []ToolInvocation  `json:"tool_calls,omitempty"`
	Reroute   *RerouteDirective `json:"reroute,omitempty"`
	Agent     string            `json:"agent"`
	Backend   BackendInfo       `json:"backend"`
	Latency   time.Duration     `json:"latency"`

	// Err carries backend failure detail when Text is the apology fallback.
	Err string `json:"error,omitempty"`
	// Degraded marks the documented condition where the tool-loop cap was
	// reached with a tool call still pending and the last raw output was
	// returned as the response.
	Degraded bool `json:"degraded,omitempty"`
}

// TurnResult is the unified outcome of a full turn across all hops.
type TurnResult struct {
	ConversationID string         `json:"conversation_id"`
	Response       string         `json:"response"`
	Agent          string         `json:"agent"`
	Backend        BackendInfo    `json:"backend"`
	Classification Classification `json:"classification"`
	Events         []Event        `json:"events"`
	TotalLatency   time.Duration  `json:"total_latency"`
}

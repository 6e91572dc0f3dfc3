// Package tool implements the per-agent tool registry. Tools are named
// callables over external business data; the runtime treats their results as
// opaque payloads and never lets a tool failure escape: unknown names, errors
// and panics all degrade to a structured error payload so the agent loop can
// continue.
package tool

import "context"

// Tool is a named capability exposed to an agent.
type Tool interface {
	// Name returns the unique tool identifier (snake_case).
	Name() string

	// Description returns the short natural language description surfaced in
	// agent instructions.
	Description() string

	// Call executes the tool. Returning an error is allowed; the registry
	// converts it into an error payload rather than propagating it.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Func adapts a plain function into a Tool.
type Func struct {
	name        string
	description string
	fn          func(ctx context.Context, args map[string]any) (any, error)
}

// NewFunc constructs a function-backed tool.
func NewFunc(name, description string, fn func(ctx context.Context, args map[string]any) (any, error)) *Func {
	return &Func{name: name, description: description, fn: fn}
}

// Name implements Tool.
func (t *Func) Name() string { return t.name }

// Description implements Tool.
func (t *Func) Description() string { return t.description }

// Call implements Tool.
func (t *Func) Call(ctx context.Context, args map[string]any) (any, error) {
	return t.fn(ctx, args)
}

// ErrorPayload is the uniform substitute result for any tool failure.
func ErrorPayload(reason string) map[string]any {
	return map[string]any{"error": reason}
}

package tool

import (
	"context"
	"fmt"
	"sort"
)

// Registry maps tool names to callables for one agent. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry builds a registry from the given tools. Later duplicates win.
func NewRegistry(tools ...Tool) *Registry {
	m := make(map[string]Tool, len(tools))
	for _, t := range tools {
		m[t.Name()] = t
	}
	return &Registry{tools: m}
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }

// Execute runs the named tool and always returns a payload: unknown tools,
// returned errors and panics are substituted with ErrorPayload so the calling
// loop continues.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (payload any) {
	t, ok := r.tools[name]
	if !ok {
		return ErrorPayload(fmt.Sprintf("unknown tool: %s", name))
	}

	defer func() {
		if rec := recover(); rec != nil {
			payload = ErrorPayload(fmt.Sprintf("tool %s panicked: %v", name, rec))
		}
	}()

	result, err := t.Call(ctx, args)
	if err != nil {
		return ErrorPayload(err.Error())
	}
	return result
}

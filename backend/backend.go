// Package backend abstracts the inference service behind a request/response
// call. Each agent is bound to one Backend instance; distinct agents may
// address distinct endpoints (different models on different GPU slices).
// Adapters for OpenAI-compatible and Anthropic endpoints live in subpackages.
package backend

import (
	"context"

	"github.com/commercemesh/commercemesh/core"
)

// Request is the normalized completion input: a fixed instruction, the
// trailing history window plus current turn, and sampling parameters. The
// final message may carry a base64 image which adapters convert into a
// multimodal content list.
type Request struct {
	Instruction string
	Messages    []core.Message
	Temperature float64
	MaxTokens   int64
}

// Response is the raw completion output. The text may embed at most one each
// of a thinking block, a tool-call directive and a reroute directive.
type Response struct {
	Text string
}

// Backend is a text-completion service reachable by request/response call.
// Complete applies the adapter's fixed deadline; exceeding it surfaces as an
// error like any other transport failure.
type Backend interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Info() core.BackendInfo
}

package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/commercemesh/commercemesh/backend"
	"github.com/commercemesh/commercemesh/core"
	"github.com/commercemesh/commercemesh/cost"
	"github.com/commercemesh/commercemesh/logging"
	"github.com/commercemesh/commercemesh/tool"
)

// Apology is the degraded response returned when the backend call fails.
// The turn still completes; failure detail rides on AgentResult.Err.
const Apology = "I'm sorry, I'm having trouble processing your request right now. Please try again."

// Request is one inbound turn handed to an agent. Recorder may be nil; events
// are then discarded.
type Request struct {
	ConversationID string
	Message        string
	Image          string // base64 JPEG, empty when absent
	CustomerID     string
	History        []core.Message
	Recorder       *core.Recorder
}

// Runtime is the execution contract shared by live and scripted agents. The
// returned result is never nil on a nil error; processing degrades rather
// than fails.
type Runtime interface {
	Name() string
	Backend() backend.Backend
	Process(ctx context.Context, req Request) (*core.AgentResult, error)
}

// Options configures an agent runtime.
type Options struct {
	// Temperature is the sampling temperature forwarded to the backend.
	Temperature float64

	// Tools is the agent's registry. May be nil for tool-less agents.
	Tools *tool.Registry

	// MaxToolIterations bounds backend round-trips within one turn.
	MaxToolIterations int

	// MaxHistoryMessages is the trailing history window sent to the backend.
	MaxHistoryMessages int

	// MaxTokens caps completion output length.
	MaxTokens int64

	// Estimator counts tokens for the cost event.
	Estimator cost.Estimator

	Logger logging.Logger
}

func defaultOptions() Options {
	return Options{
		Temperature:        0.7,
		MaxToolIterations:  5,
		MaxHistoryMessages: 20,
		MaxTokens:          1024,
		Estimator:          cost.Heuristic{},
		Logger:             logging.NopLogger{},
	}
}

func emit(rec *core.Recorder, t core.EventType, data map[string]any) {
	if rec != nil {
		rec.Emit(t, data)
	}
}

// window returns the trailing n messages of history.
func window(history []core.Message, n int) []core.Message {
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]core.Message, len(history))
	copy(out, history)
	return out
}

// payloadJSON renders a tool payload for replay into the conversation.
func payloadJSON(payload any) string {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(b)
}

package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType tags the kind of a turn event.
type EventType string

// Event types emitted during a turn, in their typical order of appearance.
const (
	EventAgentStart  EventType = "agent_start"
	EventRouting     EventType = "routing"
	EventThinking    EventType = "thinking"
	EventToolCall    EventType = "tool_call"
	EventToolResult  EventType = "tool_result"
	EventCost        EventType = "cost"
	EventReroute     EventType = "reroute"
	EventModelSwitch EventType = "model_switch"
	EventResponse    EventType = "response"
)

// Event is one entry in the ordered per-turn event stream. After emission it
// must be treated as immutable.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEvent constructs an event with a fresh id and UTC timestamp.
func NewEvent(t EventType, data map[string]any) Event {
	return Event{ID: NewID(), Type: t, Data: data, Timestamp: time.Now().UTC()}
}

// NewID generates a unique identifier for events and turns.
func NewID() string { return uuid.NewString() }

// Sink receives events live, in emission order. A sink error is treated as
// best-effort delivery failure and never aborts turn processing.
type Sink func(Event) error

// Recorder is the ephemeral per-turn event bus. Every emitted event is
// appended to an ordered log and forwarded synchronously to the optional
// sink. The full log is returned with the turn result independent of sink
// behavior.
type Recorder struct {
	mu     sync.Mutex
	sink   Sink
	events []Event
}

// NewRecorder creates a recorder forwarding to sink (nil for collect-only).
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{sink: sink}
}

// Emit appends an event and forwards it to the sink. Sink failures are
// swallowed; the event is recorded regardless.
func (r *Recorder) Emit(t EventType, data map[string]any) {
	ev := NewEvent(t, data)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	if r.sink != nil {
		// Sink delivery is synchronous and ordered; failures are best-effort.
		_ = r.sink(ev)
	}
}

// Events returns a defensive copy of the ordered event log.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercemesh/commercemesh/backend"
	"github.com/commercemesh/commercemesh/core"
	"github.com/commercemesh/commercemesh/tool"
)

func eventTypes(rec *core.Recorder) []core.EventType {
	events := rec.Events()
	types := make([]core.EventType, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}

type recordingLogger struct {
	warns []string
}

func (l *recordingLogger) Debug(string, ...any)      {}
func (l *recordingLogger) Info(string, ...any)       {}
func (l *recordingLogger) Warn(msg string, _ ...any) { l.warns = append(l.warns, msg) }
func (l *recordingLogger) Error(string, ...any)      {}

func echoTool(name string) tool.Tool {
	return tool.NewFunc(name, "test tool", func(_ context.Context, args map[string]any) (any, error) {
		return map[string]any{"ok": true, "args": args}, nil
	})
}

func TestLiveAgent_PlainResponse(t *testing.T) {
	mock := backend.NewMock(core.BackendInfo{ID: "m1", Model: "test-model", Slice: "Slice 1"})
	mock.Queue("Your order is on the way.")
	a := NewLive("order_tracker", "You track orders.", mock)
	rec := core.NewRecorder(nil)

	res, err := a.Process(context.Background(), Request{Message: "where is my order", Recorder: rec})
	require.NoError(t, err)

	assert.Equal(t, "Your order is on the way.", res.Text)
	assert.Equal(t, "order_tracker", res.Agent)
	assert.Equal(t, "test-model", res.Backend.Model)
	assert.Empty(t, res.Err)
	assert.False(t, res.Degraded)
	assert.Equal(t, 1, mock.Calls())
	assert.Equal(t, []core.EventType{core.EventAgentStart, core.EventCost}, eventTypes(rec))
}

func TestLiveAgent_ToolLoop(t *testing.T) {
	mock := backend.NewMock(core.BackendInfo{})
	mock.Queue(
		`<tool_call>{"name": "get_order_status", "args": {"order_id": "ORD-2026-1001"}}</tool_call>`,
		"Order ORD-2026-1001 is in transit.",
	)
	a := NewLive("order_tracker", "You track orders.", mock, func(o *Options) {
		o.Tools = tool.NewRegistry(echoTool("get_order_status"))
	})
	rec := core.NewRecorder(nil)

	res, err := a.Process(context.Background(), Request{Message: "track ORD-2026-1001", Recorder: rec})
	require.NoError(t, err)

	assert.Equal(t, "Order ORD-2026-1001 is in transit.", res.Text)
	require.Len(t, res.ToolCalls, 1)
	assert.Equal(t, "get_order_status", res.ToolCalls[0].Tool)
	assert.Equal(t, "ORD-2026-1001", res.ToolCalls[0].Args["order_id"])
	assert.Equal(t, 2, mock.Calls())
	assert.Equal(t, []core.EventType{
		core.EventAgentStart, core.EventToolCall, core.EventToolResult, core.EventCost,
	}, eventTypes(rec))
	assert.Equal(t, "executing", rec.Events()[1].Data["status"])
	assert.Contains(t, rec.Events()[2].Data, "latency_ms")

	// The assistant turn and the tool payload are replayed to the backend.
	second := mock.Requests()[1]
	require.GreaterOrEqual(t, len(second.Messages), 3)
	replayed := second.Messages[len(second.Messages)-2]
	assert.Equal(t, core.RoleAssistant, replayed.Role)
	assert.Contains(t, replayed.Content, "<tool_call>")
	toolMsg := second.Messages[len(second.Messages)-1]
	assert.Equal(t, core.RoleUser, toolMsg.Role)
	assert.Contains(t, toolMsg.Content, "Tool result for get_order_status:")
}

func TestLiveAgent_BackendFailure(t *testing.T) {
	mock := backend.NewMock(core.BackendInfo{})
	mock.QueueError(errors.New("connection refused"))
	a := NewLive("returns", "You handle returns.", mock)
	rec := core.NewRecorder(nil)

	res, err := a.Process(context.Background(), Request{Message: "hi", Recorder: rec})
	require.NoError(t, err)

	assert.Equal(t, Apology, res.Text)
	assert.Equal(t, "connection refused", res.Err)
	// Failed turns emit no cost event.
	assert.Equal(t, []core.EventType{core.EventAgentStart}, eventTypes(rec))
}

func TestLiveAgent_RerouteReturnsEarly(t *testing.T) {
	mock := backend.NewMock(core.BackendInfo{})
	mock.Queue(`<reroute>{"agent": "returns", "reason": "customer wants to cancel"}</reroute>`)
	a := NewLive("order_tracker", "You track orders.", mock)
	rec := core.NewRecorder(nil)

	res, err := a.Process(context.Background(), Request{Message: "cancel my order", Recorder: rec})
	require.NoError(t, err)

	require.NotNil(t, res.Reroute)
	assert.Equal(t, "returns", res.Reroute.Agent)
	assert.Equal(t, 1, mock.Calls())
	// Reroute hops skip the cost event; the receiving agent accounts the turn.
	assert.Equal(t, []core.EventType{core.EventAgentStart}, eventTypes(rec))
}

func TestLiveAgent_ToolLoopCap(t *testing.T) {
	toolTag := `<tool_call>{"name": "get_order_status", "args": {}}</tool_call>`
	mock := backend.NewMock(core.BackendInfo{})
	mock.Queue(toolTag, toolTag, toolTag, toolTag, toolTag, toolTag, toolTag)
	a := NewLive("order_tracker", "You track orders.", mock, func(o *Options) {
		o.Tools = tool.NewRegistry(echoTool("get_order_status"))
	})
	rec := core.NewRecorder(nil)

	res, err := a.Process(context.Background(), Request{Message: "track it", Recorder: rec})
	require.NoError(t, err)

	// Exactly the cap number of backend calls, then the last raw output is
	// surfaced with the degraded flag.
	assert.Equal(t, 5, mock.Calls())
	assert.True(t, res.Degraded)
	assert.Contains(t, res.Text, "<tool_call>")
	assert.Len(t, res.ToolCalls, 5)
}

func TestLiveAgent_ThinkingLatestWins(t *testing.T) {
	mock := backend.NewMock(core.BackendInfo{})
	mock.Queue(
		"<think>first thought</think><tool_call>{\"name\": \"lookup\", \"args\": {}}</tool_call>",
		"<think>second thought</think>All done.",
	)
	a := NewLive("product_advisor", "You advise.", mock, func(o *Options) {
		o.Tools = tool.NewRegistry(echoTool("lookup"))
	})
	rec := core.NewRecorder(nil)

	res, err := a.Process(context.Background(), Request{Message: "compare TVs", Recorder: rec})
	require.NoError(t, err)

	assert.Equal(t, "second thought", res.Thinking)
	assert.Equal(t, "All done.", res.Text)

	var thinkingEvents []string
	for _, ev := range rec.Events() {
		if ev.Type == core.EventThinking {
			thinkingEvents = append(thinkingEvents, ev.Data["content"].(string))
		}
	}
	assert.Equal(t, []string{"first thought", "second thought"}, thinkingEvents)

	// Replay into the second request strips the thinking block but keeps the
	// tool tag.
	second := mock.Requests()[1]
	replayed := second.Messages[len(second.Messages)-2]
	assert.NotContains(t, replayed.Content, "<think>")
	assert.Contains(t, replayed.Content, "<tool_call>")
}

func TestLiveAgent_HistoryWindow(t *testing.T) {
	mock := backend.NewMock(core.BackendInfo{})
	mock.Queue("ok")
	a := NewLive("order_tracker", "instr", mock, func(o *Options) {
		o.MaxHistoryMessages = 4
	})

	history := make([]core.Message, 10)
	for i := range history {
		history[i] = core.UserMessage("old")
	}
	history[9] = core.AssistantMessage("newest")

	_, err := a.Process(context.Background(), Request{Message: "now", History: history})
	require.NoError(t, err)

	req := mock.Requests()[0]
	// 4 history messages + the current turn.
	require.Len(t, req.Messages, 5)
	assert.Equal(t, "newest", req.Messages[3].Content)
	assert.Equal(t, "now", req.Messages[4].Content)
}

func TestLiveAgent_CustomerContextInInstruction(t *testing.T) {
	mock := backend.NewMock(core.BackendInfo{})
	mock.Queue("ok")
	a := NewLive("order_tracker", "You track orders.", mock)

	_, err := a.Process(context.Background(), Request{Message: "hi", CustomerID: "C-1001"})
	require.NoError(t, err)

	assert.Contains(t, mock.Requests()[0].Instruction, "C-1001")
}

func TestLiveAgent_BadToolCallEndsTurn(t *testing.T) {
	mock := backend.NewMock(core.BackendInfo{})
	mock.Queue(`I will look that up. <tool_call>{broken json</tool_call>`)
	logger := &recordingLogger{}
	a := NewLive("order_tracker", "instr", mock, func(o *Options) {
		o.Logger = logger
	})
	rec := core.NewRecorder(nil)

	res, err := a.Process(context.Background(), Request{Message: "hi", Recorder: rec})
	require.NoError(t, err)

	assert.Equal(t, 1, mock.Calls())
	assert.Empty(t, res.ToolCalls)
	// The unparseable tag stays in the text and the degradation is logged.
	assert.Contains(t, res.Text, "I will look that up.")
	require.Len(t, logger.warns, 1)
	assert.Contains(t, logger.warns[0], "malformed directive")
}

func TestLiveAgent_BadRerouteLogged(t *testing.T) {
	mock := backend.NewMock(core.BackendInfo{})
	mock.Queue(`<reroute>{"agent": }</reroute> Let me handle this myself.`)
	logger := &recordingLogger{}
	a := NewLive("order_tracker", "instr", mock, func(o *Options) {
		o.Logger = logger
	})

	res, err := a.Process(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)

	assert.Nil(t, res.Reroute)
	assert.Contains(t, res.Text, "<reroute>")
	require.Len(t, logger.warns, 1)
	assert.Contains(t, logger.warns[0], "malformed directive")
}

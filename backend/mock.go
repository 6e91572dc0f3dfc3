package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/commercemesh/commercemesh/core"
)

// Mock is an in-memory Backend for tests. Responses are consumed in FIFO
// order; when the queue is empty a generic echo completion is produced.
// An injected error is returned once per QueueError call, in queue order
// with responses.
type Mock struct {
	mu       sync.Mutex
	info     core.BackendInfo
	queue    []mockReply
	requests []Request
}

type mockReply struct {
	text string
	err  error
}

// NewMock constructs a mock backend with the given descriptor.
func NewMock(info core.BackendInfo) *Mock {
	if info.ID == "" {
		info = core.BackendInfo{ID: "mock", Model: "mock-model", Endpoint: "mock://local", Slice: "test"}
	}
	return &Mock{info: info}
}

// Queue appends canned completion texts, consumed one per Complete call.
func (m *Mock) Queue(texts ...string) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range texts {
		m.queue = append(m.queue, mockReply{text: t})
	}
	return m
}

// QueueError appends a failing completion.
func (m *Mock) QueueError(err error) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockReply{err: err})
	return m
}

// Complete implements Backend.
func (m *Mock) Complete(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if len(m.queue) == 0 {
		last := ""
		if len(req.Messages) > 0 {
			last = req.Messages[len(req.Messages)-1].Content
		}
		return Response{Text: fmt.Sprintf("Mock response to: %s", last)}, nil
	}

	reply := m.queue[0]
	m.queue = m.queue[1:]
	if reply.err != nil {
		return Response{}, reply.err
	}
	return Response{Text: reply.text}, nil
}

// Info implements Backend.
func (m *Mock) Info() core.BackendInfo { return m.info }

// Calls returns how many Complete calls were made.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of all observed requests.
func (m *Mock) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Package conversation persists per-conversation message logs. The engine
// only sees the Store interface: history is read once at turn start and
// appended to exactly once at turn end, never per hop. An in-memory map backs
// single-process deployments; a sqlite backing is available when histories
// should survive beyond one process.
//
// No cross-turn locking is provided: two concurrent turns on the same
// conversation id may interleave their appended message pairs.
package conversation

import (
	"context"
	"errors"
	"sync"

	"github.com/commercemesh/commercemesh/core"
)

// ErrNotFound is returned by Clear when the conversation id is unknown.
var ErrNotFound = errors.New("conversation not found")

// Store is the conversation-id-keyed ordered message log.
type Store interface {
	// History returns the ordered messages of a conversation. An unknown id
	// yields an empty history, not an error.
	History(ctx context.Context, conversationID string) ([]core.Message, error)

	// Append adds messages to the end of a conversation, creating it on
	// first use.
	Append(ctx context.Context, conversationID string, msgs ...core.Message) error

	// Clear removes a conversation.
	Clear(ctx context.Context, conversationID string) error
}

// InMemoryStore is a volatile Store backed by a process-local map. It is safe
// for concurrent access; histories grow without bound for the lifetime of the
// conversation (no automatic eviction).
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string][]core.Message
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string][]core.Message)}
}

// History implements Store. The returned slice is a copy.
func (s *InMemoryStore) History(_ context.Context, conversationID string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.conversations[conversationID]
	out := make([]core.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Append implements Store.
func (s *InMemoryStore) Append(_ context.Context, conversationID string, msgs ...core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conversationID] = append(s.conversations[conversationID], msgs...)
	return nil
}

// Clear implements Store.
func (s *InMemoryStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[conversationID]; !ok {
		return ErrNotFound
	}
	delete(s.conversations, conversationID)
	return nil
}

// Len returns the number of stored conversations.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

package conversation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercemesh/commercemesh/core"
)

var _ Store = (*InMemoryStore)(nil)
var _ Store = (*SQLiteStore)(nil)

func TestInMemoryStore_UnknownIsEmpty(t *testing.T) {
	s := NewInMemoryStore()
	msgs, err := s.History(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestInMemoryStore_AppendAndHistory(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "c1", core.UserMessage("hi"), core.AssistantMessage("hello")))
	require.NoError(t, s.Append(ctx, "c1", core.UserMessage("more")))

	msgs, err := s.History(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, "more", msgs[2].Content)
}

func TestInMemoryStore_HistoryIsACopy(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "c1", core.UserMessage("hi")))

	msgs, _ := s.History(ctx, "c1")
	msgs[0].Content = "mutated"

	again, _ := s.History(ctx, "c1")
	assert.Equal(t, "hi", again[0].Content)
}

func TestInMemoryStore_Clear(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "c1", core.UserMessage("hi")))

	require.NoError(t, s.Clear(ctx, "c1"))
	assert.Equal(t, 0, s.Len())
	assert.ErrorIs(t, s.Clear(ctx, "c1"), ErrNotFound)
}

func TestInMemoryStore_ConcurrentAppend(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Append(ctx, "c1", core.UserMessage("m"), core.AssistantMessage("r"))
		}()
	}
	wg.Wait()

	msgs, err := s.History(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, msgs, 100)
}

package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUnseenUserIsEmpty(t *testing.T) {
	m := NewMemory(nil, 3)
	assert.Empty(t, m.ContextFor("nobody"))
}

func TestMemoryKeepsMostRecentWindow(t *testing.T) {
	m := NewMemory(nil, 3)

	for i := 0; i < 7; i++ {
		m.Append("alice", UserTurn(fmt.Sprintf("msg-%d", i)))
	}

	got := m.ContextFor("alice")
	require.Len(t, got, 3)
	assert.Equal(t, "msg-4", got[0].Content)
	assert.Equal(t, "msg-5", got[1].Content)
	assert.Equal(t, "msg-6", got[2].Content)
}

func TestMemoryBoundHoldsUnderAnyAppendSequence(t *testing.T) {
	m := NewMemory(nil, 5)

	for i := 0; i < 100; i++ {
		m.Append("u", AssistantTurn(fmt.Sprintf("a-%d", i)))
		assert.LessOrEqual(t, len(m.ContextFor("u")), 5)
	}
}

func TestMemoryUsersAreIsolated(t *testing.T) {
	m := NewMemory(nil, 2)

	m.Append("alice", UserTurn("hi"))
	m.Append("bob", UserTurn("hola"))

	require.Len(t, m.ContextFor("alice"), 1)
	require.Len(t, m.ContextFor("bob"), 1)
	assert.Equal(t, "hi", m.ContextFor("alice")[0].Content)
	assert.Equal(t, "hola", m.ContextFor("bob")[0].Content)
}

func TestMemorySnapshotIsACopy(t *testing.T) {
	m := NewMemory(nil, 3)
	m.Append("alice", UserTurn("original"))

	snap := m.ContextFor("alice")
	snap[0].Content = "mutated"

	assert.Equal(t, "original", m.ContextFor("alice")[0].Content)
}

func TestMemoryConcurrentAppendsRespectBound(t *testing.T) {
	m := NewMemory(nil, 4)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				release := m.Acquire("shared")
				m.Append("shared", UserTurn(fmt.Sprintf("g%d-%d", g, i)))
				m.Append("shared", AssistantTurn(fmt.Sprintf("g%d-%d", g, i)))
				release()
			}
		}(g)
	}
	wg.Wait()

	got := m.ContextFor("shared")
	require.Len(t, got, 4)
	// Per-user serialization keeps each user/assistant pair adjacent.
	assert.Equal(t, RoleUser, got[0].Role)
	assert.Equal(t, RoleAssistant, got[1].Role)
	assert.Equal(t, RoleUser, got[2].Role)
	assert.Equal(t, RoleAssistant, got[3].Role)
}

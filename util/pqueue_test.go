package util

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueue(t *testing.T) {
	queue := NewPriorityQueue[string, float64](8)
	assert.Equal(t, 0, queue.Length())

	_, ok := queue.Dequeue()
	assert.False(t, ok)

	queue.Enqueue("c", 3.0)
	queue.Enqueue("a", 1.0)
	queue.Enqueue("b", 2.0)
	require.Equal(t, 3, queue.Length())

	for _, want := range []string{"a", "b", "c"} {
		value, ok := queue.Dequeue()
		require.True(t, ok)
		assert.Equal(t, want, value)
	}
	_, ok = queue.Dequeue()
	assert.False(t, ok)
}

func TestPriorityQueueOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	priorities := make([]int, 1000)
	queue := NewPriorityQueue[int, int](len(priorities))
	for i := range priorities {
		priorities[i] = rng.Intn(10000)
		queue.Enqueue(priorities[i], priorities[i])
	}
	sort.Ints(priorities)

	for _, want := range priorities {
		value, ok := queue.Dequeue()
		require.True(t, ok)
		require.Equal(t, want, value)
	}
}

func TestContainers(t *testing.T) {
	list := NewList[int32](4)
	list.Add(1)
	list.Add(2)
	assert.Equal(t, 2, list.Length())
	assert.True(t, list.Contains(2, func(a, b int32) bool { return a == b }))
	assert.False(t, list.Contains(7, func(a, b int32) bool { return a == b }))

	dict := NewDict[string, int32](4)
	dict.Set("a", 5)
	assert.True(t, dict.ContainsKey("a"))
	assert.Equal(t, int32(5), dict.Get("a"))
	dict.Delete("a")
	assert.False(t, dict.ContainsKey("a"))

	some := Some(int32(9))
	assert.True(t, some.HasValue())
	assert.Equal(t, int32(9), some.Value)
	assert.False(t, None[int32]().HasValue())
}

package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/macrodrive/utils/container"
)

func TestQueue(t *testing.T) {
	q := container.NewQueue(1, 2)
	assert.Equal(t, 2, q.Len())
	q.Push(3)

	v, ok := q.Peek()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []int{1, 2, 3}, q.Items())

	for _, want := range []int{1, 2, 3} {
		v, ok := q.Pop()
		assert.True(t, ok)
		assert.Equal(t, want, v)
	}
	assert.True(t, q.Empty())
	_, ok = q.Pop()
	assert.False(t, ok)
	_, ok = q.Peek()
	assert.False(t, ok)

	q.Push(4, 5)
	q.Clear()
	assert.Equal(t, 0, q.Len())
}

func TestQueueItemsIsCopy(t *testing.T) {
	q := container.NewQueue("a", "b")
	items := q.Items()
	items[0] = "z"
	v, _ := q.Peek()
	assert.Equal(t, "a", v)
}

func TestPriorityQueue(t *testing.T) {
	q := container.NewPriorityQueue[string]()
	q.HeapPush("c", 3)
	q.HeapPush("a", 1)
	q.HeapPush("b", 2)
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, "a", q.First())

	var got []string
	for q.Len() > 0 {
		v, _ := q.HeapPop()
		got = append(got, v)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestPriorityQueueTieBreak(t *testing.T) {
	q := container.NewPriorityQueue[string]()
	q.Push("first", 1)
	q.Push("second", 1)
	q.Push("zero", 0)
	q.Heapify()
	q.HeapPush("third", 1)

	var got []string
	for q.Len() > 0 {
		v, p := q.HeapPop()
		if v == "zero" {
			assert.Equal(t, 0.0, p)
		}
		got = append(got, v)
	}
	assert.Equal(t, []string{"zero", "first", "second", "third"}, got)
}

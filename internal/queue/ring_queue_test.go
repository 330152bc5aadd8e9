package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingQueue(t *testing.T) {
	assert := assert.New(t)

	t.Run("Empty Queue", func(t *testing.T) {
		q := NewBounded[string](2)

		assert.True(q.IsEmpty())
		assert.Equal(0, q.Length())
		_, ok := q.Dequeue()
		assert.False(ok)
		_, ok = q.Peek()
		assert.False(ok)
	})

	t.Run("Enqueue and Dequeue", func(t *testing.T) {
		q := NewBounded[string](3)

		assert.False(q.Enqueue("data1"))
		assert.False(q.Enqueue("data2"))
		assert.Equal(2, q.Length())

		item, ok := q.Peek()
		assert.True(ok)
		assert.Equal("data1", item)
		assert.Equal(2, q.Length())

		item, _ = q.Dequeue()
		assert.Equal("data1", item)
		item, _ = q.Dequeue()
		assert.Equal("data2", item)
		assert.True(q.IsEmpty())
	})

	t.Run("Drop Oldest", func(t *testing.T) {
		q := NewBounded[int](20)

		for i := 1; i <= 20; i++ {
			assert.False(q.Enqueue(i))
		}
		assert.True(q.Enqueue(21))
		assert.True(q.Enqueue(22))
		assert.Equal(20, q.Length())

		first, _ := q.Dequeue()
		assert.Equal(3, first)

		var last int
		for !q.IsEmpty() {
			last, _ = q.Dequeue()
		}
		assert.Equal(22, last)
	})

	t.Run("Reset", func(t *testing.T) {
		q := NewBounded[int](2)
		q.Enqueue(1)
		q.Enqueue(2)
		q.Reset()

		assert.True(q.IsEmpty())
		assert.False(q.Enqueue(3))
		item, _ := q.Peek()
		assert.Equal(3, item)
	})

	t.Run("Minimum Capacity", func(t *testing.T) {
		q := NewBounded[int](0)
		assert.False(q.Enqueue(1))
		assert.True(q.Enqueue(2))
		item, _ := q.Dequeue()
		assert.Equal(2, item)
	})
}

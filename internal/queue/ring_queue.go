package queue

// ringQueue is a fixed capacity queue on a ring buffer. When full, Enqueue
// drops the oldest item. It is not safe for concurrent use.
type ringQueue[T any] struct {
	items []T
	head  int
	size  int
}

// NewBounded creates a queue holding at most capacity items. A capacity
// below one is treated as one.
func NewBounded[T any](capacity int) Queue[T] {
	if capacity < 1 {
		capacity = 1
	}

	return &ringQueue[T]{items: make([]T, capacity)}
}

func (q *ringQueue[T]) Enqueue(item T) bool {
	capacity := len(q.items)
	if q.size == capacity {
		q.items[q.head] = item
		q.head = (q.head + 1) % capacity
		return true
	}

	q.items[(q.head+q.size)%capacity] = item
	q.size++

	return false
}

func (q *ringQueue[T]) Dequeue() (T, bool) {
	var zero T
	if q.size == 0 {
		return zero, false
	}

	item := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.size--

	return item, true
}

func (q *ringQueue[T]) Peek() (T, bool) {
	if q.size == 0 {
		var zero T
		return zero, false
	}

	return q.items[q.head], true
}

func (q *ringQueue[T]) Reset() {
	clear(q.items)
	q.head = 0
	q.size = 0
}

func (q *ringQueue[T]) IsEmpty() bool {
	return q.size == 0
}

func (q *ringQueue[T]) Length() int {
	return q.size
}

package queue

// Queue defines the interface for a FIFO queue.
type Queue[T any] interface {
	// Enqueue adds an item to the tail of the queue. It reports whether an
	// item was dropped from the head to make room.
	Enqueue(item T) (dropped bool)
	// Dequeue removes and returns the item at the head of the queue.
	Dequeue() (T, bool)
	// Peek returns the item at the head of the queue without removing it.
	Peek() (T, bool)
	// Reset to an empty queue
	Reset()
	// IsEmpty returns true if the queue is empty, false otherwise.
	IsEmpty() bool
	// Length returns the number of items in the queue.
	Length() int
}

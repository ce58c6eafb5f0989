package queue

import "sync"

const (
	// QueueBufferSize is the default capacity of a queue
	QueueBufferSize = 1024
)

// InMemoryQueue implements an in-memory bounded queue.
// Enqueue never blocks: items offered to a full queue are rejected.
type InMemoryQueue[T any] struct {
	items    []T
	capacity int
	lock     sync.RWMutex
}

// NewInMemoryQueue creates a new queue holding at most capacity items.
// A non-positive capacity selects QueueBufferSize.
func NewInMemoryQueue[T any](capacity int) *InMemoryQueue[T] {
	if capacity <= 0 {
		capacity = QueueBufferSize
	}
	return &InMemoryQueue[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Enqueue adds an item to the end of the queue.
func (q *InMemoryQueue[T]) Enqueue(item T) error {
	q.lock.Lock()
	defer q.lock.Unlock()
	if len(q.items) >= q.capacity {
		return ErrQueueFull
	}
	q.items = append(q.items, item)
	return nil
}

// Dequeue removes and returns the item from the front of the queue.
// The boolean is false when the queue is empty.
func (q *InMemoryQueue[T]) Dequeue() (T, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true
}

// Size returns the current size of the queue.
func (q *InMemoryQueue[T]) Size() int {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return len(q.items)
}

// ReadAllMessages removes and returns all pending items in order.
func (q *InMemoryQueue[T]) ReadAllMessages() []T {
	q.lock.Lock()
	defer q.lock.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	messages := q.items
	q.items = make([]T, 0, q.capacity)
	return messages
}

// ClearQueue clears all messages from the queue.
func (q *InMemoryQueue[T]) ClearQueue() {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.items = make([]T, 0, q.capacity)
}

// Package ring provides the fixed-capacity job buffer shared by producers
// and worker goroutines. Both operations are non-blocking: a push against a
// full buffer and a pop against an empty one fail immediately, leaving
// saturation handling to the caller.
package ring

import "sync"

// Buffer is a fixed-capacity circular buffer safe for any number of
// concurrent producers and consumers. A single mutex guards the entire body
// of each operation; contention on it is bounded and cheap relative to the
// work items the buffer carries.
type Buffer[T any] struct {
	mu    sync.Mutex
	items []T
	head  int
	tail  int
	count int
}

// New creates a Buffer that holds up to capacity items.
// It panics if capacity is not positive (programming error).
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

// PushBack inserts item at the tail. It returns false with no side effect
// if the buffer is full. It never blocks.
func (b *Buffer[T]) PushBack(item T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == len(b.items) {
		return false
	}

	b.items[b.tail] = item
	b.tail = (b.tail + 1) % len(b.items)
	b.count++
	return true
}

// PopFront removes and returns the item at the head. It returns the zero
// value and false if the buffer is empty. It never blocks.
func (b *Buffer[T]) PopFront() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	if b.count == 0 {
		return zero, false
	}

	item := b.items[b.head]
	b.items[b.head] = zero // release the slot's reference
	b.head = (b.head + 1) % len(b.items)
	b.count--
	return item, true
}

// Len returns the number of items currently buffered.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Cap returns the buffer's fixed capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.items)
}

package collector

import "sync"

// ring is a fixed size FIFO without locking. Pushing into a full ring evicts the oldest item.
type ring[T any] struct {
	items   []T
	head    int
	count   int
	evicted uint64
}

func newRing[T any](capacity uint64) ring[T] {
	if capacity == 0 {
		panic("capacity must be greater than 0")
	}
	return ring[T]{items: make([]T, capacity)}
}

func (r *ring[T]) push(item T) (old T, evicted bool) {
	pos := (r.head + r.count) % len(r.items)
	if r.count == len(r.items) {
		old, evicted = r.items[r.head], true
		r.head = (r.head + 1) % len(r.items)
		r.evicted++
	} else {
		r.count++
	}
	r.items[pos] = item
	return old, evicted
}

// tail copies the newest n items, oldest first.
func (r *ring[T]) tail(n uint64) []T {
	count := int(min(n, uint64(r.count)))
	result := make([]T, count)
	skip := r.count - count
	for i := range result {
		result[i] = r.items[(r.head+skip+i)%len(r.items)]
	}
	return result
}

func (r *ring[T]) reset() {
	clear(r.items)
	r.head = 0
	r.count = 0
	r.evicted = 0
}

// RingBuffer keeps the last Cap() items added. It is safe for concurrent use.
type RingBuffer[T any] struct {
	mu   sync.RWMutex
	ring ring[T]
}

// NewRingBuffer creates a ring buffer holding up to capacity items. It panics for a zero capacity.
func NewRingBuffer[T any](capacity uint64) *RingBuffer[T] {
	return &RingBuffer[T]{ring: newRing[T](capacity)}
}

func (rb *RingBuffer[T]) Add(item T) {
	rb.mu.Lock()
	rb.ring.push(item)
	rb.mu.Unlock()
}

// Tail returns the newest n items, oldest first.
func (rb *RingBuffer[T]) Tail(n uint64) []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.ring.tail(n)
}

// Clear drops all items and resets the eviction count.
func (rb *RingBuffer[T]) Clear() {
	rb.mu.Lock()
	rb.ring.reset()
	rb.mu.Unlock()
}

func (rb *RingBuffer[T]) Len() uint64 {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return uint64(rb.ring.count)
}

func (rb *RingBuffer[T]) Cap() uint64 {
	return uint64(len(rb.ring.items))
}

// Evicted returns how many items were pushed out by newer ones since the last Clear.
func (rb *RingBuffer[T]) Evicted() uint64 {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.ring.evicted
}

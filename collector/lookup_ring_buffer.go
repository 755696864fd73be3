package collector

import "sync"

// Identifiable is implemented by records stored in a LookupRingBuffer
type Identifiable[S comparable] interface {
	Identity() S
}

// LookupRingBuffer is a RingBuffer that also finds its records by identity.
// Identities are expected to be unique.
type LookupRingBuffer[T Identifiable[S], S comparable] struct {
	mu     sync.RWMutex
	ring   ring[T]
	lookup map[S]T
}

func NewLookupRingBuffer[T Identifiable[S], S comparable](capacity uint64) *LookupRingBuffer[T, S] {
	return &LookupRingBuffer[T, S]{
		ring:   newRing[T](capacity),
		lookup: make(map[S]T, capacity),
	}
}

// Add stores record. When full, the oldest record is evicted and no longer found by Lookup.
func (rb *LookupRingBuffer[T, S]) Add(record T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if old, evicted := rb.ring.push(record); evicted {
		delete(rb.lookup, old.Identity())
	}
	rb.lookup[record.Identity()] = record
}

// Tail returns the newest n records, oldest first.
func (rb *LookupRingBuffer[T, S]) Tail(n uint64) []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.ring.tail(n)
}

// Lookup returns the record with the given identity if it is still buffered.
func (rb *LookupRingBuffer[T, S]) Lookup(identity S) (T, bool) {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	record, ok := rb.lookup[identity]
	return record, ok
}

func (rb *LookupRingBuffer[T, S]) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.ring.reset()
	clear(rb.lookup)
}

func (rb *LookupRingBuffer[T, S]) Len() uint64 {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return uint64(rb.ring.count)
}

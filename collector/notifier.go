package collector

import (
	"context"
	"sync"
)

// Notifier fans out items to all current subscribers in the order Notify was called.
// A subscriber whose channel is full misses items instead of blocking the sender.
type Notifier[T any] struct {
	mu          sync.Mutex
	subscribers map[<-chan T]*subscription[T]
	bufferSize  int
	closed      bool
}

type subscription[T any] struct {
	ch      chan T
	dropped uint64
}

type NotifierOptions struct {
	// SubscriberBufferSize is the buffer size for each subscriber channel
	SubscriberBufferSize int
}

func DefaultNotifierOptions() NotifierOptions {
	return NotifierOptions{
		SubscriberBufferSize: 100,
	}
}

func NewNotifier[T any]() *Notifier[T] {
	return NewNotifierWithOptions[T](DefaultNotifierOptions())
}

func NewNotifierWithOptions[T any](options NotifierOptions) *Notifier[T] {
	return &Notifier[T]{
		subscribers: make(map[<-chan T]*subscription[T]),
		bufferSize:  options.SubscriberBufferSize,
	}
}

// Subscribe returns a channel receiving all items notified from now on.
// The subscription ends and the channel is closed when ctx is done or the notifier is closed.
func (n *Notifier[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, n.bufferSize)

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		close(ch)
		return ch
	}
	n.subscribers[ch] = &subscription[T]{ch: ch}
	n.mu.Unlock()

	context.AfterFunc(ctx, func() {
		n.Unsubscribe(ch)
	})

	return ch
}

// Unsubscribe ends the subscription of ch and closes it. Unknown channels are ignored.
func (n *Notifier[T]) Unsubscribe(ch <-chan T) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if sub, ok := n.subscribers[ch]; ok {
		delete(n.subscribers, ch)
		close(sub.ch)
	}
}

// Notify sends item to every subscriber without blocking.
func (n *Notifier[T]) Notify(item T) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, sub := range n.subscribers {
		select {
		case sub.ch <- item:
		default:
			sub.dropped++
		}
	}
}

// Dropped returns how many items the subscriber of ch missed because its channel was full.
func (n *Notifier[T]) Dropped(ch <-chan T) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	if sub, ok := n.subscribers[ch]; ok {
		return sub.dropped
	}
	return 0
}

// Close ends all subscriptions. Later subscriptions receive a closed channel.
func (n *Notifier[T]) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for _, sub := range n.subscribers {
		close(sub.ch)
	}
	clear(n.subscribers)
}

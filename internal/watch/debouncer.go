package watch

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// Debouncer groups rapid file changes together. A batch is emitted once no
// event arrived for the configured delay, with one event per path.
type Debouncer struct {
	delay   time.Duration
	events  chan ChangeEvent
	output  chan []ChangeEvent
	timer   *time.Timer
	pending []ChangeEvent
	mutex   sync.Mutex
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		events:  make(chan ChangeEvent, 100),
		output:  make(chan []ChangeEvent, 10),
		pending: make([]ChangeEvent, 0),
	}
}

// Add queues an event. Events are dropped while the queue is full.
func (d *Debouncer) Add(event ChangeEvent) {
	select {
	case d.events <- event:
	default:
	}
}

// Output returns the channel receiving debounced batches.
func (d *Debouncer) Output() <-chan []ChangeEvent {
	return d.output
}

// Run collects queued events until ctx is cancelled.
func (d *Debouncer) Run(ctx context.Context) {
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.addEvent(event)
		}
	}
}

func (d *Debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *Debouncer) addEvent(event ChangeEvent) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = append(d.pending, event)

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.pending) == 0 {
		return
	}

	// Deduplicate events by path, the last event wins
	eventMap := make(map[string]ChangeEvent, len(d.pending))
	for _, event := range d.pending {
		eventMap[event.Path] = event
	}

	events := make([]ChangeEvent, 0, len(eventMap))
	for _, event := range eventMap {
		events = append(events, event)
	}
	slices.SortFunc(events, func(a, b ChangeEvent) int {
		return strings.Compare(a.Path, b.Path)
	})

	select {
	case d.output <- events:
	default:
		// Channel full, skip
	}

	d.pending = d.pending[:0]
}

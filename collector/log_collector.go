package collector

import (
	"context"
	"log/slog"
	"slices"

	slogcommon "github.com/samber/slog-common"
)

// LogCollector keeps the most recent slog records and notifies subscribers about new ones.
// The dashboard shows them as the output panel of split runs.
type LogCollector struct {
	buffer   *RingBuffer[slog.Record]
	notifier *Notifier[slog.Record]
}

type LogOptions struct {
	// NotifierOptions are options for notification about new logs
	NotifierOptions *NotifierOptions
}

func DefaultLogOptions() LogOptions {
	return LogOptions{}
}

func NewLogCollector(capacity uint64) *LogCollector {
	return NewLogCollectorWithOptions(capacity, DefaultLogOptions())
}

func NewLogCollectorWithOptions(capacity uint64, options LogOptions) *LogCollector {
	notifierOptions := DefaultNotifierOptions()
	if options.NotifierOptions != nil {
		notifierOptions = *options.NotifierOptions
	}

	return &LogCollector{
		buffer:   NewRingBuffer[slog.Record](capacity),
		notifier: NewNotifierWithOptions[slog.Record](notifierOptions),
	}
}

func (c *LogCollector) Collect(ctx context.Context, record slog.Record) {
	c.buffer.Add(record)
	c.notifier.Notify(record)
}

// Tail returns the last n records, oldest first.
func (c *LogCollector) Tail(n int) []slog.Record {
	return c.buffer.Tail(uint64(max(n, 0)))
}

// Dropped returns the number of records pushed out of the buffer by newer ones since the last Clear.
func (c *LogCollector) Dropped() uint64 {
	return c.buffer.Evicted()
}

// Clear drops all collected records.
func (c *LogCollector) Clear() {
	c.buffer.Clear()
}

// Subscribe returns a channel that receives notifications of new log records
func (c *LogCollector) Subscribe(ctx context.Context) <-chan slog.Record {
	return c.notifier.Subscribe(ctx)
}

// Close releases resources used by the collector
func (c *LogCollector) Close() {
	c.notifier.Close()
}

type CollectSlogLogsOptions struct {
	// Level is the minimum level of logs to collect.
	Level slog.Level
}

// SlogLogCollectorHandler is a slog.Handler writing into a LogCollector.
// Records are stored with handler attributes first and groups already resolved,
// so consumers only see plain attributes and nested group values.
type SlogLogCollectorHandler struct {
	collector *LogCollector
	options   CollectSlogLogsOptions

	attrs  []slog.Attr
	groups []string
}

func NewSlogLogCollectorHandler(collector *LogCollector, options CollectSlogLogsOptions) *SlogLogCollectorHandler {
	return &SlogLogCollectorHandler{
		collector: collector,
		options:   options,
	}
}

func (h *SlogLogCollectorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.options.Level
}

func (h *SlogLogCollectorHandler) Handle(ctx context.Context, record slog.Record) error {
	recordAttrs := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		recordAttrs = append(recordAttrs, attr)
		return true
	})

	resolved := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	resolved.AddAttrs(slogcommon.AppendAttrsToGroup(h.groups, h.attrs, recordAttrs...)...)

	h.collector.Collect(ctx, resolved)
	return nil
}

func (h *SlogLogCollectorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SlogLogCollectorHandler{
		collector: h.collector,
		options:   h.options,

		attrs:  slogcommon.AppendAttrsToGroup(h.groups, h.attrs, attrs...),
		groups: h.groups,
	}
}

func (h *SlogLogCollectorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &SlogLogCollectorHandler{
		collector: h.collector,
		options:   h.options,

		attrs:  h.attrs,
		groups: append(slices.Clone(h.groups), name),
	}
}

var _ slog.Handler = (*SlogLogCollectorHandler)(nil)

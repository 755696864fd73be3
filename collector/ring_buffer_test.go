package collector_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crisiscore-systems/textsplitter/collector"
)

func TestRingBuffer_Tail(t *testing.T) {
	rb := collector.NewRingBuffer[string](3)

	assert.Equal(t, uint64(0), rb.Len())
	assert.Equal(t, uint64(3), rb.Cap())
	assert.Empty(t, rb.Tail(3))

	rb.Add("line1")
	rb.Add("line2")

	assert.Equal(t, uint64(2), rb.Len())
	assert.Equal(t, []string{"line1", "line2"}, rb.Tail(10))
	assert.Equal(t, []string{"line2"}, rb.Tail(1))
	assert.Empty(t, rb.Tail(0))
}

func TestRingBuffer_Evicts(t *testing.T) {
	rb := collector.NewRingBuffer[string](3)

	for _, s := range []string{"line1", "line2", "line3", "line4", "line5"} {
		rb.Add(s)
	}

	assert.Equal(t, uint64(3), rb.Len())
	assert.Equal(t, uint64(2), rb.Evicted())
	assert.Equal(t, []string{"line3", "line4", "line5"}, rb.Tail(3))
	assert.Equal(t, []string{"line4", "line5"}, rb.Tail(2))
}

func TestRingBuffer_Clear(t *testing.T) {
	rb := collector.NewRingBuffer[string](2)
	rb.Add("line1")
	rb.Add("line2")
	rb.Add("line3")

	rb.Clear()

	assert.Equal(t, uint64(0), rb.Len())
	assert.Empty(t, rb.Tail(2))
	assert.Equal(t, uint64(0), rb.Evicted())

	rb.Add("line4")
	rb.Add("line5")
	rb.Add("line6")
	assert.Equal(t, []string{"line5", "line6"}, rb.Tail(2))
	assert.Equal(t, uint64(1), rb.Evicted())
}

func TestRingBuffer_SlogRecords(t *testing.T) {
	rb := collector.NewRingBuffer[slog.Record](2)
	rb.Add(slog.NewRecord(time.Now(), slog.LevelInfo, "Created chunk", 0))

	records := rb.Tail(1)
	assert.Len(t, records, 1)
	assert.Equal(t, "Created chunk", records[0].Message)
}

func TestRingBuffer_ZeroCapacity(t *testing.T) {
	assert.Panics(t, func() {
		collector.NewRingBuffer[string](0)
	})
}

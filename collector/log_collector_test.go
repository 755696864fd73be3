package collector_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisiscore-systems/textsplitter/collector"
)

func recordAttrs(record slog.Record) map[string]slog.Value {
	attrs := map[string]slog.Value{}
	record.Attrs(func(attr slog.Attr) bool {
		attrs[attr.Key] = attr.Value
		return true
	})
	return attrs
}

func TestSlogLogCollectorHandler_Level(t *testing.T) {
	logCollector := collector.NewLogCollector(10)
	defer logCollector.Close()

	logger := slog.New(collector.NewSlogLogCollectorHandler(logCollector, collector.CollectSlogLogsOptions{
		Level: slog.LevelInfo,
	}))

	logger.Debug("Created chunk")
	logger.Info("Split file into chunks", slog.Int("chunks", 3))

	records := logCollector.Tail(10)
	require.Len(t, records, 1)
	assert.Equal(t, "Split file into chunks", records[0].Message)
	assert.Equal(t, int64(3), recordAttrs(records[0])["chunks"].Int64())
}

func TestSlogLogCollectorHandler_AttrsAndGroups(t *testing.T) {
	logCollector := collector.NewLogCollector(10)
	defer logCollector.Close()

	logger := slog.New(collector.NewSlogLogCollectorHandler(logCollector, collector.CollectSlogLogsOptions{
		Level: slog.LevelDebug,
	}))

	logger.With("component", "line-splitter").WithGroup("chunk").Info("Created chunk", slog.String("path", "a.txt.cc000.txt"))

	records := logCollector.Tail(1)
	require.Len(t, records, 1)

	attrs := recordAttrs(records[0])
	assert.Equal(t, "line-splitter", attrs["component"].String())
	require.Equal(t, slog.KindGroup, attrs["chunk"].Kind())

	group := attrs["chunk"].Group()
	require.Len(t, group, 1)
	assert.Equal(t, "path", group[0].Key)
	assert.Equal(t, "a.txt.cc000.txt", group[0].Value.String())
}

func TestLogCollector_SubscribeAndClear(t *testing.T) {
	logCollector := collector.NewLogCollector(10)
	defer logCollector.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := logCollector.Subscribe(ctx)

	logger := slog.New(collector.NewSlogLogCollectorHandler(logCollector, collector.CollectSlogLogsOptions{}))
	logger.Info("Split file into sections")

	assert.Equal(t, "Split file into sections", receive(t, ch).Message)

	logCollector.Clear()
	assert.Empty(t, logCollector.Tail(10))
}

func TestSlogLogCollectorHandler_GroupAttrsMerge(t *testing.T) {
	logCollector := collector.NewLogCollector(10)
	defer logCollector.Close()

	logger := slog.New(collector.NewSlogLogCollectorHandler(logCollector, collector.CollectSlogLogsOptions{}))
	logger.WithGroup("section").With("index", 1).Info("Created section", slog.Int("lines", 12))

	records := logCollector.Tail(1)
	require.Len(t, records, 1)

	attrs := recordAttrs(records[0])
	require.Equal(t, slog.KindGroup, attrs["section"].Kind())

	group := map[string]int64{}
	for _, a := range attrs["section"].Group() {
		group[a.Key] = a.Value.Int64()
	}
	assert.Equal(t, map[string]int64{"index": 1, "lines": 12}, group)
}

func TestLogCollector_Dropped(t *testing.T) {
	logCollector := collector.NewLogCollector(2)
	defer logCollector.Close()

	logger := slog.New(collector.NewSlogLogCollectorHandler(logCollector, collector.CollectSlogLogsOptions{}))
	for i := 0; i < 5; i++ {
		logger.Info("Created chunk", slog.Int("index", i))
	}

	assert.Equal(t, uint64(3), logCollector.Dropped())

	records := logCollector.Tail(10)
	require.Len(t, records, 2)
	assert.Equal(t, int64(4), recordAttrs(records[1])["index"].Int64())
}

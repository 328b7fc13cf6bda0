package xmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// fakeStats 固定数值的 PoolStats 实现。
type fakeStats struct {
	queued  int
	working int
}

func (s *fakeStats) QueueLen() int       { return s.queued }
func (s *fakeStats) WorkingWorkers() int { return s.working }

// collect 读取 reader 中的全部数据点，按指标名索引。
func collect(t *testing.T, reader *metric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewPoolRecorder_Validation(t *testing.T) {
	_, err := NewPoolRecorder(nil, "p")
	assert.ErrorIs(t, err, ErrNilMeter)
}

func TestPoolRecorder_Counts(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rec, err := NewPoolRecorder(provider.Meter("test"), "bench")
	require.NoError(t, err)

	for range 3 {
		rec.TaskSubmitted()
	}
	rec.TaskCompleted()

	metrics := collect(t, reader)

	submitted, ok := metrics[metricTasksSubmitted].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, submitted.DataPoints, 1)
	assert.Equal(t, int64(3), submitted.DataPoints[0].Value)

	poolAttr, ok := submitted.DataPoints[0].Attributes.Value(AttrKeyPool)
	require.True(t, ok)
	assert.Equal(t, "bench", poolAttr.AsString())

	completed, ok := metrics[metricTasksCompleted].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1), completed.DataPoints[0].Value)
}

func TestInstrument_Validation(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	_, err := Instrument(nil, "p", &fakeStats{})
	assert.ErrorIs(t, err, ErrNilMeter)

	_, err = Instrument(provider.Meter("test"), "p", nil)
	assert.ErrorIs(t, err, ErrNilStats)
}

func TestInstrument_ObservesSnapshot(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	stats := &fakeStats{queued: 5, working: 2}
	reg, err := Instrument(provider.Meter("test"), "bench", stats)
	require.NoError(t, err)
	defer func() { require.NoError(t, reg.Unregister()) }()

	metrics := collect(t, reader)

	depth, ok := metrics[metricQueueDepth].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Equal(t, int64(5), depth.DataPoints[0].Value)

	working, ok := metrics[metricWorkersWorking].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Equal(t, int64(2), working.DataPoints[0].Value)

	// 快照变化后再次采集
	stats.queued = 0
	stats.working = 1
	metrics = collect(t, reader)
	depth, _ = metrics[metricQueueDepth].Data.(metricdata.Gauge[int64])
	assert.Equal(t, int64(0), depth.DataPoints[0].Value)
}

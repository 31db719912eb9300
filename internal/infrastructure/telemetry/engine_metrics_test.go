package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/uom/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func sumByAttr(t *testing.T, m metricdata.Metrics, key attribute.Key) map[string]int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	out := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(key)
		out[v.Emit()] += dp.Value
	}
	return out
}

func gaugeByAttr(t *testing.T, m metricdata.Metrics, key attribute.Key) map[string]int64 {
	t.Helper()
	g, ok := m.Data.(metricdata.Gauge[int64])
	require.True(t, ok, "metric %s is not an int64 gauge", m.Name)
	out := map[string]int64{}
	for _, dp := range g.DataPoints {
		v, _ := dp.Attributes.Value(key)
		out[v.Emit()] = dp.Value
	}
	return out
}

func TestNewEngineMetrics_NilMeter(t *testing.T) {
	em, err := telemetry.NewEngineMetrics(telemetry.EngineMetricsConfig{})
	assert.Nil(t, em)
	assert.True(t, errors.Is(err, telemetry.ErrMeterNil))
	assert.Contains(t, err.Error(), "meter cannot be nil")
}

func TestEngineMetrics_NilIsNoop(t *testing.T) {
	var em *telemetry.EngineMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		em.RecordGraphBuild(ctx, time.Millisecond)
		em.RecordGraphCache(ctx, true)
		em.RecordResolve(ctx, false)
		em.RecordValidation(ctx, true, 0, 1)
		em.RecordHealthReport(ctx, 3, 1, time.Second)
	})
}

func TestEngineMetrics_Records(t *testing.T) {
	ctx := context.Background()
	mp, reader := newManualProvider(t)
	em, err := telemetry.NewEngineMetrics(telemetry.EngineMetricsConfig{Meter: mp.Meter(telemetry.MeterName)})
	require.NoError(t, err)

	em.RecordGraphBuild(ctx, 3*time.Millisecond)
	em.RecordGraphCache(ctx, false)
	em.RecordGraphCache(ctx, true)
	em.RecordGraphCache(ctx, true)
	em.RecordResolve(ctx, true)
	em.RecordResolve(ctx, false)
	em.RecordValidation(ctx, false, 2, 1)
	em.RecordHealthReport(ctx, 10, 2, 40*time.Millisecond)

	got := collect(t, reader)

	builds, ok := got["uom_graph_build_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1), builds.DataPoints[0].Value)

	buildTime, ok := got["uom_graph_build_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Equal(t, uint64(1), buildTime.DataPoints[0].Count)

	assert.Equal(t, map[string]int64{"hit": 2, "miss": 1}, sumByAttr(t, got["uom_graph_cache_total"], telemetry.AttrResult))
	assert.Equal(t, map[string]int64{"found": 1, "not_found": 1}, sumByAttr(t, got["uom_resolve_total"], telemetry.AttrResult))
	assert.Equal(t, map[string]int64{"false": 1}, sumByAttr(t, got["uom_validation_total"], telemetry.AttrOK))
	assert.Equal(t, map[string]int64{"error": 2, "warning": 1}, gaugeByAttr(t, got["uom_validation_issues"], telemetry.AttrSeverity))
	assert.Equal(t, map[string]int64{"ok": 10, "fail": 2}, gaugeByAttr(t, got["uom_health_findings"], telemetry.AttrStatus))

	runs, ok := got["uom_health_run_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Equal(t, uint64(1), runs.DataPoints[0].Count)
}

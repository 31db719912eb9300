package telemetry_test

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/erp/uom/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler(t *testing.T) {
	t.Run("disabled profiler is a no-op", func(t *testing.T) {
		p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	tests := []struct {
		name string
		cfg  telemetry.ProfilerConfig
	}{
		{"missing server address", telemetry.ProfilerConfig{Enabled: true, ApplicationName: "uom"}},
		{"missing application name", telemetry.ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := telemetry.NewProfiler(tt.cfg, nil)
			assert.Error(t, err)
		})
	}
}

func TestWithProfilingLabels(t *testing.T) {
	t.Run("attaches labels", func(t *testing.T) {
		var got string
		var ok bool
		telemetry.WithProfilingLabels(context.Background(), map[string]string{"operation": "build_graph"}, func(ctx context.Context) {
			got, ok = pprof.Label(ctx, "operation")
		})
		assert.True(t, ok)
		assert.Equal(t, "build_graph", got)
	})

	t.Run("runs fn without labels", func(t *testing.T) {
		called := false
		telemetry.WithProfilingLabels(context.Background(), map[string]string{"": "x", "empty": ""}, func(ctx context.Context) {
			called = true
			_, ok := pprof.Label(ctx, "empty")
			assert.False(t, ok)
		})
		assert.True(t, called)
	})
}

package telemetry_test

import (
	"context"
	"testing"

	"github.com/erp/uom/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap/zaptest"
)

func newRecordingTracer(t *testing.T, ratio float64) (*telemetry.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp, err := telemetry.NewTracerProviderWithProcessor(telemetry.Config{
		ServiceName:    "uom-test",
		ServiceVersion: "1.2.3",
		SamplingRatio:  ratio,
	}, recorder, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{ServiceName: "uom"}, nil)
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.Nil(t, tp.Provider())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProviderWithProcessor(t *testing.T) {
	tp, recorder := newRecordingTracer(t, 1)
	require.True(t, tp.IsEnabled())
	require.NotNil(t, tp.Provider())

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "op", ended[0].Name())

	attrs := ended[0].Resource().Attributes()
	assert.Contains(t, attrs, semconv.ServiceName("uom-test"))
	assert.Contains(t, attrs, semconv.ServiceVersion("1.2.3"))
}

func TestTracerProvider_Sampling(t *testing.T) {
	tests := []struct {
		name     string
		ratio    float64
		recorded int
	}{
		{"always", 1, 1},
		{"above one", 5, 1},
		{"never", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp, recorder := newRecordingTracer(t, tt.ratio)
			_, span := tp.Tracer("test").Start(context.Background(), "op")
			span.End()
			assert.Len(t, recorder.Ended(), tt.recorded)
		})
	}
}

func TestNewResource_DefaultVersion(t *testing.T) {
	res, err := telemetry.NewResource("uom", "")
	require.NoError(t, err)
	assert.Contains(t, res.Attributes(), semconv.ServiceVersion("dev"))
}

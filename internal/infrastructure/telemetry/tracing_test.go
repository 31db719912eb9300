package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/uom/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func useGlobalTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	tp, recorder := newRecordingTracer(t, 1)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp.Provider())
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	h := useGlobalTracer(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "CatalogService", "Graph",
		attribute.Int64(telemetry.SpanAttrRevision, 7))
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	telemetry.EndSpan(span, nil)

	ended := h.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "CatalogService.Graph", ended[0].Name())
	assert.Equal(t, trace.SpanKindInternal, ended[0].SpanKind())
	assert.Contains(t, ended[0].Attributes(), attribute.Int64(telemetry.SpanAttrRevision, 7))
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
}

func TestEndSpan_WithError(t *testing.T) {
	h := useGlobalTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "DataHealthService", "Run")
	telemetry.EndSpan(span, errors.New("store offline"))

	ended := h.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "store offline", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestRecordError_Nil(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.RecordError(nil, errors.New("x"))
		telemetry.RecordError(trace.SpanFromContext(context.Background()), nil)
	})
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.GetTraceID(context.Background()))
}

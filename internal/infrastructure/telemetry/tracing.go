package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for engine spans
const TracerName = "uom-engine"

// Span attribute keys
const (
	SpanAttrFromUnit  = "uom.from"
	SpanAttrToUnit    = "uom.to"
	SpanAttrRevision  = "uom.catalog_revision"
	SpanAttrUnits     = "uom.units"
	SpanAttrEdges     = "uom.edges"
	SpanAttrFindings  = "health.findings"
	SpanAttrFailCount = "health.fail_count"
)

// StartServiceSpan starts an internal span named "{service}.{method}" on the
// global provider. The caller ends it, usually through EndSpan.
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	opts := []trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindInternal)}
	if len(attrs) > 0 {
		opts = append(opts, trace.WithAttributes(attrs...))
	}
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, fmt.Sprintf("%s.%s", service, method), opts...)
}

// RecordError records err on span and marks it failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// EndSpan records err, if any, and ends span
func EndSpan(span trace.Span, err error) {
	RecordError(span, err)
	span.End()
}

// GetTraceID returns the trace id of the span in ctx, or "" without one
func GetTraceID(ctx context.Context) string {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineMetrics records activity of the unit-of-measure engine: graph
// builds and cache use, factor resolutions, validation passes and data
// health runs. A nil *EngineMetrics is valid and records nothing.
type EngineMetrics struct {
	logger *zap.Logger

	graphBuildTotal    *Counter
	graphBuildDuration *Histogram
	graphCacheTotal    *Counter
	resolveTotal       *Counter
	validationTotal    *Counter
	validationIssues   *Gauge
	healthFindings     *Gauge
	healthRunDuration  *Histogram
}

// EngineMetricsConfig holds configuration for engine metrics.
type EngineMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// Attribute keys used by engine metrics
var (
	AttrResult   = attribute.Key("result")
	AttrSeverity = attribute.Key("severity")
	AttrStatus   = attribute.Key("status")
	AttrOK       = attribute.Key("ok")
)

// NewEngineMetrics creates the engine instruments on the given meter.
func NewEngineMetrics(cfg EngineMetricsConfig) (*EngineMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	em := &EngineMetrics{logger: logger}

	var err error
	if em.graphBuildTotal, err = NewCounter(cfg.Meter,
		"uom_graph_build_total", "Number of conversion graphs built", "{graphs}"); err != nil {
		return nil, err
	}
	if em.graphBuildDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "uom_graph_build_duration_seconds",
		Description: "Time spent loading the catalog and building the conversion graph",
		Unit:        "s",
		Boundaries:  SmallDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if em.graphCacheTotal, err = NewCounter(cfg.Meter,
		"uom_graph_cache_total", "Conversion graph cache lookups by result", "{lookups}"); err != nil {
		return nil, err
	}
	if em.resolveTotal, err = NewCounter(cfg.Meter,
		"uom_resolve_total", "Factor resolutions by result", "{resolutions}"); err != nil {
		return nil, err
	}
	if em.validationTotal, err = NewCounter(cfg.Meter,
		"uom_validation_total", "Catalog validation passes by outcome", "{runs}"); err != nil {
		return nil, err
	}
	if em.validationIssues, err = NewGauge(cfg.Meter,
		"uom_validation_issues", "Issues found by the last validation pass", "{issues}"); err != nil {
		return nil, err
	}
	if em.healthFindings, err = NewGauge(cfg.Meter,
		"uom_health_findings", "Findings of the last data health report by status", "{findings}"); err != nil {
		return nil, err
	}
	if em.healthRunDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "uom_health_run_duration_seconds",
		Description: "Time spent producing a data health report",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}

	return em, nil
}

// RecordGraphBuild records one graph build and how long it took
func (em *EngineMetrics) RecordGraphBuild(ctx context.Context, d time.Duration) {
	if em == nil {
		return
	}
	em.graphBuildTotal.Inc(ctx)
	em.graphBuildDuration.RecordDuration(ctx, d)
}

// RecordGraphCache records a cache hit or miss
func (em *EngineMetrics) RecordGraphCache(ctx context.Context, hit bool) {
	if em == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	em.graphCacheTotal.Inc(ctx, AttrResult.String(result))
}

// RecordResolve records a factor resolution
func (em *EngineMetrics) RecordResolve(ctx context.Context, found bool) {
	if em == nil {
		return
	}
	result := "not_found"
	if found {
		result = "found"
	}
	em.resolveTotal.Inc(ctx, AttrResult.String(result))
}

// RecordValidation records the outcome of a validation pass
func (em *EngineMetrics) RecordValidation(ctx context.Context, ok bool, errors, warnings int) {
	if em == nil {
		return
	}
	em.validationTotal.Inc(ctx, AttrOK.Bool(ok))
	em.validationIssues.Record(ctx, int64(errors), AttrSeverity.String("error"))
	em.validationIssues.Record(ctx, int64(warnings), AttrSeverity.String("warning"))
}

// RecordHealthReport records the counts of a data health report
func (em *EngineMetrics) RecordHealthReport(ctx context.Context, okCount, failCount int, d time.Duration) {
	if em == nil {
		return
	}
	em.healthFindings.Record(ctx, int64(okCount), AttrStatus.String("ok"))
	em.healthFindings.Record(ctx, int64(failCount), AttrStatus.String("fail"))
	em.healthRunDuration.RecordDuration(ctx, d)
	em.logger.Debug("Recorded data health metrics",
		zap.Int("ok", okCount),
		zap.Int("fail", failCount),
	)
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewEngineMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

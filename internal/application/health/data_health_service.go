// Package health aggregates the catalog, packaging and pricing checks into a
// single data-health checklist.
package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/uom"
	"github.com/erp/uom/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Finding ids of the catalog checks
const (
	FindingUOMGraph         = "uom.graph"
	FindingUOMGraphWarnings = "uom.graph.warnings"
)

// DataHealthReport is a flat pass/fail checklist
type DataHealthReport struct {
	Findings    []shared.Finding `json:"findings"`
	OKCount     int              `json:"ok_count"`
	FailCount   int              `json:"fail_count"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// OK reports whether every finding passed
func (r DataHealthReport) OK() bool {
	return r.FailCount == 0
}

// CatalogChecker loads and validates the unit catalog
type CatalogChecker interface {
	Snapshot(ctx context.Context) (uom.Snapshot, error)
	ValidateSnapshot(ctx context.Context, snapshot uom.Snapshot) uom.ValidationReport
}

// PackagingChecker validates every product's packaging against a catalog
type PackagingChecker interface {
	ValidateAll(ctx context.Context, units uom.UnitLookup) ([]shared.Finding, error)
}

// PricingChecker validates every tier set
type PricingChecker interface {
	ValidateAll(ctx context.Context) ([]shared.Finding, error)
}

// DataHealthService builds data-health reports
type DataHealthService struct {
	catalog   CatalogChecker
	packaging PackagingChecker
	pricing   PricingChecker
	logger    *zap.Logger
	metrics   *telemetry.EngineMetrics
	now       func() time.Time
}

// NewDataHealthService creates a new DataHealthService
func NewDataHealthService(catalog CatalogChecker, packaging PackagingChecker, pricing PricingChecker, logger *zap.Logger) *DataHealthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataHealthService{
		catalog:   catalog,
		packaging: packaging,
		pricing:   pricing,
		logger:    logger,
		now:       time.Now,
	}
}

// SetMetrics sets the engine metrics collector
func (s *DataHealthService) SetMetrics(m *telemetry.EngineMetrics) {
	s.metrics = m
}

// Run produces a report. The catalog is loaded once and the same snapshot
// is used for the graph check and the packaging check. Findings are ordered
// catalog, packaging, pricing.
func (s *DataHealthService) Run(ctx context.Context) (report *DataHealthReport, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "DataHealthService", "Run")
	defer func() {
		if report != nil {
			span.SetAttributes(
				attribute.Int(telemetry.SpanAttrFindings, len(report.Findings)),
				attribute.Int(telemetry.SpanAttrFailCount, report.FailCount),
			)
		}
		telemetry.EndSpan(span, err)
	}()

	start := s.now()

	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit catalog: %w", err)
	}
	findings := CatalogFindings(s.catalog.ValidateSnapshot(ctx, snapshot))

	if s.packaging != nil {
		packaging, err := s.packaging.ValidateAll(ctx, snapshot)
		if err != nil {
			return nil, err
		}
		findings = append(findings, packaging...)
	}
	if s.pricing != nil {
		tiers, err := s.pricing.ValidateAll(ctx)
		if err != nil {
			return nil, err
		}
		findings = append(findings, tiers...)
	}

	report = NewReport(findings, start)
	elapsed := s.now().Sub(start)
	s.metrics.RecordHealthReport(ctx, report.OKCount, report.FailCount, elapsed)

	fields := []zap.Field{
		zap.Int("ok", report.OKCount),
		zap.Int("fail", report.FailCount),
		zap.Duration("elapsed", elapsed),
	}
	if report.OK() {
		s.logger.Info("Data health report passed", fields...)
	} else {
		s.logger.Warn("Data health report has failures", append(fields, zap.Strings("failed", failedIDs(report.Findings)))...)
	}
	return report, nil
}

// NewReport counts findings into a report
func NewReport(findings []shared.Finding, generatedAt time.Time) *DataHealthReport {
	if findings == nil {
		findings = []shared.Finding{}
	}
	ok, fail := shared.CountFindings(findings)
	return &DataHealthReport{
		Findings:    findings,
		OKCount:     ok,
		FailCount:   fail,
		GeneratedAt: generatedAt,
	}
}

// CatalogFindings turns a validation report into the uom.graph finding, plus
// a passing uom.graph.warnings finding when there are warnings.
func CatalogFindings(report uom.ValidationReport) []shared.Finding {
	graph := shared.Finding{
		ID:     FindingUOMGraph,
		Group:  shared.FindingGroupUOM,
		Label:  "Unit conversion graph",
		OK:     report.OK,
		Detail: "No errors",
	}
	if !report.OK {
		graph.Detail = strings.Join(report.Errors, " ")
	}
	findings := []shared.Finding{graph}

	if len(report.Warnings) > 0 {
		findings = append(findings, shared.Finding{
			ID:     FindingUOMGraphWarnings,
			Group:  shared.FindingGroupUOM,
			Label:  "Unit conversion graph warnings",
			OK:     true,
			Detail: strings.Join(report.Warnings, " "),
		})
	}
	return findings
}

func failedIDs(findings []shared.Finding) []string {
	var ids []string
	for _, f := range findings {
		if !f.OK {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

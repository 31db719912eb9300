package uom

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erp/uom/internal/domain/shared"
	"github.com/erp/uom/internal/domain/shared/valueobject"
	"github.com/erp/uom/internal/domain/uom"
	"github.com/erp/uom/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RevisionTracker hands out the catalog revision. Every successful unit or
// edge mutation bumps it; derived data built at an older revision is stale.
type RevisionTracker interface {
	Current(ctx context.Context) (uint64, error)
	Bump(ctx context.Context) (uint64, error)
}

// DefaultGraphMaxAge bounds how long a cached graph is served without a rebuild
const DefaultGraphMaxAge = 30 * time.Second

// ServiceOptions tunes graph building and validation
type ServiceOptions struct {
	Graph     uom.GraphOptions
	Validator uom.ValidatorOptions
	// GraphMaxAge caps the age of a cached graph even when the revision
	// is unchanged. Zero means DefaultGraphMaxAge.
	GraphMaxAge time.Duration
}

// DefaultServiceOptions returns the options used when none are configured
func DefaultServiceOptions() ServiceOptions {
	return ServiceOptions{Graph: uom.DefaultGraphOptions(), GraphMaxAge: DefaultGraphMaxAge}
}

// CatalogService handles unit catalog administration, conversion resolution
// and catalog validation.
type CatalogService struct {
	catalog   *uom.UnitCatalog
	store     uom.CatalogStore
	validator *uom.Validator
	revisions RevisionTracker
	opts      ServiceOptions
	logger    *zap.Logger
	metrics   *telemetry.EngineMetrics

	mu    sync.RWMutex
	cache *cachedGraph

	// pendingBump is set while a mutation's revision bump has not reached
	// the tracker; the cache is bypassed until a retried bump succeeds.
	pendingBump atomic.Bool
	now         func() time.Time
}

type cachedGraph struct {
	revision uint64
	graph    *uom.Graph
	builtAt  time.Time
}

// NewCatalogService creates a new CatalogService. A nil revision tracker
// disables graph caching; every resolution then rebuilds the graph.
func NewCatalogService(store uom.CatalogStore, revisions RevisionTracker, opts ServiceOptions, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.GraphMaxAge <= 0 {
		opts.GraphMaxAge = DefaultGraphMaxAge
	}
	return &CatalogService{
		catalog:   uom.NewUnitCatalog(store),
		store:     store,
		validator: uom.NewValidator(opts.Validator),
		revisions: revisions,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// SetMetrics sets the engine metrics collector
func (s *CatalogService) SetMetrics(m *telemetry.EngineMetrics) {
	s.metrics = m
}

// ListUnits returns every unit definition
func (s *CatalogService) ListUnits(ctx context.Context) ([]uom.UnitDefinition, error) {
	return s.catalog.List(ctx)
}

// GetUnit returns one unit definition or a NOT_FOUND domain error
func (s *CatalogService) GetUnit(ctx context.Context, code valueobject.UnitCode) (*uom.UnitDefinition, error) {
	unit, ok, err := s.catalog.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("Unit %s not found", code))
	}
	return &unit, nil
}

// UpsertUnit creates or replaces a unit definition
func (s *CatalogService) UpsertUnit(ctx context.Context, def uom.UnitDefinition) (*uom.UnitDefinition, error) {
	saved, err := s.catalog.Upsert(ctx, def)
	if err != nil {
		s.logMutationError("Failed to upsert unit", def.Code.String(), err)
		return nil, err
	}
	s.logger.Info("Unit upserted",
		zap.String("code", saved.Code.String()),
		zap.String("category", string(saved.Category)),
		zap.Bool("is_base", saved.IsBase),
	)
	s.invalidate(ctx)
	return &saved, nil
}

// RemoveUnit deletes a unit definition, reporting whether it existed
func (s *CatalogService) RemoveUnit(ctx context.Context, code valueobject.UnitCode) (bool, error) {
	removed, err := s.catalog.Remove(ctx, code)
	if err != nil {
		s.logger.Error("Failed to remove unit", zap.String("code", code.String()), zap.Error(err))
		return false, err
	}
	if removed {
		s.logger.Info("Unit removed", zap.String("code", code.String()))
		s.invalidate(ctx)
	}
	return removed, nil
}

// ListEdges returns every conversion edge
func (s *CatalogService) ListEdges(ctx context.Context) ([]uom.ConversionEdge, error) {
	return s.catalog.ListEdges(ctx)
}

// UpsertEdge creates or replaces a conversion edge
func (s *CatalogService) UpsertEdge(ctx context.Context, edge uom.ConversionEdge) (*uom.ConversionEdge, error) {
	saved, err := s.catalog.UpsertEdge(ctx, edge)
	if err != nil {
		s.logMutationError("Failed to upsert conversion", edge.String(), err)
		return nil, err
	}
	s.logger.Info("Conversion upserted",
		zap.String("from", saved.From.String()),
		zap.String("to", saved.To.String()),
		zap.String("factor", saved.Factor.String()),
	)
	s.invalidate(ctx)
	return &saved, nil
}

// RemoveEdge deletes a conversion edge, reporting whether it existed
func (s *CatalogService) RemoveEdge(ctx context.Context, from, to valueobject.UnitCode) (bool, error) {
	removed, err := s.catalog.RemoveEdge(ctx, from, to)
	if err != nil {
		s.logger.Error("Failed to remove conversion",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Error(err))
		return false, err
	}
	if removed {
		s.logger.Info("Conversion removed", zap.String("from", from.String()), zap.String("to", to.String()))
		s.invalidate(ctx)
	}
	return removed, nil
}

// Snapshot loads the current catalog
func (s *CatalogService) Snapshot(ctx context.Context) (uom.Snapshot, error) {
	return s.catalog.Snapshot(ctx)
}

// Validate runs the validator over the current catalog
func (s *CatalogService) Validate(ctx context.Context) (uom.ValidationReport, error) {
	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		s.logger.Error("Failed to load catalog for validation", zap.Error(err))
		return uom.ValidationReport{}, err
	}
	return s.ValidateSnapshot(ctx, snapshot), nil
}

// ValidateSnapshot validates an already loaded snapshot and records the outcome
func (s *CatalogService) ValidateSnapshot(ctx context.Context, snapshot uom.Snapshot) uom.ValidationReport {
	report := s.validator.ValidateSnapshot(snapshot)

	fields := []zap.Field{
		zap.Bool("ok", report.OK),
		zap.Int("errors", len(report.Errors)),
		zap.Int("warnings", len(report.Warnings)),
	}
	if report.OK {
		s.logger.Info("Catalog validated", fields...)
	} else {
		s.logger.Warn("Catalog validation failed", append(fields, zap.Strings("messages", report.Errors))...)
	}
	s.metrics.RecordValidation(ctx, report.OK, len(report.Errors), len(report.Warnings))
	return report
}

// Graph returns the conversion graph for the current catalog revision,
// building it when the cached one is stale or older than GraphMaxAge.
func (s *CatalogService) Graph(ctx context.Context) (*uom.Graph, error) {
	if s.pendingBump.Load() {
		s.retryBump(ctx)
	}
	revision, cacheable := s.currentRevision(ctx)
	if cacheable && s.pendingBump.Load() {
		cacheable = false
	}
	if cacheable {
		s.mu.RLock()
		cached := s.cache
		s.mu.RUnlock()
		if cached != nil && cached.revision == revision && s.now().Sub(cached.builtAt) < s.opts.GraphMaxAge {
			s.metrics.RecordGraphCache(ctx, true)
			return cached.graph, nil
		}
		s.metrics.RecordGraphCache(ctx, false)
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "CatalogService", "BuildGraph",
		attribute.Int64(telemetry.SpanAttrRevision, int64(revision)))
	start := s.now()
	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		s.logger.Error("Failed to load catalog for graph", zap.Error(err))
		telemetry.EndSpan(span, err)
		return nil, err
	}
	var graph *uom.Graph
	telemetry.WithProfilingLabels(ctx, map[string]string{"operation": "build_graph"}, func(context.Context) {
		graph = uom.BuildGraph(snapshot.Units, snapshot.Edges, s.opts.Graph)
	})
	elapsed := s.now().Sub(start)
	span.SetAttributes(
		attribute.Int(telemetry.SpanAttrUnits, len(snapshot.Units)),
		attribute.Int(telemetry.SpanAttrEdges, graph.ArcCount()),
	)
	telemetry.EndSpan(span, nil)
	s.metrics.RecordGraphBuild(ctx, elapsed)
	s.logger.Debug("Conversion graph built",
		zap.Uint64("revision", revision),
		zap.Int("units", len(snapshot.Units)),
		zap.Int("arcs", graph.ArcCount()),
		zap.Duration("elapsed", elapsed),
	)

	if cacheable {
		s.mu.Lock()
		s.cache = &cachedGraph{revision: revision, graph: graph, builtAt: start}
		s.mu.Unlock()
	}
	return graph, nil
}

// Resolve returns the factor and path from one unit to another.
// It fails with NO_CONVERSION_PATH when no directed path exists.
func (s *CatalogService) Resolve(ctx context.Context, from, to valueobject.UnitCode) (uom.Resolution, error) {
	graph, err := s.Graph(ctx)
	if err != nil {
		return uom.Resolution{}, err
	}
	res, ok := graph.Resolve(from, to)
	s.metrics.RecordResolve(ctx, ok)
	if !ok {
		s.logger.Debug("No conversion path", zap.String("from", from.String()), zap.String("to", to.String()))
		return uom.Resolution{}, noPathError(from, to)
	}
	return res, nil
}

// Convert expresses quantity (in from) in to, rounded to the target's decimals
func (s *CatalogService) Convert(ctx context.Context, quantity decimal.Decimal, from, to valueobject.UnitCode) (decimal.Decimal, error) {
	graph, err := s.Graph(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	converted, ok := graph.Convert(quantity, from, to)
	s.metrics.RecordResolve(ctx, ok)
	if !ok {
		return decimal.Zero, noPathError(from, to)
	}
	return converted, nil
}

func noPathError(from, to valueobject.UnitCode) error {
	return shared.NewDomainError(shared.CodeNoConversionPath,
		fmt.Sprintf("No conversion path from %s to %s", from, to))
}

// currentRevision reports the catalog revision and whether caching applies
func (s *CatalogService) currentRevision(ctx context.Context) (uint64, bool) {
	if s.revisions == nil {
		return 0, false
	}
	revision, err := s.revisions.Current(ctx)
	if err != nil {
		s.logger.Warn("Failed to read catalog revision, bypassing graph cache", zap.Error(err))
		return 0, false
	}
	return revision, true
}

// invalidate drops the local graph and bumps the shared revision so that
// other instances drop theirs too. A failed bump is retried by Graph.
func (s *CatalogService) invalidate(ctx context.Context) {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()

	if s.revisions == nil {
		return
	}
	if _, err := s.revisions.Bump(ctx); err != nil {
		s.pendingBump.Store(true)
		s.logger.Error("Failed to bump catalog revision, retrying on next read", zap.Error(err))
	}
}

func (s *CatalogService) retryBump(ctx context.Context) {
	revision, err := s.revisions.Bump(ctx)
	if err != nil {
		s.logger.Warn("Catalog revision bump still failing", zap.Error(err))
		return
	}
	s.pendingBump.Store(false)
	s.logger.Info("Pending catalog revision bump applied", zap.Uint64("revision", revision))
}

func (s *CatalogService) logMutationError(msg, subject string, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		s.logger.Warn(msg, zap.String("subject", subject), zap.String("code", domainErr.Code), zap.String("reason", domainErr.Message))
		return
	}
	s.logger.Error(msg, zap.String("subject", subject), zap.Error(err))
}

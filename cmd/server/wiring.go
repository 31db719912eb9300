package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/uom/internal/domain/catalog"
	"github.com/erp/uom/internal/domain/pricing"
	"github.com/erp/uom/internal/domain/uom"
	"github.com/erp/uom/internal/infrastructure/config"
	"github.com/erp/uom/internal/infrastructure/logger"
	"github.com/erp/uom/internal/infrastructure/persistence"
	"github.com/erp/uom/internal/infrastructure/persistence/memstore"
	"github.com/erp/uom/internal/infrastructure/storage"
	"github.com/erp/uom/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// stores groups the repositories behind the configured driver
type stores struct {
	catalog   uom.CatalogStore
	products  catalog.ProductRepository
	packaging catalog.PackagingRepository
	tiers     pricing.TierRepository

	db        *persistence.Database // nil for the memory driver
	dbMetrics *telemetry.DBMetrics
}

func openStores(cfg *config.Config, log *zap.Logger, tel *telemetryStack) (*stores, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("Using in-memory store; data is lost on restart")
		mem := memstore.New()
		return &stores{
			catalog:   mem,
			products:  mem.Products(),
			packaging: mem.Packaging(),
			tiers:     mem.Tiers(),
		}, nil
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.SlowQueryThreshold))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		return nil, err
	}
	st := &stores{
		catalog:   persistence.NewGormCatalogStore(db.DB),
		products:  persistence.NewGormProductRepository(db.DB),
		packaging: persistence.NewGormPackagingRepository(db.DB),
		tiers:     persistence.NewGormPriceTierRepository(db.DB),
		db:        db,
	}

	// Postgres schemas come from cmd/migrate
	if db.Driver() == config.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			st.close(log)
			return nil, err
		}
	}

	tracing := telemetry.DefaultDBTracingConfig()
	tracing.Enabled = cfg.Telemetry.TracingEnabled
	tracing.DBSystem = dbSystem(db.Driver())
	tracing.SlowQueryThreshold = cfg.Telemetry.SlowQueryThreshold
	if err := telemetry.EnableDBTracing(db.DB, tracing, tel.tracer.Provider(), log); err != nil {
		st.close(log)
		return nil, fmt.Errorf("failed to enable database tracing: %w", err)
	}

	if tel.meter.IsEnabled() {
		sqlDB, err := db.DB.DB()
		if err != nil {
			st.close(log)
			return nil, err
		}
		st.dbMetrics, err = telemetry.NewDBMetrics(tel.meter.Meter(telemetry.MeterName), sqlDB, log)
		if err == nil {
			err = st.dbMetrics.Instrument(db.DB)
		}
		if err != nil {
			st.close(log)
			return nil, fmt.Errorf("failed to instrument database: %w", err)
		}
	}

	log.Info("Database connected", zap.String("driver", db.Driver()))
	return st, nil
}

func (s *stores) close(log *zap.Logger) {
	if s.dbMetrics != nil {
		s.dbMetrics.Stop()
	}
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
}

func dbSystem(driver string) string {
	if driver == config.DriverPostgres {
		return "postgresql"
	}
	return driver
}

// newReportArchive returns nil when report storage is disabled. A bucket
// that cannot be created yet is logged; uploads retry on every run.
func newReportArchive(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (*storage.ReportArchive, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	s3, err := storage.NewS3ObjectStorage(cfg, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Warn("Report bucket is not ready", zap.String("bucket", s3.Bucket()), zap.Error(err))
	}
	log.Info("Health reports archived to object storage",
		zap.String("bucket", s3.Bucket()),
		zap.String("prefix", cfg.Prefix),
	)
	return storage.NewReportArchive(s3, cfg.Prefix, log), nil
}

// telemetryStack holds the OpenTelemetry providers and the engine
// instruments built on them
type telemetryStack struct {
	tracer   *telemetry.TracerProvider
	meter    *telemetry.MeterProvider
	logs     *telemetry.LoggerProvider
	profiler *telemetry.Profiler
	engine   *telemetry.EngineMetrics
	logger   *zap.Logger
}

func setupTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*telemetryStack, error) {
	t := cfg.Telemetry

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           t.TracingEnabled,
		CollectorEndpoint: t.CollectorEndpoint,
		SamplingRatio:     t.SamplingRatio,
		ServiceName:       t.ServiceName,
		ServiceVersion:    version,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}

	meter, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           t.Enabled,
		CollectorEndpoint: t.CollectorEndpoint,
		ExportInterval:    t.ExportInterval,
		ServiceName:       t.ServiceName,
		ServiceVersion:    version,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}

	logs, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           t.LogsEnabled,
		CollectorEndpoint: t.CollectorEndpoint,
		ServiceName:       t.ServiceName,
		ServiceVersion:    version,
		Insecure:          t.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         t.ProfilingEnabled,
		ServerAddress:   t.ProfilerAddress,
		ApplicationName: t.ServiceName,
	}, log)
	if err != nil {
		return nil, err
	}
	if profiler.IsEnabled() {
		tracer.EnableSpanProfiles()
	}

	stack := &telemetryStack{tracer: tracer, meter: meter, logs: logs, profiler: profiler, logger: log}
	if logs.IsEnabled() {
		stack.logger = logs.Bridge(log, logger.ParseLevel(cfg.Log.Level))
	}

	if meter.IsEnabled() {
		stack.engine, err = telemetry.NewEngineMetrics(telemetry.EngineMetricsConfig{
			Meter:  meter.Meter(telemetry.MeterName),
			Logger: log,
		})
		if err != nil {
			return nil, err
		}
	}
	return stack, nil
}

func (t *telemetryStack) shutdown(ctx context.Context, log *zap.Logger) {
	err := errors.Join(
		t.meter.Shutdown(ctx),
		t.tracer.Shutdown(ctx),
		t.logs.Shutdown(ctx),
		t.profiler.Stop(),
	)
	if err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}
}

package telemetry

import (
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig configures spans for GORM statements
type DBTracingConfig struct {
	Enabled            bool
	DBSystem           string        // "postgresql" or "sqlite"
	IncludeVariables   bool          // bind values in db.statement; never in production
	SlowQueryThreshold time.Duration // 0 disables slow query marking
}

// DefaultDBTracingConfig returns the defaults used by the server
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		DBSystem:           "postgresql",
		SlowQueryThreshold: 200 * time.Millisecond,
	}
}

const slowQueryStartKey = "telemetry:query_start"

// EnableDBTracing installs the otelgorm plugin on db. Slow statements get a
// db.slow_query attribute on the active span and a warning log line.
// A nil provider means the global one.
func EnableDBTracing(db *gorm.DB, cfg DBTracingConfig, provider trace.TracerProvider, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if provider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(provider))
	}
	if !cfg.IncludeVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	// Slow query hooks go first so their after-callback runs while the
	// statement span is still open.
	if cfg.SlowQueryThreshold > 0 {
		if err := registerSlowQueryCallbacks(db, cfg.SlowQueryThreshold, logger); err != nil {
			return err
		}
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return nil
}

func registerSlowQueryCallbacks(db *gorm.DB, threshold time.Duration, logger *zap.Logger) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(slowQueryStartKey, time.Now())
	}
	after := func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(slowQueryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		if elapsed < threshold {
			return
		}
		if span := trace.SpanFromContext(tx.Statement.Context); span.IsRecording() {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
			)
		}
		logger.Warn("Slow query",
			zap.String("table", tx.Statement.Table),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", threshold),
		)
	}

	cb := db.Callback()
	steps := []struct {
		name      string
		before    func(string) callbackRegistrar
		after     func(string) callbackRegistrar
		gormPoint string
	}{
		{"create", func(p string) callbackRegistrar { return cb.Create().Before(p) }, func(p string) callbackRegistrar { return cb.Create().After(p) }, "gorm:create"},
		{"query", func(p string) callbackRegistrar { return cb.Query().Before(p) }, func(p string) callbackRegistrar { return cb.Query().After(p) }, "gorm:query"},
		{"update", func(p string) callbackRegistrar { return cb.Update().Before(p) }, func(p string) callbackRegistrar { return cb.Update().After(p) }, "gorm:update"},
		{"delete", func(p string) callbackRegistrar { return cb.Delete().Before(p) }, func(p string) callbackRegistrar { return cb.Delete().After(p) }, "gorm:delete"},
		{"raw", func(p string) callbackRegistrar { return cb.Raw().Before(p) }, func(p string) callbackRegistrar { return cb.Raw().After(p) }, "gorm:raw"},
	}
	for _, s := range steps {
		if err := s.before(s.gormPoint).Register("telemetry:slow_before_"+s.name, before); err != nil {
			return err
		}
		if err := s.after(s.gormPoint).Register("telemetry:slow_after_"+s.name, after); err != nil {
			return err
		}
	}
	return nil
}

// callbackRegistrar is the subset of gorm's callback builder used above
type callbackRegistrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

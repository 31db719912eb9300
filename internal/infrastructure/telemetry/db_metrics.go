package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Attribute keys used by database metrics
var (
	AttrDBOperation = attribute.Key("db.operation")
	AttrDBTable     = attribute.Key("db.table")
	AttrPoolState   = attribute.Key("state")
)

// DBMetrics records GORM statement counts and latency, and observes the
// connection pool on every collection.
type DBMetrics struct {
	logger        *zap.Logger
	queryTotal    *Counter
	queryErrors   *Counter
	queryDuration *Histogram
	registration  metric.Registration
}

// NewDBMetrics creates the statement instruments and registers pool gauges
// over sqlDB. sqlDB may be nil, in which case no pool gauges are observed.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	queryTotal, err := NewCounter(meter, "db_query_total", "Database statements by operation", "{query}")
	if err != nil {
		return nil, err
	}
	queryErrors, err := NewCounter(meter, "db_query_errors_total", "Failed database statements by operation", "{query}")
	if err != nil {
		return nil, err
	}
	queryDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	m := &DBMetrics{
		logger:        logger,
		queryTotal:    queryTotal,
		queryErrors:   queryErrors,
		queryDuration: queryDuration,
	}
	if sqlDB != nil {
		if err := m.observePool(meter, sqlDB); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *DBMetrics) observePool(meter metric.Meter, sqlDB *sql.DB) error {
	connections, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	maxOpen, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum open connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Connections waited for"),
		metric.WithUnit("{wait}"))
	if err != nil {
		return err
	}

	m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(connections, int64(stats.InUse), metric.WithAttributes(AttrPoolState.String("in_use")))
		o.ObserveInt64(connections, int64(stats.Idle), metric.WithAttributes(AttrPoolState.String("idle")))
		o.ObserveInt64(maxOpen, int64(stats.MaxOpenConnections))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, connections, maxOpen, waits)
	return err
}

const queryStartKey = "telemetry:metrics_start"

// Instrument registers callbacks on db that record every statement
func (m *DBMetrics) Instrument(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op     string
		before callbackRegistrar
		after  callbackRegistrar
	}{
		{"create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create")},
		{"query", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query")},
		{"update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update")},
		{"delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete")},
		{"raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw")},
	}
	for _, h := range hooks {
		op := h.op
		if err := h.before.Register("telemetry:metrics_before_"+op, func(tx *gorm.DB) {
			tx.InstanceSet(queryStartKey, time.Now())
		}); err != nil {
			return err
		}
		if err := h.after.Register("telemetry:metrics_after_"+op, func(tx *gorm.DB) {
			m.record(tx, op)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (m *DBMetrics) record(tx *gorm.DB, op string) {
	ctx := tx.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	attrs := []attribute.KeyValue{AttrDBOperation.String(op), AttrDBTable.String(tx.Statement.Table)}

	m.queryTotal.Inc(ctx, attrs...)
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		m.queryErrors.Inc(ctx, attrs...)
	}
	if v, ok := tx.InstanceGet(queryStartKey); ok {
		if start, ok := v.(time.Time); ok {
			m.queryDuration.RecordDuration(ctx, time.Since(start), attrs...)
		}
	}
}

// Stop unregisters the pool callback
func (m *DBMetrics) Stop() {
	if m.registration == nil {
		return
	}
	if err := m.registration.Unregister(); err != nil {
		m.logger.Warn("Failed to unregister pool metrics", zap.Error(err))
	}
	m.registration = nil
}

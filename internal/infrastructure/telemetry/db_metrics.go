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

// Attribute keys for database metrics
var (
	AttrDBState     = attribute.Key("state")
	AttrDBOperation = attribute.Key("operation")
	AttrDBTable     = attribute.Key("table")
)

// DBDurationBuckets are bucket boundaries for query latency (seconds).
var DBDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

const dbMetricsStartKey contextKey = "db_metrics_start_time"

// DBMetrics observes connection pool usage and counts queries per operation.
type DBMetrics struct {
	queryTotal    *Counter
	queryErrors   *Counter
	queryDuration *Histogram
	registration  metric.Registration
	logger        *zap.Logger
}

// NewDBMetrics creates the instruments and registers a pool stats callback on sqlDB.
// Pool gauges are read at collection time.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	queryTotal, err := NewCounter(meter, "pidreg_db_query_total", "Total number of database queries by operation", "{query}")
	if err != nil {
		return nil, err
	}
	queryErrors, err := NewCounter(meter, "pidreg_db_query_errors_total", "Database queries that returned an error", "{query}")
	if err != nil {
		return nil, err
	}
	queryDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "pidreg_db_query_duration_seconds",
		Description: "Database query latency distribution in seconds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	connections, err := meter.Int64ObservableGauge("pidreg_db_pool_connections",
		metric.WithDescription("Number of connections in the pool by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}
	maxOpen, err := meter.Int64ObservableGauge("pidreg_db_pool_connections_max",
		metric.WithDescription("Maximum number of open connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(maxOpen, int64(stats.MaxOpenConnections))
		o.ObserveInt64(connections, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(connections, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(connections, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		return nil
	}, connections, maxOpen)
	if err != nil {
		return nil, err
	}

	return &DBMetrics{
		queryTotal:    queryTotal,
		queryErrors:   queryErrors,
		queryDuration: queryDuration,
		registration:  reg,
		logger:        logger,
	}, nil
}

// RecordQuery records one finished query.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, d time.Duration, err error) {
	attrs := []attribute.KeyValue{AttrDBOperation.String(operation)}
	if table != "" {
		attrs = append(attrs, AttrDBTable.String(table))
	}
	m.queryTotal.Inc(ctx, attrs...)
	m.queryDuration.RecordDuration(ctx, d, attrs...)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		m.queryErrors.Inc(ctx, attrs...)
	}
}

// Stop unregisters the pool stats callback. Safe to call more than once.
func (m *DBMetrics) Stop() error {
	if m == nil || m.registration == nil {
		return nil
	}
	err := m.registration.Unregister()
	m.registration = nil
	return err
}

// Name implements gorm.Plugin.
func (m *DBMetrics) Name() string {
	return "pidreg:db_metrics"
}

// Initialize implements gorm.Plugin by timing create, query, update, delete and raw statements.
func (m *DBMetrics) Initialize(db *gorm.DB) error {
	before := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, dbMetricsStartKey, time.Now())
		}
	}
	after := func(operation string) func(*gorm.DB) {
		return func(db *gorm.DB) {
			ctx := db.Statement.Context
			if ctx == nil {
				return
			}
			start, ok := ctx.Value(dbMetricsStartKey).(time.Time)
			if !ok {
				return
			}
			m.RecordQuery(ctx, operation, db.Statement.Table, time.Since(start), db.Error)
		}
	}

	cb := db.Callback()
	for _, reg := range []error{
		cb.Create().Before("gorm:create").Register("db_metrics:before_create", before),
		cb.Query().Before("gorm:query").Register("db_metrics:before_query", before),
		cb.Update().Before("gorm:update").Register("db_metrics:before_update", before),
		cb.Delete().Before("gorm:delete").Register("db_metrics:before_delete", before),
		cb.Raw().Before("gorm:raw").Register("db_metrics:before_raw", before),
		cb.Create().After("gorm:create").Register("db_metrics:after_create", after("insert")),
		cb.Query().After("gorm:query").Register("db_metrics:after_query", after("select")),
		cb.Update().After("gorm:update").Register("db_metrics:after_update", after("update")),
		cb.Delete().After("gorm:delete").Register("db_metrics:after_delete", after("delete")),
		cb.Raw().After("gorm:raw").Register("db_metrics:after_raw", after("raw")),
	} {
		if reg != nil {
			return reg
		}
	}
	return nil
}

// RegisterDBMetrics attaches DBMetrics to db. It returns nil when the meter
// provider is missing or disabled.
func RegisterDBMetrics(db *gorm.DB, mp *MeterProvider, logger *zap.Logger) (*DBMetrics, error) {
	if mp == nil || !mp.IsEnabled() {
		return nil, nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	m, err := NewDBMetrics(mp.Meter("pidreg.db"), sqlDB, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Use(m); err != nil {
		_ = m.Stop()
		return nil, err
	}
	m.logger.Info("Database metrics registered")
	return m, nil
}

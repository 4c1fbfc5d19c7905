package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func collectDBMetrics(t *testing.T, reader sdkmetric.Reader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewDBMetrics_NilMeter(t *testing.T) {
	_, err := NewDBMetrics(nil, nil, nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestDBMetrics_RecordsQueriesAndPool(t *testing.T) {
	db := setupTracedDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewDBMetrics(provider.Meter("test"), sqlDB, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, db.Use(m))

	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "a"}).Error)
	var row tracedRow
	require.NoError(t, db.WithContext(ctx).First(&row).Error)
	assert.ErrorIs(t, db.WithContext(ctx).First(&row, 999).Error, gorm.ErrRecordNotFound)

	got := collectDBMetrics(t, reader)

	total, ok := got["pidreg_db_query_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[string]int64{}
	for _, dp := range total.DataPoints {
		op, _ := dp.Attributes.Value(AttrDBOperation)
		counts[op.AsString()] += dp.Value
	}
	assert.Equal(t, int64(1), counts["insert"])
	assert.Equal(t, int64(2), counts["select"])

	_, hasErrors := got["pidreg_db_query_errors_total"]
	assert.False(t, hasErrors, "record not found is not a query error")

	pool, ok := got["pidreg_db_pool_connections"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, pool.DataPoints, 3)
	_, ok = got["pidreg_db_pool_connections_max"]
	assert.True(t, ok)

	require.NoError(t, m.Stop())
	require.NoError(t, m.Stop())
}

func TestRegisterDBMetrics_DisabledProvider(t *testing.T) {
	db := setupTracedDB(t)

	m, err := RegisterDBMetrics(db, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.NoError(t, m.Stop())
}

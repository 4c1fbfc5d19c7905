// Package bootstrap wires configuration into the services shared by the server and handlectl.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	handleapp "github.com/catalog/pidreg/internal/application/handle"
	"github.com/catalog/pidreg/internal/infrastructure/cache"
	"github.com/catalog/pidreg/internal/infrastructure/config"
	"github.com/catalog/pidreg/internal/infrastructure/logger"
	"github.com/catalog/pidreg/internal/infrastructure/persistence"
	"github.com/catalog/pidreg/internal/infrastructure/registry"
	"github.com/catalog/pidreg/internal/infrastructure/telemetry"
	"github.com/catalog/pidreg/internal/infrastructure/transform"
	"go.uber.org/zap"
)

// App holds the wired services and everything that must be closed on exit
type App struct {
	Config   *config.Config
	DB       *persistence.Database
	Tracer   *telemetry.TracerProvider
	Meter    *telemetry.MeterProvider
	Logs     *telemetry.LoggerProvider
	Profiler *telemetry.Profiler
	Guard    cache.Guard
	Handles  *handleapp.HandleService
	Servers  *handleapp.RegistryServerService
	Records  *handleapp.RecordService

	dbMetrics *telemetry.DBMetrics
	logger    *zap.Logger
}

// New starts telemetry, connects to the database and the guard backend, then
// builds the application services. Close must be called on the returned App.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (app *App, err error) {
	app = &App{Config: cfg, logger: log}
	defer func() {
		if err != nil {
			app.Close(context.Background())
			app = nil
		}
	}()

	app.Tracer, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return app, fmt.Errorf("tracing: %w", err)
	}

	app.Meter, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return app, fmt.Errorf("metrics: %w", err)
	}

	app.Logs, err = telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return app, fmt.Errorf("logs: %w", err)
	}
	log = app.Logs.Bridge(log, logger.ParseLevel(cfg.Log.Level))
	app.logger = log

	app.Profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		return app, fmt.Errorf("profiling: %w", err)
	}
	if app.Profiler.IsEnabled() {
		app.Tracer.EnableSpanProfiles()
	}

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		dbTracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
	}

	app.DB, err = persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(log, logger.GormLevel(cfg.Log.Level)),
		persistence.WithTracing(dbTracing),
	)
	if err != nil {
		return app, err
	}
	if app.DB.Driver() == config.DriverSQLite {
		if err = app.DB.AutoMigrate(); err != nil {
			return app, fmt.Errorf("failed to create sqlite schema: %w", err)
		}
	}
	log.Info("Database connected", zap.String("driver", app.DB.Driver()))

	app.dbMetrics, err = telemetry.RegisterDBMetrics(app.DB.DB, app.Meter, log)
	if err != nil {
		return app, fmt.Errorf("database metrics: %w", err)
	}

	metrics, err := telemetry.NewHandleMetrics(app.Meter.Meter("pidreg.handle"))
	if err != nil {
		return app, fmt.Errorf("handle metrics: %w", err)
	}

	client, err := registry.NewClient(registry.Config{
		Timeout:         cfg.Registry.Timeout,
		MaxResponseSize: cfg.Registry.MaxResponseSize,
		UserAgent:       cfg.App.Name + "/" + telemetry.ServiceVersion,
	}, log.Named("registry"), registry.WithObserver(metrics))
	if err != nil {
		return app, fmt.Errorf("registry client: %w", err)
	}

	app.Guard, err = cache.NewRegistrationGuard(ctx, cfg.Registry, cfg.Redis, log)
	if err != nil {
		return app, fmt.Errorf("registration guard: %w", err)
	}

	records := persistence.NewGormRecordRepository(app.DB.DB)
	servers := persistence.NewGormRegistryServerRepository(app.DB.DB)
	transformer := transform.NewTransformer(log.Named("transform"))

	opts := []handleapp.Option{
		handleapp.WithMetrics(metrics),
		handleapp.WithLogger(log.Named("handle")),
	}
	if app.Guard != nil {
		opts = append(opts, handleapp.WithGuard(app.Guard, cfg.Registry.GuardTTL))
	}

	app.Handles = handleapp.NewHandleService(client, transformer, records, servers, cfg.Registry.NodeURL, opts...)
	app.Servers = handleapp.NewRegistryServerService(servers, records)
	app.Records = handleapp.NewRecordService(records, transformer)
	return app, nil
}

// Logger returns the service logger, bridged to OTLP when log export is enabled
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Close releases the guard, the database and flushes telemetry. It is safe on a
// partially built App.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Guard != nil {
		errs = append(errs, a.Guard.Close())
	}
	errs = append(errs, a.dbMetrics.Stop())
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Profiler != nil {
		errs = append(errs, a.Profiler.Stop())
	}
	if a.Meter != nil {
		errs = append(errs, a.Meter.Shutdown(ctx))
	}
	if a.Logs != nil {
		errs = append(errs, a.Logs.Shutdown(ctx))
	}
	if a.Tracer != nil {
		errs = append(errs, a.Tracer.Shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("Error during shutdown", zap.Error(err))
		return err
	}
	return nil
}

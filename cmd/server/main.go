package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amortizationapp "github.com/erp/docengine/internal/application/amortization"
	numberingapp "github.com/erp/docengine/internal/application/numbering"
	"github.com/erp/docengine/internal/domain/amortization"
	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/erp/docengine/internal/domain/shared"
	"github.com/erp/docengine/internal/infrastructure/cache"
	"github.com/erp/docengine/internal/infrastructure/config"
	"github.com/erp/docengine/internal/infrastructure/event"
	"github.com/erp/docengine/internal/infrastructure/logger"
	"github.com/erp/docengine/internal/infrastructure/persistence"
	"github.com/erp/docengine/internal/infrastructure/telemetry"
	"github.com/erp/docengine/internal/interfaces/http/handler"
	"github.com/erp/docengine/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// The OTLP log bridge must exist before the zap logger so every entry
	// reaches both sinks.
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	})
	if err != nil {
		panic("Failed to initialize log exporter: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	var log *zap.Logger
	if logProvider.IsEnabled() {
		log, err = logger.New(logCfg, logProvider.Core(logger.ParseLevel(cfg.Log.Level)))
	} else {
		log, err = logger.New(logCfg)
	}
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting document engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
		zap.String("sequence_backend", cfg.Numbering.SequenceBackend),
		zap.String("template_cache", cfg.Numbering.TemplateCache),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	var engineMetrics *telemetry.EngineMetrics
	if meterProvider.IsEnabled() {
		engineMetrics, err = telemetry.NewEngineMetrics(meterProvider.Meter(telemetry.TracerName))
		if err != nil {
			log.Warn("Engine metrics disabled", zap.Error(err))
		}
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.GormLevel),
		logger.WithSlowThreshold(200*time.Millisecond))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
	}, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis is only dialed when a component is configured to use it.
	var redisClient redis.UniversalClient
	if needsRedis(cfg) {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		redisClient = client
		log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
	}

	// Numbering
	var sequences numbering.SequenceStore
	switch cfg.Numbering.SequenceBackend {
	case config.SequenceBackendRedis:
		sequences = persistence.NewRedisSequenceStore(redisClient)
	default:
		sequences = persistence.NewGormSequenceStore(db.DB)
	}

	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	var templates numbering.TemplateRepository = templateRepo
	templateCache, err := cache.NewTemplateCache(cfg.Numbering, redisClient, log)
	if err != nil {
		log.Fatal("Failed to initialize template cache", zap.Error(err))
	}
	if templateCache != nil {
		templates = cache.NewCachedTemplateRepository(templateRepo, templateCache)
		if closer, ok := templateCache.(interface{ Close() error }); ok {
			defer func() { _ = closer.Close() }()
		}
	}

	numberingService := numberingapp.NewNumberingService(templates, sequences, cfg.Numbering.SequenceBackend)
	numberingService.SetMetrics(engineMetrics)
	templateService := numberingapp.NewTemplateService(templates)

	// Amortization
	recalculationService := amortizationapp.NewRecalculationService(
		persistence.NewGormTransactionScope(db.DB),
		amortization.NewPlanner(cfg.Amortization.CurrencyScale),
		cfg.Amortization.DefaultActor,
	)
	recalculationService.SetMetrics(engineMetrics)

	// Events
	eventBus := event.NewInMemoryEventBus(log)
	templateService.SetEventPublisher(eventBus)
	if templateCache != nil {
		eventBus.Subscribe(cache.NewTemplateInvalidationHandler(templateCache, log))
	}

	idempotencyStore, err := cache.NewIdempotencyStore(cfg.Events, redisClient)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() { _ = idempotencyStore.Close() }()
	goodsReceived := event.NewIdempotentHandler(
		amortizationapp.NewGoodsReceivedHandler(recalculationService, log),
		idempotencyStore,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{
			TTL:     cfg.Events.IdempotencyTTL,
			Enabled: cfg.Events.IdempotencyEnabled,
		}),
	)
	eventBus.Subscribe(goodsReceived)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// HTTP
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version).
		AddCheck("database", func(context.Context) error { return db.Ping() })
	if redisClient != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}

	engine := router.NewEngine(router.Options{
		ServiceName:   cfg.Telemetry.ServiceName,
		HTTP:          cfg.HTTP,
		Tracing:       tracerProvider.IsEnabled(),
		MeterProvider: meterProvider,
		Logger:        log,
	}, router.Handlers{
		Numbering:    handler.NewNumberingHandler(numberingService, templateService),
		Amortization: handler.NewAmortizationHandler(recalculationService, eventBus),
		System:       systemHandler,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	stats := goodsReceived.Stats()
	log.Info("Goods-received delivery stats",
		zap.Int64("processed", stats.Processed),
		zap.Int64("duplicates", stats.Duplicates),
		zap.Int64("failed", stats.Failed),
	)

	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := logProvider.Shutdown(shutdownCtx, log); err != nil {
		log.Error("Error shutting down log provider", zap.Error(err))
	}
}

// needsRedis reports whether any configured component is backed by Redis
func needsRedis(cfg *config.Config) bool {
	return cfg.Numbering.SequenceBackend == config.SequenceBackendRedis ||
		cfg.Numbering.TemplateCache == config.TemplateCacheRedis ||
		(cfg.Events.IdempotencyEnabled && cfg.Events.IdempotencyStore == config.IdempotencyStoreRedis)
}

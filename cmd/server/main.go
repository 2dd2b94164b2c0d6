package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	appevent "github.com/wallet/withdrawal/internal/application/event"
	appwallet "github.com/wallet/withdrawal/internal/application/wallet"
	"github.com/wallet/withdrawal/internal/infrastructure/config"
	"github.com/wallet/withdrawal/internal/infrastructure/event"
	"github.com/wallet/withdrawal/internal/infrastructure/lock"
	"github.com/wallet/withdrawal/internal/infrastructure/logger"
	"github.com/wallet/withdrawal/internal/infrastructure/persistence"
	"github.com/wallet/withdrawal/internal/infrastructure/storage"
	"github.com/wallet/withdrawal/internal/infrastructure/telemetry"
	"github.com/wallet/withdrawal/internal/interfaces/http/handler"
	"github.com/wallet/withdrawal/internal/interfaces/http/router"

	_ "github.com/wallet/withdrawal/docs"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Wallet Withdrawal API
//	@version		1.0
//	@description	Idempotent withdrawals with per-wallet locking and a transactional outbox

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	// Telemetry: logs first so later startup messages are exported too
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	if logProvider.IsEnabled() {
		log = telemetry.BridgeLogger(log, telemetry.NewZapOTELCore(serviceName, logProvider, logger.ParseLevel(cfg.Log.Level)))
	}

	log.Info("Starting wallet withdrawal service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Profiling.Enabled,
		ServerAddress:   cfg.Profiling.ServerAddress,
		ApplicationName: serviceName,
		ProfileMutex:    true,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.Enabled && cfg.Profiling.SpanProfiles {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles not enabled", zap.Error(err))
		}
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
		if err := logProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down log provider", zap.Error(err))
		}
	}()

	// Database
	dbOpts := []persistence.DatabaseOption{
		persistence.WithGormLogger(logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))),
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbSystem := "postgresql"
		if cfg.Database.Driver == config.DriverSQLite {
			dbSystem = "sqlite"
		}
		dbOpts = append(dbOpts, persistence.WithPlugins(telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        dbSystem,
		}, log)))
	}
	db, err := persistence.NewDatabase(&cfg.Database, dbOpts...)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver()))

	if db.Driver() == config.DriverSQLite {
		// sqlite is for local runs; postgres schemas are owned by cmd/migrate
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	if meterProvider.IsEnabled() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			if _, err := telemetry.RegisterDBPoolMetrics(meterProvider.Meter(serviceName), sqlDB); err != nil {
				log.Warn("Failed to register db pool metrics", zap.Error(err))
			}
		}
	}

	// Account locks
	lockFactory := lock.NewFactory(cfg.Lock, cfg.Redis, lock.WithLogger(log))
	locker, err := lockFactory.Create(ctx)
	if err != nil {
		log.Fatal("Failed to create account locker", zap.Error(err))
	}
	defer func() {
		if err := lockFactory.Close(); err != nil {
			log.Error("Error closing lock backend", zap.Error(err))
		}
	}()

	// Events
	serializer := event.NewWalletEventSerializer()
	outboxPublisher := event.NewOutboxPublisher(serializer).WithMaxRetries(cfg.Event.MaxRetries)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	metrics := telemetry.NewWalletMetrics("wallet")

	eventBus := event.NewEventBus(cfg, serializer, log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	if cfg.Event.ProcessorEnabled {
		processor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, event.OutboxProcessorConfigFrom(cfg.Event), log)
		processor.SetObserver(metrics)
		if err := processor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := processor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
	}

	// Application services
	accounts := persistence.NewGormAccountRepository(db.DB)
	ledger := persistence.NewGormLedgerRepository(db.DB)

	withdrawals := appwallet.NewWithdrawalService(appwallet.WithdrawalServiceConfig{
		Accounts:   accounts,
		Ledger:     ledger,
		UnitOfWork: persistence.NewGormUnitOfWork(db.DB, outboxPublisher),
		Locker:     locker,
		Metrics:    metrics,
		Logger:     log,
	})

	var archive appwallet.StatementArchive
	if cfg.Storage.Enabled {
		s3Archive, err := storage.NewS3StatementArchive(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create statement archive", zap.Error(err))
		}
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare statement bucket", zap.Error(err), zap.String("bucket", s3Archive.Bucket()))
		}
		archive = s3Archive
	}
	statements := appwallet.NewStatementService(accounts, ledger, archive, cfg.Storage.PresignExpiry, log)

	engine, stopEngine, err := router.NewEngine(router.EngineConfig{
		ServiceName:      serviceName,
		HTTP:             cfg.HTTP,
		Swagger:          cfg.Swagger,
		Logger:           log,
		TracingEnabled:   cfg.Telemetry.Enabled,
		ProfilingEnabled: cfg.Profiling.Enabled,
		Metrics:          metrics,
		MetricsHandler:   metrics.Handler(),
		Wallet:           handler.NewWalletHandler(withdrawals, statements),
		Outbox:           handler.NewOutboxHandler(appevent.NewOutboxService(outboxRepo, log)),
		System: handler.NewSystemHandler(cfg.App.Name, version, map[string]handler.HealthCheck{
			"database": db.Ping,
			"lock":     lockFactory.Ping,
		}),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}
	defer stopEngine()

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

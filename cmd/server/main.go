package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/debtbook/backend/docs"
	appledger "github.com/debtbook/backend/internal/application/ledger"
	"github.com/debtbook/backend/internal/infrastructure/auth"
	"github.com/debtbook/backend/internal/infrastructure/cache"
	"github.com/debtbook/backend/internal/infrastructure/config"
	"github.com/debtbook/backend/internal/infrastructure/event"
	"github.com/debtbook/backend/internal/infrastructure/logger"
	"github.com/debtbook/backend/internal/infrastructure/persistence"
	"github.com/debtbook/backend/internal/infrastructure/storage"
	"github.com/debtbook/backend/internal/infrastructure/telemetry"
	"github.com/debtbook/backend/internal/interfaces/http/handler"
	"github.com/debtbook/backend/internal/interfaces/http/middleware"
	"github.com/debtbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

// @title           Debtbook API
// @version         1.0
// @description     Debt bookkeeping for small sellers: clients, debts and payments scoped to a company.
// @description     Amounts are decimal strings with two fractional digits. Dates use YYYY-MM-DD.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if err := run(cfg); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The log provider must exist before the logger so the OTLP core can be teed in
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, nil)
	if err != nil {
		panic("Failed to initialize log exporter: " + err.Error())
	}
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, telemetry.NewZapOTELCore(logProvider, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()
	logProvider.SetLogger(log)

	log.Info("Starting Debtbook backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if err := serve(ctx, cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		shutdownTelemetry(log, logProvider)
		return err
	}
	shutdownTelemetry(log, logProvider)
	log.Info("Server exited gracefully")
	return nil
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(log, tracerProvider)

	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(log, meterProvider)

	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Warn("Failed to stop profiler", zap.Error(err))
		}
	}()
	if cfg.Profiling.Enabled && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	database, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", database.Driver()))

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(); err != nil {
			return err
		}
		log.Info("Schema migrated with GORM")
	}
	if err := telemetry.RegisterDBTracing(database.DB, cfg.Telemetry, database.Driver(), log); err != nil {
		return err
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(database.DB, meterProvider, cfg.Telemetry.DBSlowQueryThresh, log)
	if err != nil {
		return err
	}
	defer func() { _ = dbMetrics.Stop() }()

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = idempotencyStore.Close() }()

	healthOpts := []handler.HealthOption{handler.WithCheck("database", database.Ping)}
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisStore, ok := idempotencyStore.(*cache.RedisIdempotencyStore); ok {
		blacklist = auth.NewRedisTokenBlacklist(redisStore.Client())
		healthOpts = append(healthOpts, handler.WithCheck("redis", redisStore.Ping))
	}

	clock := time.Now
	location := cfg.Location()

	ledgerMetrics, err := telemetry.NewLedgerMetrics(telemetry.LedgerMetricsConfig{
		Meter:         meterProvider.Meter("debtbook/ledger"),
		Logger:        log,
		StatsProvider: telemetry.NewGormLedgerStatsProvider(database.DB),
		Clock:         clock,
		Location:      location,
	})
	if err != nil {
		return err
	}
	defer func() { _ = ledgerMetrics.Stop() }()

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	eventBus.Subscribe(ledgerMetrics)
	if err := eventBus.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = eventBus.Stop(context.Background()) }()

	db := database.DB
	clientRepo := persistence.NewGormClientRepository(db)
	debtRepo := persistence.NewGormDebtRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	txScope := persistence.NewGormTransactionScope(db)
	guard := appledger.NewAccessScopeGuard()

	serviceOpts := []appledger.Option{
		appledger.WithClock(clock),
		appledger.WithLocation(location),
		appledger.WithLogger(log),
		appledger.WithEventPublisher(eventBus),
		appledger.WithDefaultDueDays(cfg.Ledger.DefaultDueDays),
		appledger.WithListBatchSize(cfg.Ledger.ListBatchSize),
		appledger.WithIdempotencyStore(idempotencyStore, cfg.Ledger.IdempotencyTTL),
		appledger.WithRejectionRecorder(ledgerMetrics),
	}
	clientService := appledger.NewClientService(clientRepo, debtRepo, txScope, guard, serviceOpts...)
	debtService := appledger.NewDebtService(debtRepo, paymentRepo, txScope, guard, serviceOpts...)
	paymentService := appledger.NewPaymentService(paymentRepo, txScope, guard, serviceOpts...)

	var exportHandler *handler.ExportHandler
	if cfg.Storage.Enabled {
		archive, err := storage.NewS3ExportArchive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return err
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			return err
		}
		healthOpts = append(healthOpts, handler.WithCheck("storage", archive.Ping))
		exportService := appledger.NewExportService(debtService, archive, guard, cfg.Storage.PresignExpiration, serviceOpts...)
		exportHandler = handler.NewExportHandler(exportService)
		log.Info("Export archive enabled", zap.String("bucket", archive.Bucket()))
	}

	if err := middleware.SetupValidator(); err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	}

	engine, err := router.NewEngine(router.Options{
		Config:         cfg,
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		MeterProvider:  meterProvider,
		RateLimiter:    limiter,
	}, router.Handlers{
		Health:   handler.NewHealthHandler(version, healthOpts...),
		Auth:     handler.NewAuthHandler(jwtService, blacklist),
		Clients:  handler.NewClientHandler(clientService),
		Debts:    handler.NewDebtHandler(debtService, paymentService),
		Payments: handler.NewPaymentHandler(paymentService),
		Exports:  exportHandler,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if limiter != nil {
		g.Go(func() error {
			sweepIdleLimiters(gctx, limiter, cfg.HTTP.RateLimitWindow)
			return nil
		})
	}
	return g.Wait()
}

// sweepIdleLimiters periodically drops buckets of clients that went quiet
func sweepIdleLimiters(ctx context.Context, limiter *middleware.RateLimiter, window time.Duration) {
	if window <= 0 {
		window = time.Minute
	}
	ticker := time.NewTicker(window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdownTelemetry(log *zap.Logger, s shutdowner) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Warn("Failed to shut down telemetry provider", zap.Error(err))
	}
}


package router

import (
	"github.com/debtbook/backend/internal/infrastructure/auth"
	"github.com/debtbook/backend/internal/infrastructure/config"
	"github.com/debtbook/backend/internal/infrastructure/logger"
	"github.com/debtbook/backend/internal/infrastructure/telemetry"
	"github.com/debtbook/backend/internal/interfaces/http/handler"
	"github.com/debtbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers are the endpoint handlers the API serves
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Clients  *handler.ClientHandler
	Debts    *handler.DebtHandler
	Payments *handler.PaymentHandler
	// Exports is nil when no object storage is configured
	Exports *handler.ExportHandler
}

// Options carries what the middleware chain needs
type Options struct {
	Config         *config.Config
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	MeterProvider  *telemetry.MeterProvider
	// RateLimiter is shared with the caller so it can sweep idle keys.
	// Nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
}

// NewEngine builds the gin engine with the full middleware chain and every
// route mounted
func NewEngine(opts Options, h Handlers) (*gin.Engine, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if opts.RateLimiter != nil {
		engine.Use(middleware.RateLimit(opts.RateLimiter))
	}
	tracingCfg := middleware.DefaultTracingConfig(cfg.Telemetry.ServiceName)
	tracingCfg.Enabled = cfg.Telemetry.Enabled
	engine.Use(
		middleware.Tracing(tracingCfg),
		middleware.HTTPMetrics(opts.MeterProvider, log),
	)

	security := middleware.DefaultSecurityConfig()
	security.IsDevelopment = !cfg.IsProduction()
	if cfg.IsProduction() {
		security.HSTSMaxAge = 31536000
	}

	jwt := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     opts.JWTService,
		TokenBlacklist: opts.TokenBlacklist,
		Logger:         log,
	})

	probes := engine.Group("", middleware.SecureHeaders(security))
	probes.GET("/health", h.Health.Live)
	probes.GET("/ready", h.Health.Ready)

	// The documentation UI loads its own scripts and styles.
	docsSecurity := security
	docsSecurity.ContentSecurityPolicy = ""
	engine.GET("/swagger/*any",
		middleware.SecureHeaders(docsSecurity),
		middleware.SwaggerProtection(cfg.Swagger, jwt),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	profilingCfg := middleware.DefaultProfilingConfig()
	profilingCfg.Enabled = cfg.Profiling.Enabled

	r := NewRouter(engine, WithMiddleware(
		middleware.SecureHeaders(security),
		jwt,
		middleware.SpanEnricher(),
		middleware.Profiling(profilingCfg),
	))
	for _, group := range ledgerRoutes(h) {
		r.Register(group)
	}
	r.Setup()

	return engine, nil
}

func ledgerRoutes(h Handlers) []*DomainGroup {
	authGroup := NewDomainGroup("/auth").
		GET("/me", h.Auth.Me).
		POST("/logout", h.Auth.Logout)

	clients := NewDomainGroup("/clients").
		POST("", h.Clients.Create).
		GET("", h.Clients.List).
		GET("/:id", h.Clients.GetByID).
		GET("/:id/debts", h.Clients.GetWithDebts)

	debts := NewDomainGroup("/debts").
		POST("", h.Debts.Create).
		GET("", h.Debts.List).
		GET("/export", h.Debts.Export).
		GET("/:id", h.Debts.GetByID).
		GET("/:id/payments", h.Debts.ListPayments).
		POST("/:id/payments", h.Debts.ApplyPayment)
	if h.Exports != nil {
		debts.POST("/export/archive", h.Exports.Archive)
	}

	payments := NewDomainGroup("/payments").
		POST("", h.Payments.Apply).
		GET("", h.Payments.List).
		GET("/:id", h.Payments.GetByID)

	return []*DomainGroup{authGroup, clients, debts, payments}
}

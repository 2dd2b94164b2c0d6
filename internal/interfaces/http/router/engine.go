package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/wallet/withdrawal/internal/infrastructure/config"
	"github.com/wallet/withdrawal/internal/infrastructure/logger"
	"github.com/wallet/withdrawal/internal/interfaces/http/handler"
	"github.com/wallet/withdrawal/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EngineConfig wires handlers and cross-cutting concerns into an engine
type EngineConfig struct {
	ServiceName string
	HTTP        config.HTTPConfig
	Swagger     config.SwaggerConfig
	Logger      *zap.Logger

	TracingEnabled   bool
	TracerProvider   trace.TracerProvider
	ProfilingEnabled bool

	// Metrics observes requests; MetricsHandler serves /metrics when set
	Metrics        middleware.HTTPObserver
	MetricsHandler http.Handler

	Wallet *handler.WalletHandler
	Outbox *handler.OutboxHandler
	System *handler.SystemHandler
}

// NewEngine builds the gin engine. The returned stop function releases
// background resources held by middleware.
func NewEngine(cfg EngineConfig) (*gin.Engine, func(), error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, nil, err
	}

	middleware.SetupValidator()

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName:    cfg.ServiceName,
			Enabled:        cfg.TracingEnabled,
			TracerProvider: cfg.TracerProvider,
		}),
		middleware.SpanAttributes(),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log),
		middleware.HTTPMetrics(cfg.Metrics, "/metrics", "/health"),
		middleware.ProfilingWithConfig(middleware.ProfilingConfig{
			Enabled:          cfg.ProfilingEnabled,
			SkipPaths:        []string{"/health", "/metrics"},
			SkipPathPrefixes: []string{"/swagger"},
		}),
		middleware.CORSWithConfig(cors),
		middleware.SecureWithConfig(middleware.DefaultSecurityConfig()),
	)

	stop := func() {}
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if cfg.HTTP.RateLimitEnabled && cfg.HTTP.RateLimitRequests > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		stop = limiter.Stop
	}

	if cfg.System != nil {
		engine.GET("/health", cfg.System.Health)
	}
	if cfg.MetricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := NewRouter(engine, WithAPIVersion("v1"))
	if cfg.Wallet != nil {
		r.Register(walletRoutes(cfg.Wallet))
	}
	if cfg.Outbox != nil || cfg.System != nil {
		r.Register(systemRoutes(cfg.System, cfg.Outbox))
	}
	r.Setup()

	return engine, stop, nil
}

func walletRoutes(h *handler.WalletHandler) RouteRegistrar {
	return routeGroups{
		NewDomainGroup("wallets", "/wallets").
			POST("", h.OpenWallet).
			POST("/:id/withdraw", h.Withdraw).
			GET("/:id/balance", h.GetBalance).
			GET("/:id/withdrawals", h.ListWithdrawals).
			POST("/:id/statements", h.ExportStatement),
		NewDomainGroup("withdrawals", "/withdrawals").
			GET("/:transaction_id", h.GetWithdrawal),
	}
}

func systemRoutes(system *handler.SystemHandler, outbox *handler.OutboxHandler) RouteRegistrar {
	group := NewDomainGroup("system", "/system")
	if system != nil {
		group.GET("/info", system.GetSystemInfo)
	}
	if outbox != nil {
		group.Group("outbox", "/outbox").
			GET("/stats", outbox.GetStats).
			GET("/dead", outbox.GetDeadLetterEntries).
			POST("/dead/retry-all", outbox.RetryAllDeadEntries).
			GET("/:id", outbox.GetEntry).
			POST("/:id/retry", outbox.RetryDeadEntry)
	}
	return group
}

// routeGroups registers several top-level groups as one registrar
type routeGroups []*DomainGroup

func (gs routeGroups) RegisterRoutes(rg *gin.RouterGroup) {
	for _, g := range gs {
		g.RegisterRoutes(rg)
	}
}

package main

import (
	"fmt"

	"github.com/billed/backend/internal/infrastructure/auth"
	"github.com/billed/backend/internal/infrastructure/cache"
	"github.com/billed/backend/internal/infrastructure/config"
	"github.com/billed/backend/internal/infrastructure/logger"
	"github.com/billed/backend/internal/infrastructure/telemetry"
	"github.com/billed/backend/internal/interfaces/http/handler"
	"github.com/billed/backend/internal/interfaces/http/middleware"
	"github.com/billed/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type serverDeps struct {
	logger   *zap.Logger
	jwt      *auth.JWTService
	stores   handler.StoreFactory
	checks   map[string]handler.HealthCheck
	sessions cache.SessionStore
	resolver handler.URLResolver
	metrics  *telemetry.BillMetrics
}

func newEngine(cfg *config.Config, d serverDeps) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(
		logger.Recovery(d.logger),
		middleware.RequestID(),
		middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled),
		logger.GinMiddleware(d.logger),
		middleware.SpanEnricher(),
		middleware.Metrics(d.metrics),
		middleware.Secure(),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins),
	)

	health := handler.NewHealthHandler()
	for name, check := range d.checks {
		health.AddCheck(name, check)
	}
	health.AddCheck("sessions", d.sessions.Ping)
	engine.GET("/health", health.Health)
	engine.GET("/metrics", gin.WrapH(d.metrics.Handler()))

	apiAuth := middleware.Session(middleware.SessionConfig{
		JWTService: d.jwt,
		Store:      d.sessions,
		Logger:     d.logger,
	})
	pageAuth := middleware.Session(middleware.SessionConfig{
		JWTService: d.jwt,
		Store:      d.sessions,
		HTML:       true,
		Logger:     d.logger,
	})

	bills := handler.NewBillsHandler(d.stores,
		handler.WithURLResolver(d.resolver),
		handler.WithRetrievalObserver(d.metrics),
		handler.WithDefaultLocale(cfg.Locale.Default),
	)
	sessions := handler.NewSessionHandler(d.jwt, d.sessions, cfg.App.Env == "production")

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	sessionRoutes := router.NewDomainGroup("sessions", "/sessions")
	sessionRoutes.POST("", sessions.Create)
	sessionRoutes.DELETE("", sessions.Delete)
	sessionRoutes.GET("/current", apiAuth, sessions.Current)

	billRoutes := router.NewDomainGroup("bills", "/bills").Use(apiAuth)
	billRoutes.GET("", bills.ListBills)

	loginPages := router.NewDomainGroup("login", "")
	loginPages.GET("/", sessions.LoginPage)
	loginPages.POST("/", sessions.Login)
	loginPages.POST("/logout", sessions.Logout)

	employeePages := router.NewDomainGroup("employee", "/employee").Use(pageAuth)
	billPages := employeePages.Group("bills", "/bills")
	billPages.GET("", bills.BillsPage)
	billPages.POST("/new", bills.NewBill)
	billPages.GET("/preview", bills.Preview)
	employeePages.Group("bill", "/bill").GET("/new", bills.NewBillPage)

	r.Register(sessionRoutes).
		Register(billRoutes).
		RegisterPage(loginPages).
		RegisterPage(employeePages)
	r.Setup()

	return engine, nil
}

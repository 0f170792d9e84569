package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/staff-accounts/docs"
	"github.com/99minutos/staff-accounts/internal/api/handler"
	"github.com/99minutos/staff-accounts/internal/api/middleware"
	"github.com/99minutos/staff-accounts/internal/core/ports"
	"github.com/99minutos/staff-accounts/internal/pkg/validate"
)

// Dependencies is everything the HTTP layer needs from the composition root.
type Dependencies struct {
	Accounts    ports.AccountService
	Admin       ports.AdminService
	Identities  ports.IdentityRepository
	Tokens      ports.TokenVerifier
	Revocations ports.TokenRevocations // nil when revocation is disabled
	Checks      map[string]handler.DependencyCheck
	Log         zerolog.Logger
	// Registerer receives the HTTP request metrics. Defaults to the
	// Prometheus default registerer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validate.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "accounts_http",
		Registerer: deps.Registerer,
	}))

	authMiddleware := middleware.Auth(deps.Tokens, deps.Revocations)

	// --- Account routes ---
	authHandler := handler.NewAuthHandler(deps.Accounts)

	g := e.Group("/api")
	g.POST("/register", authHandler.Register)
	g.POST("/login", authHandler.Login)
	g.POST("/logout", authHandler.Logout, authMiddleware)
	g.GET("/user", authHandler.CurrentUser, authMiddleware)

	// --- Admin routes (staff only) ---
	adminHandler := handler.NewAdminHandler(deps.Admin)

	admin := g.Group("/admin", authMiddleware, middleware.RequireStaff(deps.Identities))
	admin.GET("/users", adminHandler.List)
	admin.GET("/users/:id", adminHandler.Get)
	admin.PATCH("/users/:id/active", adminHandler.SetActive)
	admin.DELETE("/users/:id", adminHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

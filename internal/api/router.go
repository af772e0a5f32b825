package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-client/internal/api/handler"
	"github.com/quillpress/blog-client/internal/api/middleware"
	"github.com/quillpress/blog-client/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Articles ports.ArticleService
	// JWTSecret enables bearer verification on mutating routes when set.
	JWTSecret string
	// Checks are run by the readiness probe, keyed by dependency name.
	Checks map[string]handler.Check
	Logger zerolog.Logger
	// Registry receives the HTTP metrics. Nil selects the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "mockapi",
		Registerer: registerer,
	}))

	articles := handler.NewArticleHandler(deps.Articles)

	// --- Reads (always public) ---
	e.GET("/articles", articles.List)
	e.GET("/articles/:id", articles.Get)
	e.GET("/categories", articles.Categories)

	// --- Writes ---
	var (
		writes []echo.MiddlewareFunc
		owned  []echo.MiddlewareFunc
	)
	if deps.JWTSecret != "" {
		auth := middleware.Auth(deps.JWTSecret)
		writes = []echo.MiddlewareFunc{auth}
		owned = []echo.MiddlewareFunc{auth, middleware.OwnerOnly(articles.Owner)}
	}
	e.POST("/articles", articles.Create, writes...)
	e.PUT("/articles/:id", articles.Update, owned...)
	e.DELETE("/articles/:id", articles.Delete, owned...)
	e.PATCH("/articles/:id/like", articles.Like, writes...)
	e.PATCH("/articles/:id/bookmark", articles.Bookmark, writes...)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	return e
}

// requestLogger logs one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmenu/backend/internal/infrastructure/config"
	"github.com/mmenu/backend/internal/infrastructure/logger"
	"github.com/mmenu/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HealthRegistrar mounts health checks outside API versioning
type HealthRegistrar interface {
	RegisterRoutes(engine *gin.Engine)
}

// Handlers are the route groups served by the API
type Handlers struct {
	Health HealthRegistrar
	Public []RouteRegistrar
	// Protected handlers read the table session set by SessionAuth
	Protected []RouteRegistrar
}

// EngineConfig holds what the middleware stack needs
type EngineConfig struct {
	HTTP    config.HTTPConfig
	Logger  *zap.Logger
	Tracing middleware.TracingConfig
	// Meter records HTTP metrics; nil disables them
	Meter  metric.Meter
	Tokens middleware.TokenValidator
	// RateLimiter throttles protected routes per table session; nil disables it
	RateLimiter *middleware.RateLimiter
}

// NewEngine builds the gin engine with the middleware stack applied in order:
// request id, recovery, request logging, tracing, metrics, security headers,
// CORS and body limit. Protected routes add session auth and rate limiting.
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Tracing)...)
	if cfg.Meter != nil {
		engine.Use(middleware.HTTPMetrics(cfg.Meter))
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	if h.Health != nil {
		h.Health.RegisterRoutes(engine)
	}

	auth := []gin.HandlerFunc{middleware.SessionAuth(cfg.Tokens, log)}
	if cfg.RateLimiter != nil {
		auth = append(auth, middleware.RateLimit(cfg.RateLimiter))
	}

	r := NewRouter(engine, WithAPIVersion("v1"), WithAuth(auth...))
	r.Public(h.Public...)
	r.Protected(h.Protected...)
	r.Setup()

	return engine
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/mmenu/backend/internal/application/cart"
	menuapp "github.com/mmenu/backend/internal/application/menu"
	orderapp "github.com/mmenu/backend/internal/application/order"
	"github.com/mmenu/backend/internal/infrastructure/auth"
	"github.com/mmenu/backend/internal/infrastructure/cache"
	"github.com/mmenu/backend/internal/infrastructure/config"
	"github.com/mmenu/backend/internal/infrastructure/event"
	"github.com/mmenu/backend/internal/infrastructure/logger"
	"github.com/mmenu/backend/internal/infrastructure/messaging"
	"github.com/mmenu/backend/internal/infrastructure/persistence"
	"github.com/mmenu/backend/internal/infrastructure/telemetry"
	"github.com/mmenu/backend/internal/interfaces/http/handler"
	"github.com/mmenu/backend/internal/interfaces/http/middleware"
	"github.com/mmenu/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting mmenu backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() { _ = mp.Shutdown(context.Background()) }()
	meter := mp.Meter(cfg.Telemetry.ServiceName)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
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
		Enabled:  cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:   cfg.Database.DBName,
		FullSQL:  !cfg.IsProduction(),
		Provider: otel.GetTracerProvider(),
	}, log); err != nil {
		log.Warn("Database tracing not registered", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Cart snapshots
	snapshots, err := cache.NewSnapshotStoreFactory(cfg.Cart, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create cart snapshot store", zap.Error(err))
	}
	defer func() { _ = snapshots.Close() }()

	// Event bus
	bus := event.NewInMemoryEventBus(log)
	if cartMetrics, err := telemetry.NewCartMetrics(meter); err != nil {
		log.Warn("Cart metrics disabled", zap.Error(err))
	} else {
		bus.Subscribe(cartMetrics)
	}
	kafkaClient := messaging.NewClient(cfg.Kafka.Brokers)
	if kafkaClient.Enabled() {
		publisher := messaging.NewKafkaEventPublisher(kafkaClient.NewWriter(cfg.Kafka.Topic, cfg.Kafka.WriteTimeout), log)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error("Error closing Kafka writer", zap.Error(err))
			}
		}()
		bus.Subscribe(publisher)
		log.Info("Streaming events to Kafka",
			zap.Strings("brokers", kafkaClient.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	registry := cartapp.NewRegistry(snapshots, log,
		cartapp.WithSaveTimeout(cfg.Cart.SaveTimeout),
		cartapp.WithLoadTimeout(cfg.Cart.LoadTimeout),
		cartapp.WithIdleTimeout(cfg.Cart.IdleTimeout),
	)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go registry.Run(sweepCtx, time.Minute)
	cartService := cartapp.NewService(registry, productRepo, log)
	cartService.SetEventPublisher(bus)
	menuService := menuapp.NewService(productRepo, log)
	orderService := orderapp.NewService(orderRepo, cartService, log)
	orderService.SetEventPublisher(bus)

	tokens := auth.NewSessionTokenService(cfg.JWT)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitPerSecond, cfg.HTTP.RateLimitBurst)
		log.Info("Rate limiting enabled",
			zap.Float64("per_second", cfg.HTTP.RateLimitPerSecond),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}

	engine := router.NewEngine(router.EngineConfig{
		HTTP:   cfg.HTTP,
		Logger: log,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tp.IsEnabled(),
		},
		Meter:       meter,
		Tokens:      tokens,
		RateLimiter: limiter,
	}, router.Handlers{
		Health: handler.NewHealthHandler(db),
		Public: []router.RouteRegistrar{
			handler.NewSessionHandler(tokens, menuService),
			handler.NewMenuHandler(menuService),
		},
		Protected: []router.RouteRegistrar{
			handler.NewCartHandler(cartService, cfg.Cart.ConfirmationTTL),
			handler.NewOrderHandler(orderService),
		},
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

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// removals may be waiting on a prompt, give them the full window
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Cart.ConfirmationTTL+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

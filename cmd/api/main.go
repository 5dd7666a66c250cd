package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mrstraders/paddybill/internal/config"
	"github.com/mrstraders/paddybill/internal/presentation/http/handler"
	"github.com/mrstraders/paddybill/internal/presentation/http/middleware"
	"github.com/mrstraders/paddybill/internal/presentation/http/routes"
	"github.com/mrstraders/paddybill/internal/wire"
	"go.uber.org/zap"
)

// idempotencySweep is how often expired idempotency keys are purged.
const idempotencySweep = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.Log, cfg.App)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Storage, print queue and services
	c, err := wire.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn("Failed to release resources", zap.Error(err))
		}
	}()

	limiter := middleware.NewClientRateLimiter(
		middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer limiter.Stop()

	// Initialize handlers
	handlers := &routes.Handlers{
		Bill:   handler.NewBillHandler(c.Bills),
		Queue:  handler.NewQueueHandler(c.Bills, c.Records),
		Print:  handler.NewPrintHandler(c.Prints),
		Record: handler.NewRecordHandler(c.Records),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Logger:          logger,
		IdempotencyRepo: c.IdempotencyRepo,
		RateLimiter:     limiter,
	})

	go sweepIdempotencyKeys(ctx, c, logger)

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("name", cfg.App.Name),
			zap.String("port", port),
			zap.String("queue_store", cfg.Queue.Store),
			zap.String("db_driver", cfg.Database.Driver),
		)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
		}
	}
}

func sweepIdempotencyKeys(ctx context.Context, c *wire.Container, logger *zap.Logger) {
	ticker := time.NewTicker(idempotencySweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.IdempotencyRepo.DeleteExpired(ctx); err != nil {
				logger.Warn("Failed to purge idempotency keys", zap.Error(err))
			}
		}
	}
}

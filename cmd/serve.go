package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"assetdesk/internal/core/config"
	"assetdesk/internal/core/container"
	"assetdesk/internal/core/logger"
	"assetdesk/internal/core/routes"
	"assetdesk/internal/database"
	"assetdesk/internal/metrics"
	"assetdesk/internal/middleware"
	"assetdesk/internal/rate_limiter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Serve runs the API until ctx is cancelled, then drains in-flight requests.
func Serve(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(cfg.App.IsProduction())
	defer log.Sync()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsDir, log); err != nil {
			return err
		}
	}

	db, err := database.NewPostgresConnection(ctx, cfg.Database.URL, database.PoolConfig{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info("Connected to the database")

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Init()

	limiter := rate_limiter.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	go limiter.Run(ctx, time.Minute)

	router := gin.New()
	router.Use(
		middleware.RequestContext(),
		middleware.RecoveryMiddleware(log),
		middleware.RequestLogger(log),
		metrics.Instrument(),
		middleware.TimeoutMiddleware(cfg.App.RequestTimeout),
	)

	appContainer := container.NewAppContainer(db, log)
	routes.RegisterAPIRoutes(router, appContainer, limiter)
	routes.RegisterUtilityRoutes(router, db)

	server := &http.Server{
		Addr:              cfg.App.Host,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("address", cfg.App.Host))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", zap.Error(err))
			return err
		}
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", zap.Error(err))
			return err
		}
	}

	log.Info("Server stopped")
	return nil
}

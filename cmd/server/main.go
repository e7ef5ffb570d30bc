// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yiqitools/stock-alerts/internal/api"
	"github.com/yiqitools/stock-alerts/internal/api/handlers"
	"github.com/yiqitools/stock-alerts/internal/cache"
	"github.com/yiqitools/stock-alerts/internal/config"
	"github.com/yiqitools/stock-alerts/internal/coverage"
	"github.com/yiqitools/stock-alerts/internal/notify"
	"github.com/yiqitools/stock-alerts/internal/repository"
	"github.com/yiqitools/stock-alerts/internal/repository/postgres"
	"github.com/yiqitools/stock-alerts/internal/service"
	"github.com/yiqitools/stock-alerts/internal/storage"
	"github.com/yiqitools/stock-alerts/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.LogLevel)
	logger.EnableFile(cfg.Server.LogFile)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	repo := repository.NewAlertsRepository(db)

	// The notification channel must be usable at boot; a digest that cannot
	// be delivered is worse than one that fails loudly at startup.
	notifier, err := notify.NewTelegramNotifier(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to configure notifier")
	}

	digestCache, err := cache.NewDigestCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to cache")
	}

	var archive storage.ObjectStorage = storage.NoopStorage{}
	if cfg.Archive.Enabled {
		archive, err = storage.NewMinioStorage(cfg.Archive)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to configure archive storage")
		}
	}

	// Initialize services
	ingestService := service.NewIngestService(repo, archive, nil)
	engine := coverage.NewEngine(cfg.Digest.TargetDays, nil)
	digestService := service.NewDigestService(
		repo, engine, notifier, digestCache,
		time.Duration(cfg.Digest.DedupeSeconds)*time.Second, nil,
	)

	router := api.NewRouter(&api.Handlers{
		Ingest: handlers.NewIngestHandler(ingestService, cfg.Server.MaxUploadMB),
		Digest: handlers.NewDigestHandler(digestService, notifier, cfg.Digest.Secret),
	}, &cfg.Server)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

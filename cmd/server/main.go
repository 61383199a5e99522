package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/api"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/config"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/logger"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/worker"
)

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [Go] Starting speertweet API...",
		"environment", cfg.AppEnv,
		"port", cfg.ApiServicePort,
	)

	// 3. Connect to Database (runs migrations)
	if err := database.ConnectDatabase(cfg, appLogger); err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.CloseDatabase()

	db := database.GetDatabase()

	// 4. Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	tweetRepo := repository.NewTweetRepository(db)

	// 5. Initialize Redis timeline cache
	var timeline database.TimelineStore
	timelineCache, err := database.NewTimelineCache(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis for the recent timeline", "error", err)
		appLogger.Info("💡 Recent timeline will be read from Postgres on every request")
		timeline = database.NewNoOpTimelineCache(appLogger)
	} else {
		timeline = timelineCache
	}
	defer timeline.Close()

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg, appLogger)
	userService := service.NewUserService(userRepo, appLogger)
	tweetService := service.NewTweetService(tweetRepo, timeline, appLogger)

	// 7. Initialize Handlers & Middleware
	authHandler := handler.NewAuthHandler(authService, appLogger)
	userHandler := handler.NewUserHandler(userService, appLogger)
	tweetHandler := handler.NewTweetHandler(tweetService, appLogger)
	authMiddleware := middleware.NewAuthMiddleware(authService, appLogger)

	// 8. Background jobs
	pool := worker.NewPool(appLogger)
	worker.ScheduleTokenCleanup(pool, authService, time.Duration(cfg.TokenCleanupInterval)*time.Second)

	// 9. Router
	r := api.SetupRouter(authHandler, userHandler, tweetHandler, authMiddleware)

	// 10. Start HTTP Server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ApiServicePort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("❌ HTTP Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownTimeout := time.Duration(cfg.ShutdownTimeout) * time.Second
	appLogger.Info("🛑 [Go] Shutting down...", "timeout", shutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("❌ HTTP Server forced to shutdown", "error", err)
	}

	pool.Shutdown(shutdownTimeout)

	appLogger.Info("👋 [Go] Server stopped")
}

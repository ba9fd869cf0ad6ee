// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/replenish-go/internal/api"
	"github.com/andresuchdata/replenish-go/internal/cache"
	"github.com/andresuchdata/replenish-go/internal/config"
	"github.com/andresuchdata/replenish-go/internal/service"
	"github.com/andresuchdata/replenish-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if cfg.Server.Mode == "debug" {
		logger.SetLevel("debug")
		gin.SetMode(gin.DebugMode)
	} else {
		logger.SetLevel("info")
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize plan cache (noop unless CACHE_ENABLED)
	planCache, err := cache.NewPlanCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("plan cache unavailable, continuing without cache")
		planCache = cache.NewNoopPlanCache()
	}

	// Initialize services
	planService := service.NewPlanService(cfg.Plan, planCache)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{PlanService: planService}, cfg.Server.AllowedOrigins)
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

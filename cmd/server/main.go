package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"user-profile-backend/internal/common/config"
	"user-profile-backend/internal/common/logger"
	"user-profile-backend/internal/common/middleware"
	profilehttp "user-profile-backend/internal/features/profile/delivery/http"
	"user-profile-backend/internal/features/profile/repository/postgres"
	"user-profile-backend/internal/features/profile/service"
	"user-profile-backend/internal/platform/db"
)

func main() {
	// Cancellable root context for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger.Init("user-profile-backend", cfg.Debug)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	dsn := cfg.DSN()
	if dsn == "" {
		logger.Warn().Msg("DATABASE_URL/POSTGRES_URL not set; queries will fail until one is provided")
	}

	pool, err := db.Shared(dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize connection pool")
	}

	repo := postgres.NewProfileRepository(pool)
	svc := service.NewProfileService(repo)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())

	corsCfg := cors.DefaultConfig()
	if cfg.Server.Origin == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.Server.Origin}
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "x-user-id")
	router.Use(cors.New(corsCfg))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	profilehttp.NewProfileHandler(svc).RegisterRoutes(api)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
	logger.Info().Msg("Server stopped")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/logiflow/team-balancer/internal/api/handlers"
	"github.com/logiflow/team-balancer/internal/config"
	"github.com/logiflow/team-balancer/internal/engine"
	"github.com/logiflow/team-balancer/internal/solver"
	"github.com/logiflow/team-balancer/pkg/cache"
	"github.com/logiflow/team-balancer/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	structuredLogger := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	logger.WithService("team-balancer").WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
	}).Info("Starting team balancer service")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Redis is optional: without it every request solves uncached.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.WithService("team-balancer").Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.WithService("team-balancer").Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.WithService("team-balancer").Info("REDIS_URL not set, result cache disabled")
	}

	resultCache := cache.NewResultCache(redisClient, structuredLogger)
	eng := engine.New(solver.NewPBSolver(structuredLogger), structuredLogger)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	optimizationHandler := handlers.NewOptimizationHandler(eng, resultCache, cfg, structuredLogger)
	healthHandler := handlers.NewHealthHandler(redisClient, structuredLogger)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/optimize", optimizationHandler.OptimizeRoster)
		apiV1.POST("/optimize/cohorts", optimizationHandler.OptimizeCohorts)
	}

	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.WithService("team-balancer").WithField("port", cfg.Port).Info("Team balancer service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithService("team-balancer").Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithService("team-balancer").Info("Shutting down team balancer service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithService("team-balancer").Fatalf("Team balancer service forced to shutdown: %v", err)
	}

	logger.WithService("team-balancer").Info("Team balancer service exited")
}

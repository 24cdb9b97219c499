package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/LuisMartinez211/Backend/internal/api"
	"github.com/LuisMartinez211/Backend/internal/auth"
	"github.com/LuisMartinez211/Backend/internal/db"
	"github.com/LuisMartinez211/Backend/internal/ratelimit"
	"github.com/LuisMartinez211/Backend/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: failed to load: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("logger: failed to build: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	mongoStore, err := db.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal("mongo: failed to connect", zap.Error(err))
	}
	defer func() {
		if err := mongoStore.Close(context.Background()); err != nil {
			logger.Warn("mongo: close error", zap.Error(err))
		}
	}()

	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		logger.Fatal("mongo: ensure indexes", zap.Error(err))
	}

	limiter := newLimiter(ctx, cfg, logger)

	users := db.NewUserStore(mongoStore)
	athletes := db.NewAthleteStore(mongoStore)
	times := db.NewTimeStore(mongoStore)

	authService, err := auth.NewService(users, cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal("auth: failed to initialise", zap.Error(err))
	}

	router := setupRouter(authService, users, athletes, times, limiter, logger)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server crashed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped cleanly")
}

// newLimiter prefers the shared redis window and falls back to an
// in-process one when no redis address is configured.
func newLimiter(ctx context.Context, cfg *utils.Config, logger *zap.Logger) ratelimit.Limiter {
	if cfg.RedisAddr == "" {
		logger.Info("rate limit: using in-memory limiter")
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	client, err := db.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("rate limit: redis unavailable, using in-memory limiter", zap.Error(err))
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	logger.Info("rate limit: using redis limiter", zap.String("addr", cfg.RedisAddr))
	return ratelimit.NewRedisLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window)
}

func setupRouter(authService *auth.Service, users api.UserStore, athletes api.AthleteStore, times api.TimeStore, limiter ratelimit.Limiter, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(api.RequestLogger(logger), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api.NewHandler(authService, users, athletes, times, limiter, logger).RegisterRoutes(router)

	return router
}

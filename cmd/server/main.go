package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"line-assistant-backend/internal/cache/redis"
	"line-assistant-backend/internal/common/config"
	"line-assistant-backend/internal/common/logger"
	"line-assistant-backend/internal/common/middleware"
	botrouter "line-assistant-backend/internal/features/bot/router"
	statushttp "line-assistant-backend/internal/features/status/delivery/http"
	walletrepo "line-assistant-backend/internal/features/wallet/repository"
	walletfile "line-assistant-backend/internal/features/wallet/repository/file"
	walletmem "line-assistant-backend/internal/features/wallet/repository/memory"
	walletredis "line-assistant-backend/internal/features/wallet/repository/redis"
	walletservice "line-assistant-backend/internal/features/wallet/service"
	webhookhttp "line-assistant-backend/internal/features/webhook/delivery/http"
	"line-assistant-backend/internal/platform/line"
	"line-assistant-backend/internal/platform/metrics"
	platformredis "line-assistant-backend/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("line-assistant-backend", cfg.Debug)

	lineClient := line.NewClient(cfg.Line.ChannelToken, cfg.Line.APIBaseURL)

	// Redis is only dialed when something needs it: the redis custody
	// backing or the profile cache.
	var redisClient *goredis.Client
	if cfg.Wallet.Storage == config.WalletStorageRedis {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err = platformredis.Open(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		defer redisClient.Close()
		logger.Info().Msg("Redis connection established")
	}

	walletRepository, err := buildWalletRepository(cfg, redisClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize wallet storage")
	}
	logger.Info().Str("mode", cfg.Wallet.Storage).Msg("Wallet storage initialized")

	walletSvc := walletservice.NewWalletService(walletRepository)

	var profiles botrouter.ProfileProvider = lineClient
	if redisClient != nil {
		profiles = redis.NewProfileCache(redisClient, lineClient, time.Duration(cfg.Redis.ProfileTTLSec)*time.Second)
	}

	router := botrouter.New(walletSvc, profiles)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	if cfg.Server.Origin == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	engine.Use(cors.New(corsConfig))

	webhookHandler := webhookhttp.NewWebhookHandler(cfg.Line.ChannelSecret, router, lineClient)
	webhookHandler.RegisterRoutes(engine)

	statusHandler := statushttp.NewStatusHandler(cfg.Line.BasicID, readinessProbe(redisClient))
	statusHandler.RegisterRoutes(engine)

	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

// buildWalletRepository selects the custody backing from configuration. The
// mode is explicit: a deployment never falls back from one backing to
// another silently.
func buildWalletRepository(cfg *config.Config, redisClient *goredis.Client) (walletrepo.WalletRepository, error) {
	switch cfg.Wallet.Storage {
	case config.WalletStorageMemory:
		logger.Warn().Msg("Using in-memory wallet storage: records are lost on restart")
		return walletmem.NewWalletRepository(), nil
	case config.WalletStorageFile:
		return walletfile.NewWalletRepository(cfg.Wallet.Path)
	case config.WalletStorageRedis:
		return walletredis.NewWalletRepository(redisClient), nil
	default:
		return nil, fmt.Errorf("unknown wallet storage mode %q", cfg.Wallet.Storage)
	}
}

func readinessProbe(redisClient *goredis.Client) func() error {
	if redisClient == nil {
		return nil
	}
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return redisClient.Ping(ctx).Err()
	}
}

// @title           ABLECLOUD CRM Gateway API
// @version         1.0
// @description     Portal API over the CRM services and the identity provider
// @BasePath        /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/database"
	"github.com/ablecloud-team/ablecloud-crm/pkg/health"
	"github.com/ablecloud-team/ablecloud-crm/pkg/keycloak"
	"github.com/ablecloud-team/ablecloud-crm/pkg/logger"
	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
	"github.com/ablecloud-team/ablecloud-crm/pkg/server"
	"github.com/ablecloud-team/ablecloud-crm/pkg/svcclient"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/config"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/router"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting Gateway",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("keycloak", cfg.Keycloak.BaseURL),
		zap.String("realm", cfg.Keycloak.Realm),
	)

	keyFunc, err := middleware.NewKeyFunc(cfg.JWT)
	if err != nil {
		log.Fatal("Invalid JWT configuration", zap.Error(err))
	}

	m := metrics.New(cfg.Metrics.Namespace, log)

	var (
		tokenCache keycloak.TokenCache = keycloak.NewMemoryTokenCache()
		checks     []health.Check
		closers    []func() error
	)
	if cfg.Redis.Enabled() {
		rdb, err := database.NewRedis(cfg.Redis, log)
		if err != nil {
			log.Warn("Redis unavailable, caching service tokens in memory", zap.Error(err))
		} else {
			tokenCache = keycloak.NewRedisTokenCache(rdb, "gateway:keycloak:")
			checks = append(checks, health.RedisCheck(rdb))
			closers = append(closers, rdb.Close)
		}
	}

	idp := keycloak.NewClient(cfg.Keycloak, tokenCache, log, m)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	limiter.StartCleanup(ctx, cfg.RateLimit.CleanupInterval, cfg.RateLimit.MaxIdle)

	r := router.Setup(router.Config{
		Logger:         log,
		KeyFunc:        keyFunc,
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        m,
		Upstreams: router.Upstreams{
			License:  svcclient.New("license", cfg.Services.License, log, m),
			Partner:  svcclient.New("partner", cfg.Services.Partner, log, m),
			Product:  svcclient.New("product", cfg.Services.Product, log, m),
			Business: svcclient.New("business", cfg.Services.Business, log, m),
			Notice:   svcclient.New("notice", cfg.Services.Notice, log, m),
		},
		Identity:          idp,
		VendorName:        cfg.VendorName,
		LookupConcurrency: cfg.Users.LookupConcurrency,
		RateLimiter:       limiter,
		Checks:            checks,
	})

	err = server.Run(r, cfg.Server, log, func(context.Context) {
		stop()
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Warn("Failed to close connection", zap.Error(err))
			}
		}
	})
	if err != nil {
		log.Error("Server stopped with error", zap.Error(err))
	}
}

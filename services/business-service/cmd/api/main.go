// @title           Business Service API
// @version         1.0
// @description     Sales opportunities awaiting or holding licenses
// @BasePath        /

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
	"github.com/ablecloud-team/ablecloud-crm/pkg/logger"
	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
	"github.com/ablecloud-team/ablecloud-crm/pkg/server"
	"github.com/ablecloud-team/ablecloud-crm/services/business-service/internal/config"
	"github.com/ablecloud-team/ablecloud-crm/services/business-service/internal/domain"
	"github.com/ablecloud-team/ablecloud-crm/services/business-service/internal/router"
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

	log.Info("Starting Business Service",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
	)

	keyFunc, err := middleware.NewKeyFunc(cfg.JWT)
	if err != nil {
		log.Fatal("Invalid JWT configuration", zap.Error(err))
	}

	m := metrics.New(cfg.Metrics.Namespace, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	db := database.Connect(ctx, cfg.Database, log, m, &domain.Business{})
	stop()
	if db == nil {
		log.Info("Interrupted before the database became reachable")
		return
	}
	statsStop := database.StartDBStatsCollector(database.GetDB, m, cfg.Metrics.CollectInterval)
	collector := metrics.NewBusinessMetricsCollector(database.GetDB, m, log, cfg.Metrics.CollectInterval,
		map[string]string{"business": domain.Business{}.TableName()})
	collector.Start()

	r := router.Setup(router.Config{
		DB:             db,
		Logger:         log,
		KeyFunc:        keyFunc,
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        m,
	})

	err = server.Run(r, cfg.Server, log, func(context.Context) {
		collector.Stop()
		close(statsStop)
		if err := database.Close(db); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	})
	if err != nil {
		log.Error("Server stopped with error", zap.Error(err))
	}
}

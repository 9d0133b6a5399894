// Package server builds the gin engine every service starts from and runs it with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/config"
	"github.com/ablecloud-team/ablecloud-crm/pkg/health"
	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
)

// EngineConfig holds the ambient pieces shared by every service engine
type EngineConfig struct {
	Name           string
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer // nil uses the default registry
	AllowedOrigins []string
	Checks         []health.Check
}

// NewEngine returns an engine with recovery, logging, CORS and metrics middleware,
// plus /metrics, /health and /ready at the root
func NewEngine(cfg EngineConfig) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	} else {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	health.Register(r, cfg.Name, cfg.Checks...)
	return r
}

// Run serves handler until SIGINT/SIGTERM, then shuts down within the configured timeout.
// onShutdown hooks run after the listener is closed.
func Run(handler http.Handler, cfg config.ServerConfig, logger *zap.Logger, onShutdown ...func(context.Context)) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("Shutting down server...", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(ctx)
	if err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	for _, hook := range onShutdown {
		hook(ctx)
	}

	logger.Info("Server exited gracefully")
	return err
}

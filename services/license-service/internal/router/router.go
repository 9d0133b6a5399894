package router

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/health"
	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
	"github.com/ablecloud-team/ablecloud-crm/pkg/server"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/client"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/handler"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/repository"
	"github.com/ablecloud-team/ablecloud-crm/services/license-service/internal/service"
)

// Config holds router configuration
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	KeyFunc        jwt.Keyfunc
	BasePath       string
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Catalog        client.CatalogClient
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := server.NewEngine(server.EngineConfig{
		Name:           "license-service",
		Logger:         cfg.Logger,
		Metrics:        cfg.Metrics,
		Gatherer:       cfg.Gatherer,
		AllowedOrigins: cfg.AllowedOrigins,
		Checks:         []health.Check{health.DBCheck(func() *gorm.DB { return cfg.DB })},
	})

	licenseRepo := repository.NewLicenseRepository(cfg.DB)
	licenseService := service.NewLicenseService(licenseRepo, cfg.Catalog, cfg.Logger, cfg.Metrics)
	licenseHandler := handler.NewLicenseHandler(licenseService, cfg.Logger)

	api := r.Group(cfg.BasePath)
	adminOnly := middleware.RequireRoles(middleware.RoleAdmin)

	licenses := api.Group("/license")
	licenses.Use(middleware.Auth(cfg.KeyFunc), middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleUser))
	{
		licenses.GET("", licenseHandler.ListLicenses)
		licenses.GET("/:id", licenseHandler.GetLicense)
		licenses.POST("", adminOnly, licenseHandler.CreateLicense)
		licenses.PUT("/:id", adminOnly, licenseHandler.UpdateLicense)
		licenses.PUT("/:id/approve", adminOnly, licenseHandler.ApproveLicense)
		licenses.DELETE("/:id", adminOnly, licenseHandler.DeleteLicense)
	}

	return r
}

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
	"github.com/ablecloud-team/ablecloud-crm/services/business-service/internal/handler"
	"github.com/ablecloud-team/ablecloud-crm/services/business-service/internal/repository"
	"github.com/ablecloud-team/ablecloud-crm/services/business-service/internal/service"
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
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := server.NewEngine(server.EngineConfig{
		Name:           "business-service",
		Logger:         cfg.Logger,
		Metrics:        cfg.Metrics,
		Gatherer:       cfg.Gatherer,
		AllowedOrigins: cfg.AllowedOrigins,
		Checks:         []health.Check{health.DBCheck(func() *gorm.DB { return cfg.DB })},
	})

	businessRepo := repository.NewBusinessRepository(cfg.DB)
	businessService := service.NewBusinessService(businessRepo, cfg.Logger, cfg.Metrics)
	businessHandler := handler.NewBusinessHandler(businessService, cfg.Logger)

	api := r.Group(cfg.BasePath)
	adminOnly := middleware.RequireRoles(middleware.RoleAdmin)

	businesses := api.Group("/business")
	businesses.Use(middleware.Auth(cfg.KeyFunc), middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleUser))
	{
		businesses.GET("", businessHandler.ListBusinesses)
		businesses.GET("/:id", businessHandler.GetBusiness)
		businesses.POST("", adminOnly, businessHandler.CreateBusiness)
		businesses.PUT("/:id", adminOnly, businessHandler.UpdateBusiness)
		businesses.DELETE("/:id", adminOnly, businessHandler.DeleteBusiness)
	}

	return r
}

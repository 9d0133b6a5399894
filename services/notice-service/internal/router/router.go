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
	"github.com/ablecloud-team/ablecloud-crm/services/notice-service/internal/handler"
	"github.com/ablecloud-team/ablecloud-crm/services/notice-service/internal/repository"
	"github.com/ablecloud-team/ablecloud-crm/services/notice-service/internal/service"
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
		Name:           "notice-service",
		Logger:         cfg.Logger,
		Metrics:        cfg.Metrics,
		Gatherer:       cfg.Gatherer,
		AllowedOrigins: cfg.AllowedOrigins,
		Checks:         []health.Check{health.DBCheck(func() *gorm.DB { return cfg.DB })},
	})

	noticeRepo := repository.NewNoticeRepository(cfg.DB)
	noticeService := service.NewNoticeService(noticeRepo, cfg.Logger, cfg.Metrics)
	noticeHandler := handler.NewNoticeHandler(noticeService, cfg.Logger)

	api := r.Group(cfg.BasePath)
	adminOnly := middleware.RequireRoles(middleware.RoleAdmin)

	notices := api.Group("/notice")
	notices.Use(middleware.Auth(cfg.KeyFunc), middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleUser))
	{
		notices.GET("", noticeHandler.ListNotices)
		notices.GET("/:id", noticeHandler.GetNotice)
		notices.POST("", adminOnly, noticeHandler.CreateNotice)
		notices.PUT("/:id", adminOnly, noticeHandler.UpdateNotice)
		notices.DELETE("/:id", adminOnly, noticeHandler.DeleteNotice)
	}

	return r
}

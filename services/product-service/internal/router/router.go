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
	"github.com/ablecloud-team/ablecloud-crm/services/product-service/internal/handler"
	"github.com/ablecloud-team/ablecloud-crm/services/product-service/internal/repository"
	"github.com/ablecloud-team/ablecloud-crm/services/product-service/internal/service"
	"github.com/ablecloud-team/ablecloud-crm/services/product-service/internal/storage"
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
	// Storage is nil when no bucket is configured; downloads then answer 503
	Storage storage.ObjectStore
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := server.NewEngine(server.EngineConfig{
		Name:           "product-service",
		Logger:         cfg.Logger,
		Metrics:        cfg.Metrics,
		Gatherer:       cfg.Gatherer,
		AllowedOrigins: cfg.AllowedOrigins,
		Checks:         []health.Check{health.DBCheck(func() *gorm.DB { return cfg.DB })},
	})

	productRepo := repository.NewProductRepository(cfg.DB)
	productService := service.NewProductService(productRepo, cfg.Storage, cfg.Logger, cfg.Metrics)
	productHandler := handler.NewProductHandler(productService, cfg.Logger)

	api := r.Group(cfg.BasePath)
	adminOnly := middleware.RequireRoles(middleware.RoleAdmin)

	products := api.Group("/product")
	products.Use(middleware.Auth(cfg.KeyFunc), middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleUser))
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/:id/download", productHandler.DownloadProduct)
		products.POST("", adminOnly, productHandler.CreateProduct)
		products.PUT("/:id", adminOnly, productHandler.UpdateProduct)
		products.DELETE("/:id", adminOnly, productHandler.DeleteProduct)
	}

	return r
}

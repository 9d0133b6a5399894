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
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/client"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/handler"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/repository"
	"github.com/ablecloud-team/ablecloud-crm/services/partner-service/internal/service"
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
	Businesses     client.BusinessClient
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := server.NewEngine(server.EngineConfig{
		Name:           "partner-service",
		Logger:         cfg.Logger,
		Metrics:        cfg.Metrics,
		Gatherer:       cfg.Gatherer,
		AllowedOrigins: cfg.AllowedOrigins,
		Checks:         []health.Check{health.DBCheck(func() *gorm.DB { return cfg.DB })},
	})

	partnerHandler := handler.NewPartnerHandler(
		service.NewPartnerService(repository.NewPartnerRepository(cfg.DB), cfg.Logger, cfg.Metrics), cfg.Logger)
	customerHandler := handler.NewCustomerHandler(
		service.NewCustomerService(repository.NewCustomerRepository(cfg.DB), cfg.Logger, cfg.Metrics), cfg.Logger)
	creditHandler := handler.NewCreditHandler(
		service.NewCreditService(repository.NewCreditRepository(cfg.DB), cfg.Businesses, cfg.Logger, cfg.Metrics), cfg.Logger)

	api := r.Group(cfg.BasePath)
	api.Use(middleware.Auth(cfg.KeyFunc), middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleUser))
	adminOnly := middleware.RequireRoles(middleware.RoleAdmin)

	partners := api.Group("/partner")
	{
		partners.GET("", partnerHandler.ListPartners)
		partners.GET("/:id", partnerHandler.GetPartner)
		partners.POST("", adminOnly, partnerHandler.CreatePartner)
		partners.PUT("/:id", adminOnly, partnerHandler.UpdatePartner)
		partners.DELETE("/:id", adminOnly, partnerHandler.DeletePartner)
	}

	customers := api.Group("/customer")
	{
		customers.GET("", customerHandler.ListCustomers)
		customers.GET("/:id", customerHandler.GetCustomer)
		customers.POST("", adminOnly, customerHandler.CreateCustomer)
		customers.PUT("/:id", adminOnly, customerHandler.UpdateCustomer)
		customers.DELETE("/:id", adminOnly, customerHandler.DeleteCustomer)
	}

	credits := api.Group("/credit")
	{
		credits.GET("", creditHandler.ListCredits)
		credits.GET("/balance/:partnerId", creditHandler.GetBalance)
		credits.GET("/:id", creditHandler.GetCredit)
		credits.POST("", adminOnly, creditHandler.CreateCredit)
		credits.PUT("/:id", adminOnly, creditHandler.UpdateCredit)
		credits.DELETE("/:id", adminOnly, creditHandler.DeleteCredit)
	}

	return r
}

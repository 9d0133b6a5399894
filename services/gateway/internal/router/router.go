package router

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/health"
	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
	"github.com/ablecloud-team/ablecloud-crm/pkg/middleware"
	"github.com/ablecloud-team/ablecloud-crm/pkg/server"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/client"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/handler"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/service"
)

// Upstreams are the CRUD services behind the gateway
type Upstreams struct {
	License  client.Upstream
	Partner  client.Upstream
	Product  client.Upstream
	Business client.Upstream
	Notice   client.Upstream
}

// Config holds router configuration
type Config struct {
	Logger            *zap.Logger
	KeyFunc           jwt.Keyfunc
	BasePath          string
	AllowedOrigins    []string
	Metrics           *metrics.Metrics
	Gatherer          prometheus.Gatherer
	Upstreams         Upstreams
	Identity          client.IdentityProvider
	VendorName        string
	LookupConcurrency int
	// RateLimiter is optional
	RateLimiter *middleware.RateLimiter
	Checks      []health.Check
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := server.NewEngine(server.EngineConfig{
		Name:           "gateway",
		Logger:         cfg.Logger,
		Metrics:        cfg.Metrics,
		Gatherer:       cfg.Gatherer,
		AllowedOrigins: cfg.AllowedOrigins,
		Checks:         cfg.Checks,
	})

	up := cfg.Upstreams
	licenses := &service.Entity{Name: "license", ScopeParam: "companyId", Upstream: up.License}
	partners := &service.Entity{Name: "partner", Upstream: up.Partner}
	customers := &service.Entity{Name: "customer", ScopeParam: "manager_company_id", Upstream: up.Partner}
	credits := &service.Entity{Name: "credit", ScopeParam: "partner_id", Upstream: up.Partner}
	products := &service.Entity{Name: "product", Upstream: up.Product}
	businesses := &service.Entity{Name: "business", Upstream: up.Business}
	notices := &service.Entity{Name: "notice", ScopeParam: "company_id", Upstream: up.Notice}

	proxy := service.NewProxyService(cfg.Identity, cfg.Logger, cfg.Metrics)
	companies := client.NewCompanyDirectory(up.Partner, cfg.VendorName)

	customerHandler := handler.NewCustomerHandler(
		service.NewCustomerService(proxy, customers, cfg.Identity, companies, cfg.Logger), cfg.Logger)
	userHandler := handler.NewUserHandler(
		service.NewUserService(cfg.Identity, companies, cfg.LookupConcurrency, cfg.Logger, cfg.Metrics), cfg.Logger)
	authHandler := handler.NewAuthHandler(
		service.NewAuthService(cfg.Identity, cfg.Logger, cfg.Metrics), cfg.Logger)

	public := r.Group(cfg.BasePath)
	if cfg.RateLimiter != nil {
		public.Use(cfg.RateLimiter.Handler())
	}
	public.POST("/auth/login", authHandler.Login)
	public.POST("/auth/refresh", authHandler.Refresh)

	api := public.Group("")
	api.Use(middleware.Auth(cfg.KeyFunc), middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleUser))
	adminOnly := middleware.RequireRoles(middleware.RoleAdmin)

	api.POST("/auth/logout", authHandler.Logout)

	for _, e := range []*service.Entity{licenses, partners, customers, credits, products, businesses, notices} {
		h := handler.NewEntityHandler(e, proxy, cfg.Logger)
		g := api.Group("/" + e.Name)
		g.GET("", h.List)
		switch e {
		case customers:
			g.GET("/:id", customerHandler.GetCustomer)
		case licenses:
			g.GET("/:id", h.Get)
			g.PUT("/:id/approve", h.Approve)
		case credits:
			g.GET("/balance/:partnerId", h.Balance)
			g.GET("/:id", h.Get)
		case products:
			g.GET("/:id", h.Get)
			g.GET("/:id/download", h.Download)
		default:
			g.GET("/:id", h.Get)
		}
		g.POST("", h.Create)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}

	users := api.Group("/user")
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.POST("", adminOnly, userHandler.CreateUser)
		users.PUT("/:id", adminOnly, userHandler.UpdateUser)
		users.DELETE("/:id", adminOnly, userHandler.DeleteUser)
	}

	return r
}

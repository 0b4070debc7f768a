package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/landedcost-api/internal/config"
	domainRepo "github.com/sangkips/landedcost-api/internal/domain/repository"
	"github.com/sangkips/landedcost-api/internal/presentation/http/handler"
	"github.com/sangkips/landedcost-api/internal/presentation/http/middleware"
	"github.com/sangkips/landedcost-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	ShippingAgency *handler.ShippingAgencyHandler
	Shipping       *handler.ShippingHandler
	Supplier       *handler.SupplierHandler
	SupplierOrder  *handler.SupplierOrderHandler
	CostReport     *handler.CostReportHandler
	Dashboard      *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	// Ping reports database health; nil skips the check.
	Ping func(ctx context.Context) error
	// BaseCtx bounds background work started by middleware.
	BaseCtx context.Context
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", healthHandler(deps))

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		ctx := deps.BaseCtx
		if ctx == nil {
			ctx = context.Background()
		}
		rateLimiter := middleware.NewUserRateLimiter(ctx, rateLimiterConfig(&deps.Cfg.RateLimit))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func rateLimiterConfig(cfg *config.RateLimitConfig) middleware.RateLimiterConfig {
	rlc := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rlc.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rlc.BurstSize = cfg.Requests
	}
	return rlc
}

func healthHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": deps.Cfg.App.Name,
		})
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/dashboard", middleware.RequirePermission("view-reports"), h.Dashboard.GetStats)

	registerShippingRoutes(protected, h)
	registerSupplierRoutes(protected, h)
	registerSupplierOrderRoutes(protected, h, deps)
}

func registerShippingRoutes(protected *gin.RouterGroup, h *Handlers) {
	agencies := protected.Group("/shipping-agencies")
	agencies.Use(middleware.RequirePermission("manage-shipping-agencies"))
	{
		agencies.GET("", h.ShippingAgency.List)
		agencies.POST("", h.ShippingAgency.Create)
		agencies.GET("/:id", h.ShippingAgency.Get)
		agencies.PUT("/:id", h.ShippingAgency.Update)
		agencies.DELETE("/:id", h.ShippingAgency.Delete)
	}

	protected.POST("/shipping/estimate", middleware.RequirePermission("manage-supplier-orders"), h.Shipping.Estimate)
}

func registerSupplierRoutes(protected *gin.RouterGroup, h *Handlers) {
	suppliers := protected.Group("/suppliers")
	suppliers.Use(middleware.RequirePermission("manage-suppliers"))
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}
}

func registerSupplierOrderRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := protected.Group("/supplier-orders")
	orders.Use(middleware.RequirePermission("manage-supplier-orders"))
	{
		orders.GET("", h.SupplierOrder.List)
		orders.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.SupplierOrder.Create)
		orders.GET("/:id", h.SupplierOrder.Get)
		orders.PUT("/:id", h.SupplierOrder.Update)
		orders.DELETE("/:id", h.SupplierOrder.Delete)
		orders.PUT("/:id/status", h.SupplierOrder.ChangeStatus)

		orders.POST("/:id/lines", h.SupplierOrder.AddLine)
		orders.PUT("/:id/lines/:line_id", h.SupplierOrder.UpdateLine)
		orders.DELETE("/:id/lines/:line_id", h.SupplierOrder.DeleteLine)

		orders.POST("/:id/deliveries", h.SupplierOrder.AddDelivery)
		orders.PUT("/:id/deliveries/:delivery_id", h.SupplierOrder.UpdateDelivery)
		orders.DELETE("/:id/deliveries/:delivery_id", h.SupplierOrder.DeleteDelivery)
		orders.GET("/:id/deliveries/:delivery_id/quote", h.SupplierOrder.QuoteDelivery)

		orders.GET("/:id/cost-report", h.CostReport.Get)
		orders.GET("/:id/cost-report/export", h.CostReport.Export)
	}
}

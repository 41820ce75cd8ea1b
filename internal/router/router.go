package router

import (
	"time"

	"stockdesk/internal/config"
	"stockdesk/internal/handler"
	"stockdesk/internal/infra"
	"stockdesk/internal/middleware"
	"stockdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the domain layer the router exposes. Auth may be nil when
// AUTH_ENABLED is off.
type Services struct {
	Products       service.ProductService
	Sales          service.SaleService
	PurchaseOrders service.PurchaseOrderService
	Reports        service.ReportService
	Auth           service.AuthService
}

// Infra carries the handles the health check reports on. Redis and
// MailBreaker may be nil.
type Infra struct {
	DB          *gorm.DB
	Redis       *redis.Client
	MailBreaker *infra.CircuitBreaker
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, svcs Services, inf Infra) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// order matters
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	productsH := handler.NewProductsHandler(svcs.Products)
	loc, err := cfg.Location()
	if err != nil {
		loc = time.UTC
	}
	salesH := handler.NewSalesHandler(svcs.Sales, loc)
	ordersH := handler.NewPurchaseOrdersHandler(svcs.PurchaseOrders)
	reportsH := handler.NewReportsHandler(svcs.Reports, loc)
	uploadsH := handler.NewUploadsHandler(cfg.UploadDir)

	r.GET("/health", handler.Health(inf.DB, inf.Redis, inf.MailBreaker))
	r.Static("/uploads", cfg.UploadDir)

	var protected []gin.HandlerFunc
	if cfg.AuthEnabled && svcs.Auth != nil {
		authH := handler.NewAuthHandler(svcs.Auth)
		auth := r.Group("/v1/auth", middleware.LoginRateLimiter())
		{
			auth.POST("/login", authH.Login)
			auth.POST("/refresh", authH.Refresh)
		}
		protected = append(protected, middleware.JWTAuth(cfg.JWTSecret))
	}

	v1 := r.Group("/v1", protected...)
	{
		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		inv := v1.Group("/inventory")
		{
			inv.GET("/alerts", productsH.StockAlerts)
			inv.GET("/price-comparison", productsH.PriceComparison)
		}

		sales := v1.Group("/sales")
		{
			sales.POST("", salesH.Record)
			sales.GET("", salesH.History)
			sales.GET("/monthly", salesH.Monthly)
		}

		orders := v1.Group("/purchase-orders")
		{
			orders.POST("", ordersH.Create)
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.POST("/:id/receive", ordersH.Receive)
			orders.POST("/:id/cancel", ordersH.Cancel)
			orders.GET("/:id/pdf", ordersH.Document)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/monthly", reportsH.Monthly)
			reports.GET("/stats", reportsH.Stats)
			reports.GET("/trends", reportsH.Trends)
			reports.GET("/dashboard", reportsH.Dashboard)
		}

		v1.POST("/uploads/images", uploadsH.Image)
	}

	return r
}

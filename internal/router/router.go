package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tradebook/internal/domain"
	"tradebook/internal/handler"
	"tradebook/internal/middleware"
	"tradebook/internal/service"

	_ "tradebook/docs"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Product   *handler.ProductHandler
	Consignee *handler.ConsigneeHandler
	Customer  *handler.CustomerHandler
	Order     *handler.OrderHandler
	Purchase  *handler.PurchaseHandler
	Stats     *handler.StatsHandler
	Health    *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)
	auth.POST("/register", h.Auth.Register)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	protected.GET("/firms", handler.ListFirms)
	protected.GET("/stats", h.Stats.GetStats)
	protected.POST("/billing/preview", h.Order.Preview)

	users := protected.Group("/users")
	users.POST("", adminOnly, h.User.Create)
	users.GET("", adminOnly, h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.DELETE("/:id", adminOnly, h.User.Delete)

	products := protected.Group("/products")
	products.GET("", h.Product.List)
	products.GET("/categories", h.Product.ListCategories)
	products.GET("/:id", h.Product.GetByID)
	products.POST("", adminOnly, h.Product.Create)
	products.PUT("/:id", adminOnly, h.Product.Update)
	products.DELETE("/:id", adminOnly, h.Product.Delete)
	products.POST("/:id/image", adminOnly, h.Product.UploadImage)

	consignees := protected.Group("/consignees")
	consignees.GET("", h.Consignee.List)
	consignees.GET("/:id", h.Consignee.GetByID)
	consignees.POST("", h.Consignee.Create)
	consignees.PUT("/:id", h.Consignee.Update)
	consignees.DELETE("/:id", adminOnly, h.Consignee.Delete)

	protected.GET("/customers", h.Customer.List)

	orders := protected.Group("/orders")
	orders.POST("", h.Order.Create)
	orders.GET("", h.Order.List)
	orders.GET("/pending", h.Customer.PendingBalance)
	orders.GET("/by-customer", h.Customer.Ledger)
	orders.GET("/by-number", h.Order.GetByInvoiceNumber)
	orders.GET("/export", h.Order.ExportCSV)
	orders.GET("/:id", h.Order.GetByID)
	orders.GET("/:id/pdf", h.Order.PDF)
	orders.GET("/:id/payments", h.Order.ListPayments)
	orders.POST("/:id/publish", h.Order.Publish)
	orders.DELETE("/:id", adminOnly, h.Order.Delete)

	protected.POST("/payments", h.Order.RecordPayment)

	purchases := protected.Group("/purchases")
	purchases.POST("", h.Purchase.Create)
	purchases.GET("", h.Purchase.List)
	purchases.GET("/:id", h.Purchase.GetByID)
	purchases.DELETE("/:id", adminOnly, h.Purchase.Delete)

	return r
}

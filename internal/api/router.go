package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/handlers"
	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/checkout"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, flow *checkout.Flow, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logging(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	orders := service.NewOrderService(repos, logger)

	// API v1 routes
	v1 := router.Group("/v1")
	{
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/shipping-methods", handlers.HandleShippingMethods())
			catalog.GET("/payment-methods", handlers.HandlePaymentMethods())
		}

		// Checkout works for guests and signed-in users
		sessions := v1.Group("/checkout/sessions")
		sessions.Use(middleware.OptionalAuth(repos, logger))
		{
			sessions.POST("", handlers.HandleStartCheckout(flow, logger))
			sessions.GET("/:id", handlers.HandleGetCheckout(flow, logger))
			sessions.PATCH("/:id", handlers.HandleUpdateCheckout(flow, logger))
			sessions.POST("/:id/advance", handlers.HandleAdvanceCheckout(flow, logger))
			sessions.POST("/:id/back", handlers.HandleBackCheckout(flow, logger))
			sessions.POST("/:id/submit", handlers.HandleSubmitCheckout(flow, logger))
		}

		account := v1.Group("")
		account.Use(middleware.RequireAuth(repos, logger))
		{
			account.GET("/profile", handlers.HandleGetProfile(repos, logger))
			account.PUT("/profile", handlers.HandlePutProfile(repos, logger))
			account.GET("/orders", handlers.HandleListMyOrders(orders, logger))
			account.GET("/orders/:id", handlers.HandleGetOrder(orders, logger))
		}

		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.RequireAuth(repos, logger), middleware.RequireAdmin())
		{
			adminRoutes.GET("/orders", handlers.HandleListOrders(orders, logger))
			adminRoutes.POST("/orders/:id/status", handlers.HandleUpdateOrderStatus(orders, logger))
			adminRoutes.GET("/stats", handlers.HandleStats(orders, logger))
		}
	}

	return router
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/xenocrm/crm-backend/internal/config"
	"github.com/xenocrm/crm-backend/internal/handlers"
	"github.com/xenocrm/crm-backend/internal/middleware"
)

// HandlerDependencies holds the handlers needed to build the router
type HandlerDependencies struct {
	AuthHandler      *handlers.AuthHandler
	CustomerHandler  *handlers.CustomerHandler
	OrderHandler     *handlers.OrderHandler
	CampaignHandler  *handlers.CampaignHandler
	AIHandler        *handlers.AIHandler
	AnalyticsHandler *handlers.AnalyticsHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		// Auth routes
		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}

		// Provider delivery receipt webhook
		public.POST("/delivery-receipt", deps.CampaignHandler.ProcessDeliveryReceipt)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		// Customer routes
		customers := protected.Group("/customers")
		{
			customers.GET("", deps.CustomerHandler.GetAllCustomers)
			customers.GET("/count", deps.CustomerHandler.GetCustomerCount)
			customers.GET("/top", deps.CustomerHandler.GetTopCustomers)
			customers.GET("/:id", deps.CustomerHandler.GetCustomerByID)
			customers.POST("", deps.CustomerHandler.CreateCustomer)
			customers.PUT("/:id", deps.CustomerHandler.UpdateCustomer)
			customers.DELETE("/:id", deps.CustomerHandler.DeleteCustomer)
			customers.DELETE("", deps.CustomerHandler.DeleteAllCustomers)
		}

		// Order routes
		orders := protected.Group("/orders")
		{
			orders.GET("", deps.OrderHandler.GetOrders)
			orders.GET("/count", deps.OrderHandler.GetOrderCount)
			orders.GET("/:id", deps.OrderHandler.GetOrderByID)
			orders.POST("", deps.OrderHandler.CreateOrder)
			orders.DELETE("/:id", deps.OrderHandler.DeleteOrder)
		}

		// Campaign routes
		campaigns := protected.Group("/campaigns")
		{
			campaigns.GET("", deps.CampaignHandler.GetAllCampaigns)
			campaigns.GET("/test-email", deps.CampaignHandler.TestEmailConfig)
			campaigns.GET("/:id", deps.CampaignHandler.GetCampaignByID)
			campaigns.GET("/:id/stats", deps.CampaignHandler.GetCampaignStats)
			campaigns.GET("/:id/logs", deps.CampaignHandler.GetCampaignLogs)
			campaigns.POST("", deps.CampaignHandler.CreateCampaign)
			campaigns.POST("/preview", deps.CampaignHandler.PreviewAudience)
			campaigns.POST("/:id/launch", deps.CampaignHandler.LaunchCampaign)
			campaigns.POST("/:id/resend", deps.CampaignHandler.ResendCampaign)
			campaigns.PUT("/:id", deps.CampaignHandler.UpdateCampaign)
			campaigns.PUT("/:id/status", deps.CampaignHandler.UpdateCampaignStatus)
			campaigns.DELETE("/:id", deps.CampaignHandler.DeleteCampaign)
		}

		// AI helper routes
		ai := protected.Group("/ai")
		{
			ai.POST("/natural-language-rules", deps.AIHandler.NaturalLanguageRules)
			ai.POST("/message-suggestions", deps.AIHandler.MessageSuggestions)
			ai.POST("/campaign-summary", deps.AIHandler.CampaignSummary)
			ai.POST("/send-time", deps.AIHandler.SendTime)
			ai.POST("/campaign-tags", deps.AIHandler.CampaignTags)
		}

		// Analytics routes
		analytics := protected.Group("/analytics")
		{
			analytics.GET("/overview", deps.AnalyticsHandler.Overview)
			analytics.GET("/campaigns", deps.AnalyticsHandler.Campaigns)
		}
	}

	return router
}

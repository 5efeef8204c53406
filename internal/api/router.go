package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/api/handlers"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/api/middleware"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/config"
	"github.com/M4H1-4B1R/order-splitter-shopify/internal/repository"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Order Splitter",
			"endpoints": []string{
				"GET /health",
				"POST /webhooks/orders-create",
				"GET /v1/admin/settings",
				"PUT /v1/admin/settings",
				"GET /v1/admin/mappings",
				"POST /v1/admin/mappings",
				"DELETE /v1/admin/mappings/:id",
				"GET /v1/admin/logs",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Shopify webhook: orders/create deliveries are verified and queued, the
	// background processor picks them up
	router.POST("/webhooks/orders-create", handlers.HandleOrdersCreateWebhook(cfg, repos, logger))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AdminAuthMiddleware(cfg, logger))
		{
			adminRoutes.GET("/settings", handlers.HandleGetSettings(repos, logger))
			adminRoutes.PUT("/settings", handlers.HandleUpdateSettings(repos, logger))
			adminRoutes.GET("/mappings", handlers.HandleListMappings(repos, logger))
			adminRoutes.POST("/mappings", handlers.HandleCreateMapping(repos, logger))
			adminRoutes.DELETE("/mappings/:id", handlers.HandleDeleteMapping(repos, logger))
			adminRoutes.GET("/logs", handlers.HandleListSplitLogs(repos, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}

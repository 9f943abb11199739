package routes

import (
	"net/http"

	"assetdesk/internal/core/container"
	"assetdesk/internal/metrics"
	"assetdesk/internal/middleware"
	"assetdesk/internal/rate_limiter"

	"github.com/gin-gonic/gin"
)

type writeLimited struct {
	gin.IRouter
	limit gin.HandlerFunc
}

// Mutating routes pass through the rate limiter; reads do not.
func (w writeLimited) POST(path string, handlers ...gin.HandlerFunc) gin.IRoutes {
	return w.IRouter.POST(path, append([]gin.HandlerFunc{w.limit}, handlers...)...)
}

func (w writeLimited) PUT(path string, handlers ...gin.HandlerFunc) gin.IRoutes {
	return w.IRouter.PUT(path, append([]gin.HandlerFunc{w.limit}, handlers...)...)
}

func (w writeLimited) PATCH(path string, handlers ...gin.HandlerFunc) gin.IRoutes {
	return w.IRouter.PATCH(path, append([]gin.HandlerFunc{w.limit}, handlers...)...)
}

func (w writeLimited) DELETE(path string, handlers ...gin.HandlerFunc) gin.IRoutes {
	return w.IRouter.DELETE(path, append([]gin.HandlerFunc{w.limit}, handlers...)...)
}

func RegisterAPIRoutes(router gin.IRouter, container *container.Container, limiter *rate_limiter.RateLimiter) {
	api := writeLimited{IRouter: router, limit: middleware.RateLimit(limiter)}

	container.AssetHandler.RegisterRoutes(api)
	container.EmployeeHandler.RegisterRoutes(api)
	container.AssignmentHandler.RegisterRoutes(api)
	container.HistoryHandler.RegisterRoutes(api)
}

func RegisterUtilityRoutes(router gin.IRouter, db middleware.Pinger) {
	router.GET("/health", middleware.HealthCheckMiddleware(db))
	router.GET("/metrics", metrics.Handler())
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "assetdesk"})
	})
}

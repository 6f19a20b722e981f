package handlers

import (
	portssvc "github.com/SscSPs/stock_warehouse/internal/core/ports/services"
	"github.com/SscSPs/stock_warehouse/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
	loadLimiter *limiter.Limiter,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	v1 := r.Group("/api/v1")

	// Write side: fact loads and ingestion triggers, rate limited.
	writes := v1.Group("", middleware.RateLimit(loadLimiter))
	registerLoadRoutes(writes, services.Loader)
	if services.Ingestion != nil {
		registerIngestionRoutes(writes, services.Ingestion)
	}

	// Read side: dimensions, conversions, version history.
	registerStockRoutes(v1, services.Dimension)
	registerCurrencyRoutes(v1, services.Dimension)
	registerConversionRoutes(v1, services.Conversion)
	registerVersionRoutes(v1, services.Versioning)
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	portssvc "github.com/SscSPs/stock_warehouse/internal/core/ports/services"
	"github.com/SscSPs/stock_warehouse/internal/dto"
	"github.com/SscSPs/stock_warehouse/internal/middleware"
	"github.com/gin-gonic/gin"
)

// stockHandler handles HTTP requests related to the stock dimension.
type stockHandler struct {
	dimensionService portssvc.DimensionSvcFacade
}

func newStockHandler(ds portssvc.DimensionSvcFacade) *stockHandler {
	return &stockHandler{dimensionService: ds}
}

// registerStockRoutes registers routes related to stocks.
func registerStockRoutes(rg *gin.RouterGroup, dimensionService portssvc.DimensionSvcFacade) {
	h := newStockHandler(dimensionService)

	stocks := rg.Group("/stocks")
	{
		stocks.GET("", h.listStocks)
		stocks.GET("/:ticker", h.getStockByTicker)
	}
}

func (h *stockHandler) listStocks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stocks, err := h.dimensionService.ListStocks(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list stocks", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list stocks"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListStockResponse(stocks))
}

func (h *stockHandler) getStockByTicker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ticker := c.Param("ticker")

	stock, err := h.dimensionService.GetStockByTicker(c.Request.Context(), ticker)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found"})
			return
		}
		logger.Error("Failed to get stock", slog.String("ticker", ticker), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stock"})
		return
	}

	c.JSON(http.StatusOK, dto.ToStockResponse(stock))
}

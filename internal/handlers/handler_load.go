package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/stock_warehouse/internal/core/ports/services"
	"github.com/SscSPs/stock_warehouse/internal/dto"
	"github.com/SscSPs/stock_warehouse/internal/middleware"
	"github.com/gin-gonic/gin"
)

// loadHandler handles HTTP requests that load fact batches.
type loadHandler struct {
	loaderService portssvc.LoaderSvcFacade
}

func newLoadHandler(ls portssvc.LoaderSvcFacade) *loadHandler {
	return &loadHandler{loaderService: ls}
}

// registerLoadRoutes registers routes related to fact loading.
func registerLoadRoutes(rg *gin.RouterGroup, loaderService portssvc.LoaderSvcFacade) {
	h := newLoadHandler(loaderService)

	loads := rg.Group("/loads")
	{
		loads.POST("/prices", h.loadPrices)
		loads.POST("/rates", h.loadRates)
	}
}

// loadPrices upserts a batch of daily OHLCV records. Per-record failures are
// reported in the result's rejected list; the response is 200 even for a
// partial success, since rejects never abort a batch.
func (h *loadHandler) loadPrices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoadPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LoadPrices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.loaderService.LoadPrices(c.Request.Context(), req.Records)
	if err != nil {
		logger.Error("Price load aborted by storage error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load prices"})
		return
	}

	logger.Info("Price batch loaded",
		slog.Int("inserted", result.Inserted),
		slog.Int("updated", result.Updated),
		slog.Int("unchanged", result.Unchanged),
		slog.Int("rejected", len(result.Rejected)),
	)
	c.JSON(http.StatusOK, dto.ToLoadResultResponse(result))
}

// loadRates upserts a batch of daily exchange rate records.
func (h *loadHandler) loadRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoadRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LoadRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.loaderService.LoadRates(c.Request.Context(), req.Records)
	if err != nil {
		logger.Error("Rate load aborted by storage error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rates"})
		return
	}

	logger.Info("Rate batch loaded",
		slog.Int("inserted", result.Inserted),
		slog.Int("updated", result.Updated),
		slog.Int("unchanged", result.Unchanged),
		slog.Int("rejected", len(result.Rejected)),
	)
	c.JSON(http.StatusOK, dto.ToLoadResultResponse(result))
}

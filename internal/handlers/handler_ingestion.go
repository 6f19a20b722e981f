package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	portssvc "github.com/SscSPs/stock_warehouse/internal/core/ports/services"
	"github.com/SscSPs/stock_warehouse/internal/dto"
	"github.com/SscSPs/stock_warehouse/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ingestionHandler exposes a manual trigger for one source day, the same
// operation the daily cron runs.
type ingestionHandler struct {
	ingestionService portssvc.IngestionSvcFacade
}

func newIngestionHandler(is portssvc.IngestionSvcFacade) *ingestionHandler {
	return &ingestionHandler{ingestionService: is}
}

// registerIngestionRoutes registers routes related to provider ingestion.
func registerIngestionRoutes(rg *gin.RouterGroup, ingestionService portssvc.IngestionSvcFacade) {
	h := newIngestionHandler(ingestionService)

	rg.POST("/ingest/run", h.runDay)
}

func (h *ingestionHandler) runDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	day, err := time.Parse(dateLayout, c.Query("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be a " + dateLayout + " date"})
		return
	}

	logger = logger.With(slog.String("day", c.Query("day")))
	logger.Info("Manual ingestion triggered")

	summary, err := h.ingestionService.RunDay(c.Request.Context(), day)
	if err != nil {
		if errors.Is(err, apperrors.ErrUpstreamUnavailable) {
			logger.Error("Ingestion failed: upstream unavailable", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Ingestion failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest source day"})
		return
	}

	logger.Info("Ingestion completed",
		slog.Int("prices_inserted", summary.Prices.Inserted),
		slog.Int("rates_inserted", summary.Rates.Inserted),
	)
	c.JSON(http.StatusOK, dto.ToIngestionSummaryResponse(summary))
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	portssvc "github.com/SscSPs/stock_warehouse/internal/core/ports/services"
	"github.com/SscSPs/stock_warehouse/internal/dto"
	"github.com/SscSPs/stock_warehouse/internal/middleware"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// conversionHandler handles read-only converted price queries.
type conversionHandler struct {
	conversionService portssvc.ConversionSvcFacade
}

func newConversionHandler(cs portssvc.ConversionSvcFacade) *conversionHandler {
	return &conversionHandler{conversionService: cs}
}

// registerConversionRoutes registers routes related to currency conversion.
func registerConversionRoutes(rg *gin.RouterGroup, conversionService portssvc.ConversionSvcFacade) {
	h := newConversionHandler(conversionService)

	rg.GET("/conversions", h.listConversions)
}

// listConversions returns converted OHLC rows for a date range, optional
// ticker set and a target currency. Rows with no same-day rate carry nulls in
// the converted fields.
func (h *conversionHandler) listConversions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	target := strings.ToUpper(strings.TrimSpace(c.Query("target")))
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target currency is required"})
		return
	}

	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a " + dateLayout + " date"})
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be a " + dateLayout + " date"})
		return
	}

	var tickers []string
	if raw := strings.TrimSpace(c.Query("tickers")); raw != "" {
		tickers = strings.Split(raw, ",")
	}

	logger = logger.With(slog.String("target", target), slog.String("from", c.Query("from")), slog.String("to", c.Query("to")))
	logger.Info("Received conversion query")

	rows, err := h.conversionService.ConvertRange(c.Request.Context(), from, to, tickers, target)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid conversion query", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Conversion target not found", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Conversion query failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert prices"})
		}
		return
	}

	logger.Info("Conversion query completed", slog.Int("rows", len(rows)))
	c.JSON(http.StatusOK, dto.ToListConvertedPriceResponse(rows))
}

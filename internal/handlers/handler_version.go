package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	portssvc "github.com/SscSPs/stock_warehouse/internal/core/ports/services"
	"github.com/SscSPs/stock_warehouse/internal/dto"
	"github.com/SscSPs/stock_warehouse/internal/middleware"
	"github.com/gin-gonic/gin"
)

// versionHandler handles HTTP requests related to dimension attribute history.
type versionHandler struct {
	versioningService portssvc.VersioningSvcFacade
}

func newVersionHandler(vs portssvc.VersioningSvcFacade) *versionHandler {
	return &versionHandler{versioningService: vs}
}

// registerVersionRoutes registers routes related to dimension versioning.
func registerVersionRoutes(rg *gin.RouterGroup, versioningService portssvc.VersioningSvcFacade) {
	h := newVersionHandler(versioningService)

	versions := rg.Group("/dimensions/:dimension/:surrogateID/versions")
	{
		versions.POST("", h.recordChange)
		versions.GET("", h.getAsOf)
		versions.GET("/history", h.history)
	}
}

func (h *versionHandler) recordChange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	dimension, surrogateID, ok := versionPathParams(c)
	if !ok {
		return
	}

	var req dto.RecordVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordChange", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	effective, err := time.Parse(dateLayout, req.EffectiveDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "effectiveDate must be a " + dateLayout + " date"})
		return
	}

	version, err := h.versioningService.RecordChange(c.Request.Context(), dimension, surrogateID, req.Attributes, effective)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to record dimension change", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record dimension change"})
		return
	}

	logger.Info("Dimension change recorded",
		slog.String("dimension", dimension),
		slog.Int64("surrogate_id", surrogateID),
		slog.String("valid_from", version.ValidFrom.Format(dateLayout)),
	)
	c.JSON(http.StatusCreated, dto.ToVersionResponse(version))
}

func (h *versionHandler) getAsOf(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	dimension, surrogateID, ok := versionPathParams(c)
	if !ok {
		return
	}

	asOf, err := time.Parse(dateLayout, c.Query("asOf"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be a " + dateLayout + " date"})
		return
	}

	version, err := h.versioningService.GetAsOf(c.Request.Context(), dimension, surrogateID, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No version covers that date"})
			return
		}
		if errors.Is(err, apperrors.ErrIntegrityViolation) {
			// Overlapping intervals must be visible to operators, never served
			// as if one of them were authoritative.
			logger.Error("Overlapping dimension versions detected", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to resolve version as of date", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve version"})
		return
	}

	c.JSON(http.StatusOK, dto.ToVersionResponse(version))
}

func (h *versionHandler) history(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	dimension, surrogateID, ok := versionPathParams(c)
	if !ok {
		return
	}

	versions, err := h.versioningService.History(c.Request.Context(), dimension, surrogateID)
	if err != nil {
		logger.Error("Failed to list version history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list version history"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListVersionResponse(versions))
}

func versionPathParams(c *gin.Context) (string, int64, bool) {
	dimension := c.Param("dimension")
	surrogateID, err := strconv.ParseInt(c.Param("surrogateID"), 10, 64)
	if err != nil || surrogateID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "surrogateID must be a positive integer"})
		return "", 0, false
	}
	return dimension, surrogateID, true
}

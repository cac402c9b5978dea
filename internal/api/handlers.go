package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"evdeger/server/internal/database"
	"evdeger/server/internal/models"
	"evdeger/server/internal/queue"
	"evdeger/server/internal/valuation"
)

// Handler serves the valuation API.
type Handler struct {
	db     *database.Database
	engine *valuation.Engine
	queue  *queue.ListingQueue
	logger *logrus.Logger
}

// NewHandler wires a handler from its collaborators.
func NewHandler(db *database.Database, engine *valuation.Engine, ingestQueue *queue.ListingQueue, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:     db,
		engine: engine,
		queue:  ingestQueue,
		logger: logger,
	}
}

// RequestID tags every request with an identifier for log correlation.
func (h *Handler) RequestID(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set("request_id", requestID)
	c.Header("X-Request-ID", requestID)
	c.Next()
}

// Estimate values a property from its attributes and the comparable corpus.
func (h *Handler) Estimate(c *gin.Context) {
	var req models.ValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse valuation request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	result, err := h.engine.Estimate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, valuation.ErrNoComparables) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Benzer özellikte emlak bulunamadı"})
			return
		}
		h.logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("Valuation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to estimate property value"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// IngestListings accepts a batch of listings and queues it for the batch
// processor.
func (h *Handler) IngestListings(c *gin.Context) {
	var listings []*models.Listing
	if err := c.ShouldBindJSON(&listings); err != nil {
		h.logger.WithError(err).Error("Failed to parse listings batch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listings payload"})
		return
	}
	if len(listings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty listings payload"})
		return
	}

	if err := h.queue.Push(listings); err != nil {
		h.logger.WithError(err).Error("Failed to enqueue listings batch")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ingest queue unavailable"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
		"count":  len(listings),
	})
}

// InvestmentAnalysis returns the deterministic financing breakdown for an
// estimated value.
func (h *Handler) InvestmentAnalysis(c *gin.Context) {
	var query struct {
		Price float64 `form:"price" binding:"required,gt=0"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A positive price parameter is required"})
		return
	}

	c.JSON(http.StatusOK, valuation.AnalyzeInvestment(query.Price))
}

// GetNeighborhoods lists the distinct neighborhoods of a district.
func (h *Handler) GetNeighborhoods(c *gin.Context) {
	district := c.Param("district")

	values, err := h.db.GetNeighborhoods(c.Request.Context(), district)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get neighborhoods")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get neighborhoods"})
		return
	}

	c.JSON(http.StatusOK, values)
}

// lookupHandler serves the distinct values of one listing column.
func (h *Handler) lookupHandler(column string) gin.HandlerFunc {
	return func(c *gin.Context) {
		values, err := h.db.GetDistinctValues(c.Request.Context(), column)
		if err != nil {
			h.logger.WithError(err).WithField("column", column).Error("Failed to get lookup values")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get lookup values"})
			return
		}

		c.JSON(http.StatusOK, values)
	}
}

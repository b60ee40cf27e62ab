// Package api implements the HTTP API for the notifier service: health and
// the manual scrape trigger.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saspirant/notifier/internal/logger"
	"github.com/saspirant/notifier/internal/orchestrator"
)

// Trigger runs a manual scrape pass for one source.
type Trigger interface {
	RunManualScrape(ctx context.Context, sourceID string) orchestrator.Result
}

// Handler holds the API dependencies.
type Handler struct {
	trigger Trigger
	logger  logger.Interface
}

// NewHandler creates the API handler.
func NewHandler(trigger Trigger, log logger.Interface) *Handler {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Handler{trigger: trigger, logger: log}
}

// Router builds the gin engine with all routes registered.
func (h *Handler) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", h.health)

	v1 := router.Group("/api/v1")
	v1.POST("/sources/:id/scrape", h.scrapeSource)

	return router
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// scrapeSource triggers a synchronous scrape-and-notify run. An overlapping
// run or unknown source reports the failure in the result body.
func (h *Handler) scrapeSource(c *gin.Context) {
	sourceID := c.Param("id")
	if sourceID == "" {
		respondBadRequest(c, "missing source id")
		return
	}

	h.logger.Info("Manual scrape requested", "source_id", sourceID)
	result := h.trigger.RunManualScrape(c.Request.Context(), sourceID)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusConflict
	}
	c.JSON(status, result)
}

// respondError sends a JSON error response.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondBadRequest sends a 400 with message.
func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

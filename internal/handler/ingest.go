package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TriggerIngestRun godoc
// @Summary      Run one news ingest cycle
// @Description  Fetches all configured feeds, stores new headlines, scores them and returns the cycle counters
// @Tags         ingest
// @Produce      json
// @Success      200  {object}  domain.IngestResult
// @Failure      500  {object}  map[string]string
// @Router       /api/ingest/run [post]
func (h *Handler) TriggerIngestRun(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trigger-ingest-run")
	defer span.End()

	result, err := h.pipeline.RunIngestCycle(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"items_fetched":    result.ItemsFetched,
		"items_duplicate":  result.ItemsDuplicate,
		"items_stored":     result.ItemsStored,
		"items_scored":     result.ItemsScored,
		"events_published": result.EventsPublished,
		"errors":           result.Errors,
	})
}

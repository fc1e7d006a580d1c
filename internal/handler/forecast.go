package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetForecast godoc
// @Summary      Current directional forecast
// @Description  Compares the last hour of scored news against the day so far and returns UP, DOWN or NEUTRAL with a confidence
// @Tags         forecast
// @Produce      json
// @Success      200  {object}  domain.Forecast
// @Failure      500  {object}  map[string]string
// @Router       /api/forecast [get]
func (h *Handler) GetForecast(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-forecast")
	defer span.End()

	f, err := h.pipeline.Forecast(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("direction", string(f.Direction)))

	c.JSON(http.StatusOK, f)
}

package handler

import (
	"net/http"
	"strings"

	"news-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type analyzeRequest struct {
	Headline string `json:"headline" binding:"required"`
	Summary  string `json:"summary"`
}

// AnalyzeSentiment godoc
// @Summary      Score a headline with the sentiment ensemble
// @Description  Returns label, confidence, combined score and per-scorer detail. Nothing is stored.
// @Tags         sentiment
// @Accept       json
// @Produce      json
// @Param        body  body  analyzeRequest  true  "Headline and optional summary"
// @Success      200  {object}  sentiment.Result
// @Failure      400  {object}  map[string]string
// @Router       /api/sentiment/analyze [post]
func (h *Handler) AnalyzeSentiment(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.analyze-sentiment")
	defer span.End()

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "headline is required"})
		return
	}
	if strings.TrimSpace(req.Headline) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "headline is required"})
		return
	}

	c.JSON(http.StatusOK, h.pipeline.Analyze(req.Headline, req.Summary))
}

// GetSentimentSeries godoc
// @Summary      Scored articles for one day
// @Description  Returns every stored article published on the given UTC day with its sentiment verdict
// @Tags         sentiment
// @Produce      json
// @Param        date  query  string  false  "Day as YYYY-MM-DD (default today)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/sentiment/series [get]
func (h *Handler) GetSentimentSeries(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-sentiment-series")
	defer span.End()

	day, err := parseDay(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	span.SetAttributes(attribute.String("day", day.Format(domain.DayLayout)))

	series, err := h.pipeline.Series(ctx, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if series == nil {
		series = []domain.ScoredArticle{}
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     day.Format(domain.DayLayout),
		"count":    len(series),
		"articles": series,
	})
}

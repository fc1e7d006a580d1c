package handler

import (
	"net/http"

	"news-pulse/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetBTCPrice godoc
// @Summary      BTC spot price
// @Description  Without a date returns the latest price. With date=YYYY-MM-DD returns the prices recorded that day.
// @Tags         prices
// @Produce      json
// @Param        date  query  string  false  "Day as YYYY-MM-DD"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/prices/btc [get]
func (h *Handler) GetBTCPrice(c *gin.Context) {
	if h.prices == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-btc-price")
	defer span.End()

	if c.Query("date") == "" {
		point, err := h.prices.GetBTCPrice(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, point)
		return
	}

	day, err := parseDay(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	points, err := h.prices.PricesForDay(ctx, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if points == nil {
		points = []domain.PricePoint{}
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   day.Format(domain.DayLayout),
		"symbol": "BTC",
		"prices": points,
	})
}

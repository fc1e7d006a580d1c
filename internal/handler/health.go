package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// AddHealthCheck registers a named dependency probe reported by /health.
func (h *Handler) AddHealthCheck(name string, check HealthCheck) {
	if h.checks == nil {
		h.checks = make(map[string]HealthCheck)
	}
	h.checks[name] = check
}

// Health godoc
// @Summary      Health check
// @Description  Returns the service status and, when configured, the reachability of Postgres and Redis
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	if len(h.checks) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status, code := "healthy", http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	c.JSON(code, gin.H{"status": status, "checks": results})
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type HealthController struct {
	checks  map[string]HealthCheck
	started time.Time
}

func NewHealthController(checks map[string]HealthCheck) *HealthController {
	return &HealthController{checks: checks, started: time.Now()}
}

func (h *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	c.JSON(status, gin.H{
		"status":       http.StatusText(status),
		"uptime":       time.Since(h.started).Round(time.Second).String(),
		"dependencies": deps,
	})
}
